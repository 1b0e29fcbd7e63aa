package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/internal/service/reporting"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

// AdminListRequests handles GET /v1/admin/requests with optional
// status and time range filters.
func (h *Handlers) AdminListRequests(c *gin.Context) {
	f, err := reportFilterFromQuery(c)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	recs, err := h.Reports.ListRequests(c.Request.Context(), f)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": recs})
}

// AdminAssignDriver handles POST /v1/admin/requests/:id/assign.
func (h *Handlers) AdminAssignDriver(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondErr(c, err)
		return
	}

	var req dto.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	r, err := h.Engine.AssignDriver(c.Request.Context(), id, req.DriverID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	if h.Monitor != nil {
		h.Monitor.RecordAssignment(r.ID, req.DriverID, "admin_assign")
	}
	h.Logger.Info("Driver assigned by admin",
		logger.Int64("ride_id", r.ID),
		logger.Int64("driver_id", req.DriverID),
	)
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// AdminCancelRequest handles POST /v1/admin/requests/:id/cancel.
func (h *Handlers) AdminCancelRequest(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondErr(c, err)
		return
	}

	var req dto.CancelRideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
			return
		}
	}
	reason := req.Reason
	if reason == "" {
		reason = "cancelled by admin"
	}

	r, err := h.Engine.Cancel(c.Request.Context(), id, reason)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// AdminDashboard handles GET /v1/admin/dashboard.
func (h *Handlers) AdminDashboard(c *gin.Context) {
	stats, err := h.Reports.Dashboard(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminDailyStats handles GET /v1/admin/analytics/daily?days=N.
func (h *Handlers) AdminDailyStats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	stats, err := h.Reports.Daily(c.Request.Context(), days)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": stats})
}

// AdminExportCSV handles GET /v1/admin/requests/export.
func (h *Handlers) AdminExportCSV(c *gin.Context) {
	f, err := reportFilterFromQuery(c)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	out, err := h.Reports.ExportCSV(c.Request.Context(), f)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	filename := "ride-requests-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", out)
}

// AdminListDrivers handles GET /v1/admin/drivers.
func (h *Handlers) AdminListDrivers(c *gin.Context) {
	f := driver.ListFilter{
		OnlineOnly:    c.Query("online") == "true",
		AvailableOnly: c.Query("available") == "true",
	}
	if vt := c.Query("vehicle_type"); vt != "" {
		parsed, err := request.ParseVehicleType(vt)
		if err != nil {
			h.respondErr(c, apperrors.ErrInvalidVehicleType)
			return
		}
		f.VehicleType = parsed
	}

	drivers, err := h.Stores.Drivers().List(c.Request.Context(), f)
	if err != nil {
		h.respondErr(c, apperrors.Internal("Failed to list drivers", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": dto.FromDrivers(drivers)})
}

// AdminNearbyDrivers handles GET /v1/admin/drivers/nearby.
func (h *Handlers) AdminNearbyDrivers(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		h.respondErr(c, apperrors.BadRequest("lat and lng query parameters are required", nil))
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "5"), 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	drivers, err := h.Location.Nearby(c.Request.Context(), lat, lng, radius, limit)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

func reportFilterFromQuery(c *gin.Context) (reporting.ListFilter, error) {
	var f reporting.ListFilter
	f.Status = request.Status(c.Query("status"))
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return f, apperrors.BadRequest("invalid limit query parameter", err)
		}
		f.Limit = n
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return f, apperrors.BadRequest("from must be RFC3339", err)
		}
		f.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return f, apperrors.BadRequest("to must be RFC3339", err)
		}
		f.To = &t
	}
	return f, nil
}
