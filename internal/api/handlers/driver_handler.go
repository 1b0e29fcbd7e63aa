package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/api/middleware"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/metrics"
)

// AvailableRides handles GET /v1/driver/requests: pending unbound
// requests in the driver's vehicle category, oldest first.
func (h *Handlers) AvailableRides(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}

	rides, err := h.Engine.AvailableRequests(c.Request.Context(), ident.ID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": dto.FromRequests(rides)})
}

// AcceptRide handles POST /v1/driver/requests/:id/accept. Exactly one
// driver wins a contested request; losers get a 409.
func (h *Handlers) AcceptRide(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		h.respondErr(c, err)
		return
	}

	r, err := h.Engine.Accept(c.Request.Context(), ident.ID, id)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	if h.Monitor != nil {
		h.Monitor.RecordAssignment(r.ID, ident.ID, "accept")
	}
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// StartRide handles POST /v1/driver/requests/:id/start.
func (h *Handlers) StartRide(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		h.respondErr(c, err)
		return
	}

	r, err := h.Engine.Start(c.Request.Context(), ident.ID, id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// CompleteRide handles POST /v1/driver/requests/:id/complete. The
// measured distance and duration set the final fare.
func (h *Handlers) CompleteRide(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		h.respondErr(c, err)
		return
	}

	var req dto.CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	r, err := h.Engine.Complete(c.Request.Context(), ident.ID, id, req.DistanceKM, req.DurationMinutes)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	if h.Monitor != nil && r.FareAmount != nil {
		h.Monitor.RecordCompletion(r.ID, *r.FareAmount)
	}
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// UpdateDriverLocation handles POST /v1/driver/location.
func (h *Handlers) UpdateDriverLocation(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	if err := h.Location.Update(c.Request.Context(), ident.ID, req.Latitude, req.Longitude); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UpdateOnlineStatus handles POST /v1/driver/status. Going offline
// removes the driver from the geo index.
func (h *Handlers) UpdateOnlineStatus(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}

	var req dto.UpdateOnlineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Online == nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}
	online := *req.Online

	ctx := c.Request.Context()
	changed, err := h.Engine.SetDriverOnline(ctx, ident.ID, online)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	// Repeated toggles in the same direction must not drift the gauge.
	if changed {
		if online {
			metrics.DriversOnline.Inc()
		} else {
			metrics.DriversOnline.Dec()
			h.Location.Remove(ctx, ident.ID)
		}
		h.Logger.Info("Driver status changed",
			logger.Int64("driver_id", ident.ID),
			logger.Bool("online", online),
		)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "online": online})
}
