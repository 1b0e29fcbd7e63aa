package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/request"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

// CreateRide handles POST /v1/rides. The passenger id comes from the
// token, never the payload.
func (h *Handlers) CreateRide(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}

	var req dto.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	r := &request.RideRequest{
		PassengerID:      ident.ID,
		VehicleType:      request.VehicleType(req.VehicleType),
		PickupAddress:    req.PickupAddress,
		DropoffAddress:   req.DropoffAddress,
		PickupLatitude:   req.PickupLatitude,
		PickupLongitude:  req.PickupLongitude,
		DropoffLatitude:  req.DropoffLatitude,
		DropoffLongitude: req.DropoffLongitude,
	}

	created, err := h.Engine.Create(c.Request.Context(), r)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	if h.Monitor != nil {
		h.Monitor.RecordRequestCreated(string(created.VehicleType))
	}
	h.Logger.Info("Ride request created",
		logger.String("request_id", c.GetString("request_id")),
		logger.Int64("ride_id", created.ID),
		logger.Int64("passenger_id", ident.ID),
	)
	c.JSON(http.StatusCreated, dto.FromRequest(created))
}

// ListMyRides handles GET /v1/rides, the caller's own history.
func (h *Handlers) ListMyRides(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		h.respondErr(c, apperrors.Unauthorized("Missing identity", nil))
		return
	}

	var (
		rides []*request.RideRequest
		err   error
	)
	switch ident.Role {
	case auth.RolePassenger:
		rides, err = h.Stores.Requests().ListByPassenger(c.Request.Context(), ident.ID)
	case auth.RoleDriver:
		rides, err = h.Stores.Requests().List(c.Request.Context(), request.ListFilter{DriverID: ident.ID})
	default:
		h.respondErr(c, apperrors.Forbidden("Admins list rides via the reports endpoints", nil))
		return
	}
	if err != nil {
		h.respondErr(c, apperrors.Internal("Failed to list rides", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": dto.FromRequests(rides)})
}

// GetRide handles GET /v1/rides/:id. Visible to the owning passenger,
// the bound driver, and admins.
func (h *Handlers) GetRide(c *gin.Context) {
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

	r, err := h.Stores.Requests().GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound) {
			h.respondErr(c, apperrors.ErrRequestNotFound)
			return
		}
		h.respondErr(c, apperrors.Internal("Failed to load ride", err))
		return
	}

	switch ident.Role {
	case auth.RoleAdmin:
	case auth.RolePassenger:
		if r.PassengerID != ident.ID {
			h.respondErr(c, apperrors.Forbidden("Not your ride request", nil))
			return
		}
	case auth.RoleDriver:
		if r.DriverID == nil || *r.DriverID != ident.ID {
			h.respondErr(c, apperrors.Forbidden("Ride request is not bound to you", nil))
			return
		}
	}
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// CancelRide handles POST /v1/rides/:id/cancel for passengers. Admins
// cancel through the admin route.
func (h *Handlers) CancelRide(c *gin.Context) {
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

	// Body is optional: an empty body means no reason given.
	var req dto.CancelRideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
			return
		}
	}

	r, err := h.Stores.Requests().GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound) {
			h.respondErr(c, apperrors.ErrRequestNotFound)
			return
		}
		h.respondErr(c, apperrors.Internal("Failed to load ride", err))
		return
	}
	if r.PassengerID != ident.ID {
		h.respondErr(c, apperrors.Forbidden("Not your ride request", nil))
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "cancelled by passenger"
	}
	cancelled, err := h.Engine.Cancel(c.Request.Context(), id, reason)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRequest(cancelled))
}
