package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/passenger"
	"github.com/swiftride/backend/internal/domain/request"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

// RegisterPassenger handles POST /v1/auth/passengers/register
func (h *Handlers) RegisterPassenger(c *gin.Context) {
	var req dto.RegisterPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondErr(c, apperrors.Internal("Failed to hash password", err))
		return
	}

	p := &passenger.Passenger{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		PasswordHash: hash,
		Rating:       5.0,
	}
	if err := h.Stores.Passengers().Insert(c.Request.Context(), p); err != nil {
		if errors.Is(err, passenger.ErrDuplicateEmail) {
			h.respondErr(c, apperrors.ErrEmailTaken)
			return
		}
		h.respondErr(c, apperrors.Internal("Failed to create passenger", err))
		return
	}

	h.Logger.Info("Passenger registered", logger.Int64("passenger_id", p.ID))
	h.issueToken(c, http.StatusCreated, p.ID, auth.RolePassenger, p.Name)
}

// RegisterDriver handles POST /v1/auth/drivers/register
func (h *Handlers) RegisterDriver(c *gin.Context) {
	var req dto.RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	vt, err := request.ParseVehicleType(req.VehicleType)
	if err != nil {
		h.respondErr(c, apperrors.ErrInvalidVehicleType)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondErr(c, apperrors.Internal("Failed to hash password", err))
		return
	}

	d := &driver.Driver{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		PasswordHash: hash,
		VehicleType:  vt,
		VehiclePlate: req.VehiclePlate,
		Rating:       5.0,
	}
	if err := h.Stores.Drivers().Insert(c.Request.Context(), d); err != nil {
		if errors.Is(err, driver.ErrDuplicateEmail) {
			h.respondErr(c, apperrors.ErrEmailTaken)
			return
		}
		h.respondErr(c, apperrors.Internal("Failed to create driver", err))
		return
	}

	h.Logger.Info("Driver registered",
		logger.Int64("driver_id", d.ID),
		logger.String("vehicle_type", string(d.VehicleType)),
	)
	h.issueToken(c, http.StatusCreated, d.ID, auth.RoleDriver, d.Name)
}

// LoginPassenger handles POST /v1/auth/passengers/login
func (h *Handlers) LoginPassenger(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	p, err := h.Stores.Passengers().GetByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil || !auth.CheckPassword(p.PasswordHash, req.Password) {
		h.respondErr(c, apperrors.ErrInvalidCredentials)
		return
	}
	h.issueToken(c, http.StatusOK, p.ID, auth.RolePassenger, p.Name)
}

// LoginDriver handles POST /v1/auth/drivers/login
func (h *Handlers) LoginDriver(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	d, err := h.Stores.Drivers().GetByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil || !auth.CheckPassword(d.PasswordHash, req.Password) {
		h.respondErr(c, apperrors.ErrInvalidCredentials)
		return
	}
	h.issueToken(c, http.StatusOK, d.ID, auth.RoleDriver, d.Name)
}

// LoginAdmin handles POST /v1/auth/admin/login. The admin account is
// seeded from configuration, not stored in the database.
func (h *Handlers) LoginAdmin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondErr(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	if h.AdminPasswordHash == "" ||
		!strings.EqualFold(req.Email, h.AdminEmail) ||
		!auth.CheckPassword(h.AdminPasswordHash, req.Password) {
		h.respondErr(c, apperrors.ErrInvalidCredentials)
		return
	}
	h.issueToken(c, http.StatusOK, 0, auth.RoleAdmin, "")
}

func (h *Handlers) issueToken(c *gin.Context, status int, id int64, role, name string) {
	token, err := h.Auth.GenerateToken(id, role)
	if err != nil {
		h.respondErr(c, apperrors.Internal("Failed to issue token", err))
		return
	}
	c.JSON(status, dto.AuthResponse{Token: token, Role: role, ID: id, Name: name})
}
