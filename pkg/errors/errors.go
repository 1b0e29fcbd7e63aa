package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with an HTTP status code.
// The Code field is a stable, machine-readable kind: clients use it to
// decide whether a failed call is retryable (conflicts: pick another
// request/driver) or not (validation/auth).
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error constructors

// BadRequest creates a 400 error (malformed input).
func BadRequest(message string, err error) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest, Err: err}
}

// Unauthorized creates a 401 error (missing/invalid credential).
func Unauthorized(message string, err error) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: http.StatusUnauthorized, Err: err}
}

// Forbidden creates a 403 error (insufficient role or not the owner).
func Forbidden(message string, err error) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message, Status: http.StatusForbidden, Err: err}
}

// NotFound creates a 404 error.
func NotFound(message string, err error) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound, Err: err}
}

// Conflict creates a 409 error (state precondition failed).
func Conflict(message string, err error) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: http.StatusConflict, Err: err}
}

// Internal creates a 500 error. This is the only kind that surfaces an
// underlying store fault, and the wrapped error never reaches the client.
func Internal(message string, err error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError, Err: err}
}

// Domain-specific errors

var (
	ErrRequestNotFound   = NotFound("Ride request not found", nil)
	ErrDriverNotFound    = NotFound("Driver not found", nil)
	ErrPassengerNotFound = NotFound("Passenger not found", nil)

	ErrRequestNotPending        = Conflict("Ride request is no longer pending", nil)
	ErrRequestAlreadyBound      = Conflict("Ride request is already assigned to a driver", nil)
	ErrRequestNotActive         = Conflict("Ride request is not in an active state", nil)
	ErrRequestNoLongerAvailable = Conflict("Ride request is no longer available", nil)
	ErrDriverUnavailable        = Conflict("Driver is not available", nil)
	ErrDriverOffline            = Conflict("Driver is offline", nil)
	ErrVehicleTypeMismatch      = Conflict("Driver vehicle type does not match the request", nil)
	ErrAlreadyCompleted         = Conflict("Ride request is already completed", nil)
	ErrEmailTaken               = Conflict("Email is already registered", nil)

	ErrNotOwner = Forbidden("Ride request is bound to a different driver", nil)

	ErrInvalidStatus      = BadRequest("Invalid status value", nil)
	ErrInvalidVehicleType = BadRequest("Invalid vehicle type", nil)
	ErrInvalidCoordinates = BadRequest("Invalid coordinates", nil)
	ErrInvalidCredentials = Unauthorized("Invalid email or password", nil)
)

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to an AppError, falling back to a
// generic internal error for anything unrecognized.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsConflict reports whether err carries a 409 status.
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusConflict
}

// IsNotFound reports whether err carries a 404 status.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
