package driver

import "errors"

var (
	ErrDriverNotFound      = errors.New("driver not found")
	ErrInvalidDriverName   = errors.New("invalid driver name")
	ErrInvalidDriverEmail  = errors.New("invalid driver email")
	ErrInvalidDriverPhone  = errors.New("invalid driver phone")
	ErrInvalidVehicleType  = errors.New("invalid vehicle type")
	ErrDriverUnavailable   = errors.New("driver is not available")
	ErrDriverOffline       = errors.New("driver is offline")
	ErrDuplicateEmail      = errors.New("driver email already registered")
)
