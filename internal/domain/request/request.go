package request

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a ride request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// VehicleType matches driver vehicle categories.
type VehicleType string

const (
	VehicleEconomy VehicleType = "economy"
	VehiclePremium VehicleType = "premium"
	VehicleLuxury  VehicleType = "luxury"
)

// RideRequest represents a passenger's ride request. DriverID stays nil
// until the assignment engine binds a driver.
type RideRequest struct {
	ID               int64       `json:"id"`
	PassengerID      int64       `json:"passenger_id"`
	DriverID         *int64      `json:"driver_id,omitempty"`
	Status           Status      `json:"status"`
	VehicleType      VehicleType `json:"vehicle_type"`
	PickupAddress    string      `json:"pickup_address"`
	DropoffAddress   string      `json:"dropoff_address"`
	PickupLatitude   float64     `json:"pickup_latitude"`
	PickupLongitude  float64     `json:"pickup_longitude"`
	DropoffLatitude  float64     `json:"dropoff_latitude"`
	DropoffLongitude float64     `json:"dropoff_longitude"`
	FareAmount       *float64    `json:"fare_amount,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	AssignedAt       *time.Time  `json:"assigned_at,omitempty"`
	AcceptedAt       *time.Time  `json:"accepted_at,omitempty"`
	StartedAt        *time.Time  `json:"started_at,omitempty"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	CancelledAt      *time.Time  `json:"cancelled_at,omitempty"`
	CancelReason     string      `json:"cancel_reason,omitempty"`
}

// ParseStatus validates a persisted status value. The enumeration is
// closed: unknown values are an error at the scan boundary, never a
// silent default.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAssigned, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown ride request status %q", s)
}

// IsValid reports whether s is a member of the closed status enumeration.
func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsBound reports whether a request in this status must have a driver
// reference set.
func (s Status) IsBound() bool {
	switch s {
	case StatusAssigned, StatusAccepted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseVehicleType validates a vehicle category value.
func ParseVehicleType(v string) (VehicleType, error) {
	switch VehicleType(v) {
	case VehicleEconomy, VehiclePremium, VehicleLuxury:
		return VehicleType(v), nil
	}
	return "", fmt.Errorf("unknown vehicle type %q", v)
}

// ActiveStatuses are the states in which a bound driver counts as occupied.
func ActiveStatuses() []Status {
	return []Status{StatusAssigned, StatusAccepted, StatusInProgress}
}

// CanAssign reports whether an admin may bind a driver to this request.
func (r *RideRequest) CanAssign() bool {
	return r.Status == StatusPending && r.DriverID == nil
}

// CanAccept reports whether a driver may self-accept this request.
func (r *RideRequest) CanAccept() bool {
	return r.Status == StatusPending && r.DriverID == nil
}

// CanStart reports whether the bound driver may begin the trip.
func (r *RideRequest) CanStart() bool {
	return r.Status == StatusAssigned || r.Status == StatusAccepted
}

// CanComplete reports whether the bound driver may complete the trip.
func (r *RideRequest) CanComplete() bool {
	switch r.Status {
	case StatusAssigned, StatusAccepted, StatusInProgress:
		return true
	}
	return false
}

// IsOwnedBy reports whether driverID is the bound driver.
func (r *RideRequest) IsOwnedBy(driverID int64) bool {
	return r.DriverID != nil && *r.DriverID == driverID
}

// CheckInvariant verifies the bind-state invariant: a driver reference is
// set exactly when the status is assigned-or-later. Cancelled rows have
// the binding released on cancellation.
func (r *RideRequest) CheckInvariant() error {
	bound := r.DriverID != nil
	if bound != r.Status.IsBound() {
		return fmt.Errorf("request %d: driver bound=%v inconsistent with status %q", r.ID, bound, r.Status)
	}
	return nil
}
