package dto

import (
	"time"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/passenger"
	"github.com/swiftride/backend/internal/domain/request"
)

// AuthResponse is returned from register and login.
type AuthResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
}

// RideResponse is the public shape of a ride request.
type RideResponse struct {
	ID               int64      `json:"id"`
	PassengerID      int64      `json:"passenger_id"`
	DriverID         *int64     `json:"driver_id,omitempty"`
	Status           string     `json:"status"`
	VehicleType      string     `json:"vehicle_type"`
	PickupAddress    string     `json:"pickup_address,omitempty"`
	DropoffAddress   string     `json:"dropoff_address,omitempty"`
	PickupLatitude   float64    `json:"pickup_latitude"`
	PickupLongitude  float64    `json:"pickup_longitude"`
	DropoffLatitude  float64    `json:"dropoff_latitude"`
	DropoffLongitude float64    `json:"dropoff_longitude"`
	FareAmount       *float64   `json:"fare_amount,omitempty"`
	CancelReason     string     `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
}

// FromRequest maps a domain ride request to its response shape.
func FromRequest(r *request.RideRequest) RideResponse {
	return RideResponse{
		ID:               r.ID,
		PassengerID:      r.PassengerID,
		DriverID:         r.DriverID,
		Status:           string(r.Status),
		VehicleType:      string(r.VehicleType),
		PickupAddress:    r.PickupAddress,
		DropoffAddress:   r.DropoffAddress,
		PickupLatitude:   r.PickupLatitude,
		PickupLongitude:  r.PickupLongitude,
		DropoffLatitude:  r.DropoffLatitude,
		DropoffLongitude: r.DropoffLongitude,
		FareAmount:       r.FareAmount,
		CancelReason:     r.CancelReason,
		CreatedAt:        r.CreatedAt,
		AssignedAt:       r.AssignedAt,
		AcceptedAt:       r.AcceptedAt,
		StartedAt:        r.StartedAt,
		CompletedAt:      r.CompletedAt,
		CancelledAt:      r.CancelledAt,
	}
}

// FromRequests maps a slice of domain ride requests.
func FromRequests(rs []*request.RideRequest) []RideResponse {
	out := make([]RideResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromRequest(r))
	}
	return out
}

// DriverResponse is the public shape of a driver. The password hash
// never leaves the server.
type DriverResponse struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	VehicleType  string   `json:"vehicle_type"`
	VehiclePlate string   `json:"vehicle_plate"`
	Available    bool     `json:"available"`
	IsOnline     bool     `json:"is_online"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Rating       float64  `json:"rating"`
}

// FromDriver maps a domain driver to its response shape.
func FromDriver(d *driver.Driver) DriverResponse {
	return DriverResponse{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		VehicleType:  string(d.VehicleType),
		VehiclePlate: d.VehiclePlate,
		Available:    d.Available,
		IsOnline:     d.IsOnline,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Rating:       d.Rating,
	}
}

// FromDrivers maps a slice of domain drivers.
func FromDrivers(ds []*driver.Driver) []DriverResponse {
	out := make([]DriverResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDriver(d))
	}
	return out
}

// PassengerResponse is the public shape of a passenger.
type PassengerResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	Rating float64 `json:"rating"`
}

// FromPassenger maps a domain passenger to its response shape.
func FromPassenger(p *passenger.Passenger) PassengerResponse {
	return PassengerResponse{
		ID:     p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Phone:  p.Phone,
		Rating: p.Rating,
	}
}
