package driver

import (
	"time"

	"github.com/swiftride/backend/internal/domain/request"
)

// Driver represents a registered driver.
type Driver struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	PasswordHash string              `json:"-"`
	VehicleType  request.VehicleType `json:"vehicle_type"`
	VehiclePlate string              `json:"vehicle_plate"`
	Available    bool                `json:"available"`
	IsOnline     bool                `json:"is_online"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	LocatedAt    *time.Time          `json:"located_at,omitempty"`
	Rating       float64             `json:"rating"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Location is a driver's last known position.
type Location struct {
	Latitude  float64
	Longitude float64
}

// IsValid validates the driver entity at the boundary.
func (d *Driver) IsValid() error {
	if d.Name == "" {
		return ErrInvalidDriverName
	}
	if d.Email == "" {
		return ErrInvalidDriverEmail
	}
	if d.Phone == "" {
		return ErrInvalidDriverPhone
	}
	if _, err := request.ParseVehicleType(string(d.VehicleType)); err != nil {
		return ErrInvalidVehicleType
	}
	return nil
}

// CanTakeRequest reports whether the driver may be bound to a new request.
func (d *Driver) CanTakeRequest() bool {
	return d.IsOnline && d.Available
}

// SetLocation records the driver's last known position.
func (d *Driver) SetLocation(lat, lng float64, at time.Time) {
	d.Latitude = &lat
	d.Longitude = &lng
	d.LocatedAt = &at
	d.UpdatedAt = at
}

// GetLocation returns the last known position, or nil if none reported.
func (d *Driver) GetLocation() *Location {
	if d.Latitude == nil || d.Longitude == nil {
		return nil
	}
	return &Location{Latitude: *d.Latitude, Longitude: *d.Longitude}
}
