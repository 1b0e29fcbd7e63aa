package passenger

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrDuplicateEmail    = errors.New("passenger email already registered")
	ErrInvalidPassenger  = errors.New("invalid passenger data")
)

// Passenger represents a registered passenger.
type Passenger struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValid validates the passenger entity at the boundary.
func (p *Passenger) IsValid() error {
	if p.Name == "" || p.Email == "" || p.Phone == "" {
		return ErrInvalidPassenger
	}
	return nil
}

// Repository defines the storage contract for passengers.
type Repository interface {
	Insert(ctx context.Context, p *Passenger) error
	GetByID(ctx context.Context, id int64) (*Passenger, error)
	GetByEmail(ctx context.Context, email string) (*Passenger, error)
}
