package driver

import (
	"context"
	"time"

	"github.com/swiftride/backend/internal/domain/request"
)

// ListFilter narrows admin driver listings.
type ListFilter struct {
	OnlineOnly    bool
	AvailableOnly bool
	VehicleType   request.VehicleType
}

// Repository defines the storage contract for drivers. Availability flips
// happen inside the assignment engine's transaction; the store itself
// holds no business rules.
type Repository interface {
	Insert(ctx context.Context, d *Driver) error
	GetByID(ctx context.Context, id int64) (*Driver, error)
	GetByEmail(ctx context.Context, email string) (*Driver, error)

	// GetForUpdate reads the row under a row lock. Only meaningful
	// inside a transaction obtained from a TxRunner.
	GetForUpdate(ctx context.Context, id int64) (*Driver, error)

	SetAvailability(ctx context.Context, id int64, available bool) error
	SetOnline(ctx context.Context, id int64, online bool) error
	UpdateLocation(ctx context.Context, id int64, lat, lng float64, at time.Time) error
	List(ctx context.Context, f ListFilter) ([]*Driver, error)
}
