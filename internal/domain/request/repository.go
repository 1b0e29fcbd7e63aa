package request

import (
	"context"
	"errors"
	"time"
)

var (
	ErrRequestNotFound = errors.New("ride request not found")
	ErrInvalidStatus   = errors.New("invalid ride request status")
)

// FieldSet carries the mutations applied by a conditional update. Nil
// pointers mean "leave unchanged"; BindDriver/ClearDriver control the
// driver reference explicitly since nil is a meaningful value for it.
type FieldSet struct {
	Status       Status
	BindDriver   *int64
	ClearDriver  bool
	FareAmount   *float64
	CancelReason string
	AssignedAt   *time.Time
	AcceptedAt   *time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// ListFilter narrows admin listings.
type ListFilter struct {
	Status      Status
	PassengerID int64
	DriverID    int64
	From        time.Time
	To          time.Time
	Limit       int
}

// Condition guards a compare-and-swap update: the row is mutated only if
// its current status is in Statuses and, when set, the driver reference
// is unset and the vehicle category matches.
type Condition struct {
	Statuses    []Status
	UnboundOnly bool
	VehicleType VehicleType
}

// Repository is the storage contract for ride requests. UpdateIfStatus is
// the compare-and-swap primitive the assignment engine's concurrency
// safety is built on: the row is mutated only if cond holds, atomically
// with respect to concurrent callers. A losing caller gets (false, nil),
// never a partially applied write.
type Repository interface {
	Insert(ctx context.Context, r *RideRequest) error
	GetByID(ctx context.Context, id int64) (*RideRequest, error)

	// GetForUpdate reads the row under a row lock. Only meaningful
	// inside a transaction obtained from a TxRunner.
	GetForUpdate(ctx context.Context, id int64) (*RideRequest, error)

	UpdateIfStatus(ctx context.Context, id int64, cond Condition, set FieldSet) (bool, error)

	// ListPendingUnbound returns pending requests with no driver bound
	// and a matching vehicle category, oldest first.
	ListPendingUnbound(ctx context.Context, vehicleType VehicleType) ([]*RideRequest, error)

	List(ctx context.Context, f ListFilter) ([]*RideRequest, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]*RideRequest, error)
}
