// Package store defines the storage composition consumed by the
// assignment engine: a bundle of repositories plus a transaction runner.
// The postgres implementation backs it with BeginTx and row locking; the
// memory implementation backs it with a single mutex and exists for tests.
package store

import (
	"context"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/passenger"
	"github.com/swiftride/backend/internal/domain/request"
)

// Stores bundles the repositories. Inside WithinTx all repositories
// operate on the same transaction.
type Stores interface {
	Requests() request.Repository
	Drivers() driver.Repository
	Passengers() passenger.Repository
}

// TxRunner executes fn atomically: either every write fn performs is
// visible, or none is. Row-locking reads (GetForUpdate) are only valid
// on the Stores passed to fn.
type TxRunner interface {
	Stores
	WithinTx(ctx context.Context, fn func(Stores) error) error
}
