package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/passenger"
	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/internal/store"
	apperrors "github.com/swiftride/backend/pkg/errors"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same repository
// code serves plain and transactional access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store implements store.TxRunner over PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Requests() request.Repository     { return &requestStore{q: s.db} }
func (s *Store) Drivers() driver.Repository       { return &driverStore{q: s.db} }
func (s *Store) Passengers() passenger.Repository { return &passengerStore{q: s.db} }

type txStores struct {
	tx *sql.Tx
}

func (t *txStores) Requests() request.Repository     { return &requestStore{q: t.tx} }
func (t *txStores) Drivers() driver.Repository       { return &driverStore{q: t.tx} }
func (t *txStores) Passengers() passenger.Repository { return &passengerStore{q: t.tx} }

// WithinTx runs fn inside a single transaction. Row locks taken by
// GetForUpdate are held until commit or rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(store.Stores) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&txStores{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return mapTxError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// mapTxError turns a Postgres deadlock (40P01) or serialization failure
// (40001) anywhere in the chain into a conflict: the caller lost a race,
// the transaction rolled back cleanly, and a retry can win. Everything
// else passes through unchanged.
func mapTxError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == "40P01" || pqErr.Code == "40001") {
		return apperrors.Conflict("Transaction conflicted with a concurrent update", err)
	}
	return err
}
