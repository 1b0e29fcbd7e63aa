package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftride/backend/internal/domain/request"
)

// capturingQuerier records the statement handed to ExecContext instead of
// talking to a database.
type capturingQuerier struct {
	query string
	args  []interface{}
	execs int
}

func (c *capturingQuerier) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.execs++
	c.query = query
	c.args = args
	return oneRowResult{}, nil
}

func (c *capturingQuerier) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (c *capturingQuerier) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type oneRowResult struct{}

func (oneRowResult) LastInsertId() (int64, error) { return 0, nil }
func (oneRowResult) RowsAffected() (int64, error) { return 1, nil }

// The conditional UPDATE is assembled at runtime, so the placeholder
// numbering in the SET list and the WHERE clause has to be checked
// against the argument order it ships with.
func TestUpdateIfStatus_BuildsConditionalUpdate(t *testing.T) {
	driverID := int64(7)
	fare := 190.0
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name      string
		cond      request.Condition
		set       request.FieldSet
		wantQuery string
		wantTail  []interface{} // args after the updated_at timestamp
	}{
		{
			name: "accept binds driver under full guard",
			cond: request.Condition{
				Statuses:    []request.Status{request.StatusPending},
				UnboundOnly: true,
				VehicleType: request.VehicleEconomy,
			},
			set: request.FieldSet{
				Status:     request.StatusAccepted,
				BindDriver: &driverID,
				AcceptedAt: &ts,
			},
			wantQuery: "UPDATE ride_requests SET status = $1, updated_at = $2, driver_id = $3, accepted_at = $4 " +
				"WHERE id = $5 AND status IN ($6) AND driver_id IS NULL AND vehicle_type = $7",
			wantTail: []interface{}{driverID, ts, int64(42), "pending", "economy"},
		},
		{
			name: "cancel clears driver and records reason",
			cond: request.Condition{
				Statuses: []request.Status{
					request.StatusPending, request.StatusAssigned,
					request.StatusAccepted, request.StatusInProgress,
				},
			},
			set: request.FieldSet{
				Status:       request.StatusCancelled,
				ClearDriver:  true,
				CancelReason: "changed plans",
				CancelledAt:  &ts,
			},
			wantQuery: "UPDATE ride_requests SET status = $1, updated_at = $2, driver_id = NULL, cancel_reason = $3, cancelled_at = $4 " +
				"WHERE id = $5 AND status IN ($6, $7, $8, $9)",
			wantTail: []interface{}{"changed plans", ts, int64(42), "pending", "assigned", "accepted", "in_progress"},
		},
		{
			name: "complete writes the fare",
			cond: request.Condition{
				Statuses: []request.Status{request.StatusInProgress},
			},
			set: request.FieldSet{
				Status:      request.StatusCompleted,
				FareAmount:  &fare,
				CompletedAt: &ts,
			},
			wantQuery: "UPDATE ride_requests SET status = $1, updated_at = $2, fare_amount = $3, completed_at = $4 " +
				"WHERE id = $5 AND status IN ($6)",
			wantTail: []interface{}{fare, ts, int64(42), "in_progress"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &capturingQuerier{}
			s := &requestStore{q: q}

			applied, err := s.UpdateIfStatus(context.Background(), 42, tc.cond, tc.set)
			require.NoError(t, err)
			assert.True(t, applied)

			assert.Equal(t, tc.wantQuery, q.query)
			require.Len(t, q.args, len(tc.wantTail)+2)
			assert.Equal(t, string(tc.set.Status), q.args[0])
			assert.IsType(t, time.Time{}, q.args[1], "updated_at is stamped at call time")
			assert.Equal(t, tc.wantTail, q.args[2:])
		})
	}
}

func TestUpdateIfStatus_RejectsEmptyStatusGuard(t *testing.T) {
	q := &capturingQuerier{}
	s := &requestStore{q: q}

	applied, err := s.UpdateIfStatus(context.Background(), 42,
		request.Condition{}, request.FieldSet{Status: request.StatusCancelled})

	require.Error(t, err)
	assert.False(t, applied)
	assert.Zero(t, q.execs, "an unguarded update must never reach the database")
}
