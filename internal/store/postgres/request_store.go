package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/swiftride/backend/internal/domain/request"
)

type requestStore struct {
	q querier
}

const requestColumns = `id, passenger_id, driver_id, status, vehicle_type,
	pickup_address, dropoff_address,
	pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude,
	fare_amount, created_at, updated_at,
	assigned_at, accepted_at, started_at, completed_at, cancelled_at, cancel_reason`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*request.RideRequest, error) {
	var (
		r            request.RideRequest
		driverID     sql.NullInt64
		status       string
		fare         sql.NullFloat64
		assignedAt   sql.NullTime
		acceptedAt   sql.NullTime
		startedAt    sql.NullTime
		completedAt  sql.NullTime
		cancelledAt  sql.NullTime
		cancelReason sql.NullString
	)

	err := row.Scan(
		&r.ID, &r.PassengerID, &driverID, &status, &r.VehicleType,
		&r.PickupAddress, &r.DropoffAddress,
		&r.PickupLatitude, &r.PickupLongitude, &r.DropoffLatitude, &r.DropoffLongitude,
		&fare, &r.CreatedAt, &r.UpdatedAt,
		&assignedAt, &acceptedAt, &startedAt, &completedAt, &cancelledAt, &cancelReason,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := request.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("scan request %d: %w", r.ID, err)
	}
	r.Status = parsed

	if driverID.Valid {
		r.DriverID = &driverID.Int64
	}
	if fare.Valid {
		r.FareAmount = &fare.Float64
	}
	if assignedAt.Valid {
		r.AssignedAt = &assignedAt.Time
	}
	if acceptedAt.Valid {
		r.AcceptedAt = &acceptedAt.Time
	}
	if startedAt.Valid {
		r.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		r.CompletedAt = &completedAt.Time
	}
	if cancelledAt.Valid {
		r.CancelledAt = &cancelledAt.Time
	}
	if cancelReason.Valid {
		r.CancelReason = cancelReason.String
	}
	return &r, nil
}

func (s *requestStore) Insert(ctx context.Context, r *request.RideRequest) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = request.StatusPending
	}

	return s.q.QueryRowContext(ctx, `
		INSERT INTO ride_requests (
			passenger_id, status, vehicle_type,
			pickup_address, dropoff_address,
			pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, r.PassengerID, string(r.Status), string(r.VehicleType),
		r.PickupAddress, r.DropoffAddress,
		r.PickupLatitude, r.PickupLongitude, r.DropoffLatitude, r.DropoffLongitude,
		r.CreatedAt, r.UpdatedAt,
	).Scan(&r.ID)
}

func (s *requestStore) GetByID(ctx context.Context, id int64) (*request.RideRequest, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM ride_requests WHERE id = $1`, id)
	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, request.ErrRequestNotFound
	}
	return r, err
}

func (s *requestStore) GetForUpdate(ctx context.Context, id int64) (*request.RideRequest, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM ride_requests WHERE id = $1 FOR UPDATE`, id)
	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, request.ErrRequestNotFound
	}
	return r, err
}

// UpdateIfStatus is the compare-and-swap primitive: one conditional UPDATE
// keyed on the expected prior status (and, optionally, an unset driver
// reference and a matching vehicle category). A concurrent loser affects
// zero rows and gets (false, nil).
func (s *requestStore) UpdateIfStatus(ctx context.Context, id int64, cond request.Condition, set request.FieldSet) (bool, error) {
	if len(cond.Statuses) == 0 {
		return false, fmt.Errorf("update request %d: no expected status given", id)
	}

	args := []interface{}{string(set.Status), time.Now().UTC()}
	assigns := []string{"status = $1", "updated_at = $2"}

	addAssign := func(expr string, v interface{}) {
		args = append(args, v)
		assigns = append(assigns, fmt.Sprintf(expr, len(args)))
	}

	if set.BindDriver != nil {
		addAssign("driver_id = $%d", *set.BindDriver)
	} else if set.ClearDriver {
		assigns = append(assigns, "driver_id = NULL")
	}
	if set.FareAmount != nil {
		addAssign("fare_amount = $%d", *set.FareAmount)
	}
	if set.CancelReason != "" {
		addAssign("cancel_reason = $%d", set.CancelReason)
	}
	if set.AssignedAt != nil {
		addAssign("assigned_at = $%d", *set.AssignedAt)
	}
	if set.AcceptedAt != nil {
		addAssign("accepted_at = $%d", *set.AcceptedAt)
	}
	if set.StartedAt != nil {
		addAssign("started_at = $%d", *set.StartedAt)
	}
	if set.CompletedAt != nil {
		addAssign("completed_at = $%d", *set.CompletedAt)
	}
	if set.CancelledAt != nil {
		addAssign("cancelled_at = $%d", *set.CancelledAt)
	}

	args = append(args, id)
	conds := []string{fmt.Sprintf("id = $%d", len(args))}

	placeholders := make([]string, 0, len(cond.Statuses))
	for _, st := range cond.Statuses {
		args = append(args, string(st))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))

	if cond.UnboundOnly {
		conds = append(conds, "driver_id IS NULL")
	}
	if cond.VehicleType != "" {
		args = append(args, string(cond.VehicleType))
		conds = append(conds, fmt.Sprintf("vehicle_type = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE ride_requests SET %s WHERE %s",
		strings.Join(assigns, ", "), strings.Join(conds, " AND "))

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update request %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update request %d: %w", id, err)
	}
	return n == 1, nil
}

func (s *requestStore) ListPendingUnbound(ctx context.Context, vehicleType request.VehicleType) ([]*request.RideRequest, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM ride_requests
		WHERE status = $1 AND driver_id IS NULL AND vehicle_type = $2
		ORDER BY created_at ASC
	`, string(request.StatusPending), string(vehicleType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *requestStore) List(ctx context.Context, f request.ListFilter) ([]*request.RideRequest, error) {
	conds := []string{"TRUE"}
	var args []interface{}

	addCond := func(expr string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if f.Status != "" {
		addCond("status = $%d", string(f.Status))
	}
	if f.PassengerID != 0 {
		addCond("passenger_id = $%d", f.PassengerID)
	}
	if f.DriverID != 0 {
		addCond("driver_id = $%d", f.DriverID)
	}
	if !f.From.IsZero() {
		addCond("created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		addCond("created_at < $%d", f.To)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM ride_requests WHERE %s ORDER BY created_at DESC",
		requestColumns, strings.Join(conds, " AND "))
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *requestStore) ListByPassenger(ctx context.Context, passengerID int64) ([]*request.RideRequest, error) {
	return s.List(ctx, request.ListFilter{PassengerID: passengerID})
}

func collectRequests(rows *sql.Rows) ([]*request.RideRequest, error) {
	var out []*request.RideRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
