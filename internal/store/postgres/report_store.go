package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/internal/service/reporting"
)

// reportStore answers the admin read-model queries with joined SQL.
// It reads through the pool directly, never inside a transaction.
type reportStore struct {
	db *sql.DB
}

// Reports returns the reporting read-model backed by this store.
func (s *Store) Reports() reporting.Store { return &reportStore{db: s.db} }

const reportListQuery = `
SELECT r.id, r.status, r.vehicle_type,
       r.passenger_id, p.name,
       r.driver_id, COALESCE(d.name, ''),
       r.pickup_address, r.dropoff_address,
       r.fare_amount, COALESCE(r.cancel_reason, ''),
       r.created_at, r.completed_at
FROM ride_requests r
JOIN passengers p ON p.id = r.passenger_id
LEFT JOIN drivers d ON d.id = r.driver_id`

func (s *reportStore) ListRequests(ctx context.Context, f reporting.ListFilter) ([]reporting.RequestRecord, error) {
	query := reportListQuery
	var args []interface{}
	var conds []string

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("r.created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("r.created_at < $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY r.created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list report requests: %w", err)
	}
	defer rows.Close()

	var out []reporting.RequestRecord
	for rows.Next() {
		var rec reporting.RequestRecord
		var status, vehicleType string
		err := rows.Scan(
			&rec.ID, &status, &vehicleType,
			&rec.PassengerID, &rec.PassengerName,
			&rec.DriverID, &rec.DriverName,
			&rec.PickupAddress, &rec.DropoffAddress,
			&rec.FareAmount, &rec.CancelReason,
			&rec.CreatedAt, &rec.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		rec.Status = request.Status(status)
		rec.VehicleType = request.VehicleType(vehicleType)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *reportStore) Dashboard(ctx context.Context) (*reporting.DashboardStats, error) {
	stats := &reporting.DashboardStats{
		RequestsByStatus: make(map[request.Status]int64),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM ride_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count requests by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.RequestsByStatus[request.Status(status)] = n
		stats.TotalRequests += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FILTER (WHERE is_online),
       COUNT(*) FILTER (WHERE is_online AND available)
FROM drivers`).Scan(&stats.OnlineDrivers, &stats.AvailableDrivers)
	if err != nil {
		return nil, fmt.Errorf("count drivers: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(fare_amount), 0) FROM ride_requests WHERE status = 'completed'`,
	).Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	return stats, nil
}

func (s *reportStore) Daily(ctx context.Context, days int) ([]reporting.DailyStat, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day,
       COUNT(*),
       COUNT(*) FILTER (WHERE status = 'completed'),
       COUNT(*) FILTER (WHERE status = 'cancelled'),
       COALESCE(SUM(fare_amount) FILTER (WHERE status = 'completed'), 0)
FROM ride_requests
WHERE created_at >= NOW() - ($1 * INTERVAL '1 day')
GROUP BY created_at::date
ORDER BY day`, days)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	defer rows.Close()

	var out []reporting.DailyStat
	for rows.Next() {
		var d reporting.DailyStat
		if err := rows.Scan(&d.Day, &d.Requests, &d.Completed, &d.Cancelled, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
