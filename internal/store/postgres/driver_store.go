package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/request"
)

type driverStore struct {
	q querier
}

const driverColumns = `id, name, email, phone, password_hash,
	vehicle_type, vehicle_plate, available, is_online,
	latitude, longitude, located_at, rating, created_at, updated_at`

func scanDriver(row rowScanner) (*driver.Driver, error) {
	var (
		d         driver.Driver
		vtype     string
		lat, lng  sql.NullFloat64
		locatedAt sql.NullTime
	)

	err := row.Scan(
		&d.ID, &d.Name, &d.Email, &d.Phone, &d.PasswordHash,
		&vtype, &d.VehiclePlate, &d.Available, &d.IsOnline,
		&lat, &lng, &locatedAt, &d.Rating, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := request.ParseVehicleType(vtype)
	if err != nil {
		return nil, fmt.Errorf("scan driver %d: %w", d.ID, err)
	}
	d.VehicleType = parsed

	if lat.Valid {
		d.Latitude = &lat.Float64
	}
	if lng.Valid {
		d.Longitude = &lng.Float64
	}
	if locatedAt.Valid {
		d.LocatedAt = &locatedAt.Time
	}
	return &d, nil
}

func (s *driverStore) Insert(ctx context.Context, d *driver.Driver) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO drivers (
			name, email, phone, password_hash,
			vehicle_type, vehicle_plate, available, is_online, rating,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, d.Name, d.Email, d.Phone, d.PasswordHash,
		string(d.VehicleType), d.VehiclePlate, d.Available, d.IsOnline, d.Rating,
		d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)

	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return driver.ErrDuplicateEmail
	}
	return err
}

func (s *driverStore) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)
	d, err := scanDriver(row)
	if err == sql.ErrNoRows {
		return nil, driver.ErrDriverNotFound
	}
	return d, err
}

func (s *driverStore) GetByEmail(ctx context.Context, email string) (*driver.Driver, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE email = $1`, email)
	d, err := scanDriver(row)
	if err == sql.ErrNoRows {
		return nil, driver.ErrDriverNotFound
	}
	return d, err
}

func (s *driverStore) GetForUpdate(ctx context.Context, id int64) (*driver.Driver, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1 FOR UPDATE`, id)
	d, err := scanDriver(row)
	if err == sql.ErrNoRows {
		return nil, driver.ErrDriverNotFound
	}
	return d, err
}

func (s *driverStore) SetAvailability(ctx context.Context, id int64, available bool) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE drivers SET available = $1, updated_at = $2 WHERE id = $3`,
		available, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, driver.ErrDriverNotFound)
}

func (s *driverStore) SetOnline(ctx context.Context, id int64, online bool) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE drivers SET is_online = $1, updated_at = $2 WHERE id = $3`,
		online, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, driver.ErrDriverNotFound)
}

func (s *driverStore) UpdateLocation(ctx context.Context, id int64, lat, lng float64, at time.Time) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE drivers
		SET latitude = $1, longitude = $2, located_at = $3, updated_at = $3
		WHERE id = $4
	`, lat, lng, at, id)
	if err != nil {
		return err
	}
	return requireRow(res, driver.ErrDriverNotFound)
}

func (s *driverStore) List(ctx context.Context, f driver.ListFilter) ([]*driver.Driver, error) {
	conds := []string{"TRUE"}
	var args []interface{}

	if f.OnlineOnly {
		conds = append(conds, "is_online")
	}
	if f.AvailableOnly {
		conds = append(conds, "available")
	}
	if f.VehicleType != "" {
		args = append(args, string(f.VehicleType))
		conds = append(conds, fmt.Sprintf("vehicle_type = $%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM drivers WHERE %s ORDER BY name",
		driverColumns, strings.Join(conds, " AND "))

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*driver.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
