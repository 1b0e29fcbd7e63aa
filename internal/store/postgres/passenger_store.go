package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/swiftride/backend/internal/domain/passenger"
)

type passengerStore struct {
	q querier
}

const passengerColumns = `id, name, email, phone, password_hash, rating, created_at, updated_at`

func scanPassenger(row rowScanner) (*passenger.Passenger, error) {
	var p passenger.Passenger
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.PasswordHash,
		&p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *passengerStore) Insert(ctx context.Context, p *passenger.Passenger) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO passengers (name, email, phone, password_hash, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.Name, p.Email, p.Phone, p.PasswordHash, p.Rating, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)

	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return passenger.ErrDuplicateEmail
	}
	return err
}

func (s *passengerStore) GetByID(ctx context.Context, id int64) (*passenger.Passenger, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE id = $1`, id)
	p, err := scanPassenger(row)
	if err == sql.ErrNoRows {
		return nil, passenger.ErrPassengerNotFound
	}
	return p, err
}

func (s *passengerStore) GetByEmail(ctx context.Context, email string) (*passenger.Passenger, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE email = $1`, email)
	p, err := scanPassenger(row)
	if err == sql.ErrNoRows {
		return nil, passenger.ErrPassengerNotFound
	}
	return p, err
}
