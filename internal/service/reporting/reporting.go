// Package reporting serves the admin dashboard: joined request
// listings, aggregate stats, daily analytics and CSV export. All
// queries are read-only projections and never touch the assignment
// engine's transactional paths.
package reporting

import (
	"context"
	"time"

	"github.com/swiftride/backend/internal/domain/request"
	apperrors "github.com/swiftride/backend/pkg/errors"
)

// RequestRecord is a ride request joined with passenger and driver
// names for listings and exports.
type RequestRecord struct {
	ID             int64               `json:"id"`
	Status         request.Status      `json:"status"`
	VehicleType    request.VehicleType `json:"vehicle_type"`
	PassengerID    int64               `json:"passenger_id"`
	PassengerName  string              `json:"passenger_name"`
	DriverID       *int64              `json:"driver_id,omitempty"`
	DriverName     string              `json:"driver_name,omitempty"`
	PickupAddress  string              `json:"pickup_address"`
	DropoffAddress string              `json:"dropoff_address"`
	FareAmount     *float64            `json:"fare_amount,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	RequestsByStatus map[request.Status]int64 `json:"requests_by_status"`
	TotalRequests    int64                    `json:"total_requests"`
	OnlineDrivers    int64                    `json:"online_drivers"`
	AvailableDrivers int64                    `json:"available_drivers"`
	TotalRevenue     float64                  `json:"total_revenue"`
}

// DailyStat is one day of the analytics series.
type DailyStat struct {
	Day       string  `json:"day"`
	Requests  int64   `json:"requests"`
	Completed int64   `json:"completed"`
	Cancelled int64   `json:"cancelled"`
	Revenue   float64 `json:"revenue"`
}

// ListFilter narrows the joined listing.
type ListFilter struct {
	Status request.Status
	From   *time.Time
	To     *time.Time
	Limit  int
}

// Store is the read-model the reporting queries run against.
type Store interface {
	ListRequests(ctx context.Context, f ListFilter) ([]RequestRecord, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Daily(ctx context.Context, days int) ([]DailyStat, error)
}

// Service exposes the admin read side.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListRequests returns joined request records, newest first.
func (s *Service) ListRequests(ctx context.Context, f ListFilter) ([]RequestRecord, error) {
	if f.Status != "" {
		if _, err := request.ParseStatus(string(f.Status)); err != nil {
			return nil, apperrors.BadRequest("invalid status filter", err)
		}
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	recs, err := s.store.ListRequests(ctx, f)
	if err != nil {
		return nil, apperrors.Internal("failed to list requests", err)
	}
	return recs, nil
}

// Dashboard returns the aggregate summary.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.store.Dashboard(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to compute dashboard stats", err)
	}
	return stats, nil
}

// Daily returns per-day request counts and revenue for the last N days.
func (s *Service) Daily(ctx context.Context, days int) ([]DailyStat, error) {
	if days <= 0 || days > 90 {
		days = 30
	}
	stats, err := s.store.Daily(ctx, days)
	if err != nil {
		return nil, apperrors.Internal("failed to compute daily stats", err)
	}
	return stats, nil
}

// ExportCSV renders the filtered listing as CSV.
func (s *Service) ExportCSV(ctx context.Context, f ListFilter) ([]byte, error) {
	recs, err := s.ListRequests(ctx, f)
	if err != nil {
		return nil, err
	}
	return BuildCSV(recs)
}
