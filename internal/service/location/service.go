// Package location tracks driver positions. The durable copy lives in
// Postgres; a Redis GEO index holds the live positions for proximity
// queries. Redis is optional: without it updates still persist and
// Nearby degrades to an error.
package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/store"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

const geoKey = "drivers:geo"

// NearbyDriver is one proximity query result.
type NearbyDriver struct {
	DriverID   int64   `json:"driver_id"`
	DistanceKM float64 `json:"distance_km"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Service persists driver locations and answers nearby queries.
type Service struct {
	stores store.Stores
	redis  *redis.Client
	logger *logger.Logger
}

func NewService(stores store.Stores, rdb *redis.Client, log *logger.Logger) *Service {
	return &Service{stores: stores, redis: rdb, logger: log}
}

// Update records a driver's position. The Postgres write is
// authoritative; a Redis failure is logged and swallowed so a cache
// outage never surfaces to the driver app.
func (s *Service) Update(ctx context.Context, driverID int64, lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.BadRequest("latitude must be between -90 and 90", nil)
	}
	if lng < -180 || lng > 180 {
		return apperrors.BadRequest("longitude must be between -180 and 180", nil)
	}

	if err := s.stores.Drivers().UpdateLocation(ctx, driverID, lat, lng, time.Now().UTC()); err != nil {
		if errors.Is(err, driver.ErrDriverNotFound) {
			return apperrors.ErrDriverNotFound
		}
		return apperrors.Internal("failed to persist driver location", err)
	}

	if s.redis != nil {
		err := s.redis.GeoAdd(ctx, geoKey, &redis.GeoLocation{
			Name:      fmt.Sprintf("%d", driverID),
			Latitude:  lat,
			Longitude: lng,
		}).Err()
		if err != nil {
			s.logger.Warn("Failed to update driver geo index",
				logger.Int64("driver_id", driverID),
				logger.Err(err),
			)
		}
	}
	return nil
}

// Remove drops a driver from the geo index, used when the driver goes
// offline.
func (s *Service) Remove(ctx context.Context, driverID int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.ZRem(ctx, geoKey, fmt.Sprintf("%d", driverID)).Err(); err != nil {
		s.logger.Warn("Failed to remove driver from geo index",
			logger.Int64("driver_id", driverID),
			logger.Err(err),
		)
	}
}

// Nearby returns drivers within radiusKM of the given point, closest
// first, capped at limit.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]NearbyDriver, error) {
	if s.redis == nil {
		return nil, apperrors.Internal("geo index unavailable", nil)
	}
	if radiusKM <= 0 {
		radiusKM = 5
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	locs, err := s.redis.GeoSearchLocation(ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  lng,
			Latitude:   lat,
			Radius:     radiusKM,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, apperrors.Internal("geo search failed", err)
	}

	out := make([]NearbyDriver, 0, len(locs))
	for _, loc := range locs {
		var id int64
		if _, err := fmt.Sscanf(loc.Name, "%d", &id); err != nil {
			continue
		}
		out = append(out, NearbyDriver{
			DriverID:   id,
			DistanceKM: loc.Dist,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
		})
	}
	return out, nil
}
