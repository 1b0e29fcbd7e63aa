package pricing

import "github.com/swiftride/backend/internal/domain/request"

// Config holds per-category rates.
type Config struct {
	BaseFare           map[request.VehicleType]float64
	PerKMRate          map[request.VehicleType]float64
	PerMinuteRate      map[request.VehicleType]float64
	MaxSurgeMultiplier float64
	MinSurgeMultiplier float64
}

// Calculator computes fares. It is a pure function of its configuration:
// the assignment engine calls Fare inside a transaction, so no I/O
// happens here.
type Calculator struct {
	config Config
}

// NewCalculator creates a Calculator.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{config: cfg}
}

// Fare computes the final fare for a completed trip.
func (c *Calculator) Fare(vehicleType request.VehicleType, distanceKM float64, durationMinutes int) float64 {
	base := c.config.BaseFare[vehicleType]
	perKM := c.config.PerKMRate[vehicleType]
	perMinute := c.config.PerMinuteRate[vehicleType]

	return base + (distanceKM * perKM) + (float64(durationMinutes) * perMinute)
}

// SurgeFromDemand derives a surge multiplier from the demand/supply
// ratio. Used by the reporting dashboard; completed fares are not
// surged retroactively.
func (c *Calculator) SurgeFromDemand(activeRequests, availableDrivers int) float64 {
	if availableDrivers == 0 {
		return c.config.MaxSurgeMultiplier
	}

	ratio := float64(activeRequests) / float64(availableDrivers)

	switch {
	case ratio < 0.5:
		return 1.0
	case ratio < 1.0:
		return 1.0 + (ratio * 0.5)
	case ratio < 2.0:
		return 1.5 + ((ratio - 1.0) * 1.0)
	default:
		multiplier := 2.5 + ((ratio - 2.0) * 0.25)
		if multiplier > c.config.MaxSurgeMultiplier {
			return c.config.MaxSurgeMultiplier
		}
		return multiplier
	}
}
