package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swiftride/backend/internal/domain/request"
)

func getTestConfig() Config {
	return Config{
		BaseFare: map[request.VehicleType]float64{
			request.VehicleEconomy: 50.0,
			request.VehiclePremium: 100.0,
			request.VehicleLuxury:  200.0,
		},
		PerKMRate: map[request.VehicleType]float64{
			request.VehicleEconomy: 10.0,
			request.VehiclePremium: 15.0,
			request.VehicleLuxury:  25.0,
		},
		PerMinuteRate: map[request.VehicleType]float64{
			request.VehicleEconomy: 2.0,
			request.VehiclePremium: 3.0,
			request.VehicleLuxury:  5.0,
		},
		MaxSurgeMultiplier: 3.0,
		MinSurgeMultiplier: 1.0,
	}
}

func TestFare_BaseCalculation(t *testing.T) {
	calc := NewCalculator(getTestConfig())

	tests := []struct {
		name        string
		vehicleType request.VehicleType
		distanceKm  float64
		durationMin int
		expected    float64
	}{
		{
			name:        "Economy 10km 20min",
			vehicleType: request.VehicleEconomy,
			distanceKm:  10.0,
			durationMin: 20,
			expected:    190.0, // 50 + (10*10) + (20*2)
		},
		{
			name:        "Premium 15km 30min",
			vehicleType: request.VehiclePremium,
			distanceKm:  15.0,
			durationMin: 30,
			expected:    415.0, // 100 + (15*15) + (30*3)
		},
		{
			name:        "Luxury 20km 45min",
			vehicleType: request.VehicleLuxury,
			distanceKm:  20.0,
			durationMin: 45,
			expected:    925.0, // 200 + (20*25) + (45*5)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fare := calc.Fare(tt.vehicleType, tt.distanceKm, tt.durationMin)
			assert.Equal(t, tt.expected, fare)
		})
	}
}

func TestFare_ZeroDistance(t *testing.T) {
	calc := NewCalculator(getTestConfig())

	fare := calc.Fare(request.VehicleEconomy, 0, 10)

	assert.Equal(t, 70.0, fare, "Zero distance should charge base + time")
}

func TestFare_CategoryOrdering(t *testing.T) {
	calc := NewCalculator(getTestConfig())

	economy := calc.Fare(request.VehicleEconomy, 10.0, 20)
	premium := calc.Fare(request.VehiclePremium, 10.0, 20)
	luxury := calc.Fare(request.VehicleLuxury, 10.0, 20)

	assert.Less(t, economy, premium)
	assert.Less(t, premium, luxury)
}

func TestSurgeFromDemand(t *testing.T) {
	calc := NewCalculator(getTestConfig())

	tests := []struct {
		name             string
		activeRequests   int
		availableDrivers int
		expectedMin      float64
		expectedMax      float64
	}{
		{"Low demand", 5, 20, 1.0, 1.0},
		{"Moderate demand", 15, 20, 1.0, 1.5},
		{"High demand", 40, 20, 1.5, 2.5},
		{"Very high demand", 100, 10, 2.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surge := calc.SurgeFromDemand(tt.activeRequests, tt.availableDrivers)

			assert.GreaterOrEqual(t, surge, tt.expectedMin)
			assert.LessOrEqual(t, surge, tt.expectedMax)
			assert.LessOrEqual(t, surge, 3.0, "Surge should never exceed max")
		})
	}
}

func TestSurgeFromDemand_NoDrivers(t *testing.T) {
	calc := NewCalculator(getTestConfig())

	assert.Equal(t, 3.0, calc.SurgeFromDemand(50, 0))
}

func BenchmarkFare(b *testing.B) {
	calc := NewCalculator(getTestConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Fare(request.VehicleEconomy, 10.0, 20)
	}
}
