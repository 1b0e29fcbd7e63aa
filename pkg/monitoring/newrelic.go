package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application. When disabled (or unlicensed)
// every method is a no-op.
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// IsEnabled returns whether New Relic is enabled.
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}

// RecordCustomEvent records a custom event.
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric.
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application.
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Domain event helpers

// RecordRequestCreated records a ride request creation.
func (nr *NewRelicApp) RecordRequestCreated(vehicleType string) {
	nr.RecordCustomEvent("RideRequestCreated", map[string]interface{}{
		"vehicle_type": vehicleType,
		"timestamp":    time.Now().Unix(),
	})
}

// RecordAssignment records a successful driver binding.
func (nr *NewRelicApp) RecordAssignment(requestID, driverID int64, flow string) {
	nr.RecordCustomEvent("DriverAssigned", map[string]interface{}{
		"request_id": requestID,
		"driver_id":  driverID,
		"flow":       flow,
	})
}

// RecordCompletion records a completed ride with its final fare.
func (nr *NewRelicApp) RecordCompletion(requestID int64, fare float64) {
	nr.RecordCustomEvent("RideCompleted", map[string]interface{}{
		"request_id": requestID,
		"fare":       fare,
	})
}

// RecordAssignmentConflict records a lost assignment race.
func (nr *NewRelicApp) RecordAssignmentConflict() {
	nr.RecordCustomMetric("custom/assignment/conflict", 1)
}
