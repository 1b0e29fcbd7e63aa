package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/internal/service/assignment"
	"github.com/swiftride/backend/internal/service/location"
	"github.com/swiftride/backend/internal/service/pricing"
	"github.com/swiftride/backend/internal/service/reporting"
	"github.com/swiftride/backend/internal/store/memory"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
)

type stubReports struct{}

func (stubReports) ListRequests(context.Context, reporting.ListFilter) ([]reporting.RequestRecord, error) {
	return []reporting.RequestRecord{{ID: 1, Status: request.StatusPending, PassengerName: "Asha"}}, nil
}

func (stubReports) Dashboard(context.Context) (*reporting.DashboardStats, error) {
	return &reporting.DashboardStats{TotalRequests: 1}, nil
}

func (stubReports) Daily(context.Context, int) ([]reporting.DailyStat, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	st := memory.New()
	fares := pricing.NewCalculator(pricing.Config{
		BaseFare:      map[request.VehicleType]float64{request.VehicleEconomy: 50, request.VehiclePremium: 100, request.VehicleLuxury: 200},
		PerKMRate:     map[request.VehicleType]float64{request.VehicleEconomy: 10, request.VehiclePremium: 15, request.VehicleLuxury: 25},
		PerMinuteRate: map[request.VehicleType]float64{request.VehicleEconomy: 2, request.VehiclePremium: 3, request.VehicleLuxury: 5},
	})
	engine := assignment.New(st, fares, log, nil)
	authSvc := auth.NewService("route-test-secret", time.Hour)
	nrApp, err := monitoring.New(monitoring.Config{Enabled: false})
	require.NoError(t, err)

	adminHash, err := auth.HashPassword("admin-secret-pw")
	require.NoError(t, err)

	h := handlers.NewHandlers(
		engine,
		reporting.NewService(stubReports{}),
		location.NewService(st, nil, log),
		authSvc, st, log, nrApp,
		"admin@swiftride.local", adminHash,
	)

	r := gin.New()
	SetupRoutes(r, h, nrApp, log)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerPassenger(t *testing.T, r *gin.Engine, email string) string {
	w := doJSON(t, r, http.MethodPost, "/v1/auth/passengers/register", "", gin.H{
		"name": "Asha Rao", "email": email, "phone": "555-0100", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func registerDriver(t *testing.T, r *gin.Engine, email, vehicleType string) string {
	w := doJSON(t, r, http.MethodPost, "/v1/auth/drivers/register", "", gin.H{
		"name": "Ben Okafor", "email": email, "phone": "555-0101",
		"password": "hunter2hunter2", "vehicle_type": vehicleType, "vehicle_plate": "KA-01-1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodPost, "/v1/driver/status", token, gin.H{"online": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return token
}

func TestRideLifecycleOverHTTP(t *testing.T) {
	r := newTestServer(t)

	passenger := registerPassenger(t, r, "asha@example.com")
	driver := registerDriver(t, r, "ben@example.com", "economy")

	// Passenger creates a ride.
	w := doJSON(t, r, http.MethodPost, "/v1/rides", passenger, gin.H{
		"vehicle_type":      "economy",
		"pickup_address":    "12 MG Road",
		"dropoff_address":   "Airport T2",
		"pickup_latitude":   12.97, "pickup_longitude": 77.59,
		"dropoff_latitude": 13.19, "dropoff_longitude": 77.70,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ride := decode(t, w)
	assert.Equal(t, "pending", ride["status"])
	rideID := int64(ride["id"].(float64))

	// Driver sees it in the feed.
	w = doJSON(t, r, http.MethodGet, "/v1/driver/requests", driver, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"id":%d`, rideID))

	// Accept, start, complete.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/driver/requests/%d/accept", rideID), driver, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "accepted", decode(t, w)["status"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/driver/requests/%d/start", rideID), driver, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "in_progress", decode(t, w)["status"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/driver/requests/%d/complete", rideID), driver, gin.H{
		"distance_km": 10.0, "duration_minutes": 20,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	completed := decode(t, w)
	assert.Equal(t, "completed", completed["status"])
	assert.Equal(t, 190.0, completed["fare_amount"])

	// Passenger sees the completed ride in their history.
	w = doJSON(t, r, http.MethodGet, "/v1/rides", passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
}

func TestAcceptTakenRideConflictsOverHTTP(t *testing.T) {
	r := newTestServer(t)

	passenger := registerPassenger(t, r, "asha@example.com")
	winner := registerDriver(t, r, "winner@example.com", "economy")
	loser := registerDriver(t, r, "loser@example.com", "economy")

	w := doJSON(t, r, http.MethodPost, "/v1/rides", passenger, gin.H{
		"vehicle_type":     "economy",
		"pickup_latitude":  12.97, "pickup_longitude": 77.59,
		"dropoff_latitude": 13.19, "dropoff_longitude": 77.70,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rideID := int64(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/driver/requests/%d/accept", rideID), winner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/driver/requests/%d/accept", rideID), loser, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestRideVisibilityOverHTTP(t *testing.T) {
	r := newTestServer(t)

	owner := registerPassenger(t, r, "owner@example.com")
	stranger := registerPassenger(t, r, "stranger@example.com")

	w := doJSON(t, r, http.MethodPost, "/v1/rides", owner, gin.H{
		"vehicle_type":     "premium",
		"pickup_latitude":  12.97, "pickup_longitude": 77.59,
		"dropoff_latitude": 13.19, "dropoff_longitude": 77.70,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rideID := int64(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/rides/%d", rideID), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/rides/%d", rideID), stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/rides/%d", rideID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminEndpointsOverHTTP(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/auth/admin/login", "", gin.H{
		"email": "admin@swiftride.local", "password": "admin-secret-pw",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	admin := decode(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodPost, "/v1/auth/admin/login", "", gin.H{
		"email": "admin@swiftride.local", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_requests":1`)

	w = doJSON(t, r, http.MethodGet, "/v1/admin/requests/export", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "passenger_name")

	// Passenger tokens do not pass the admin gate.
	passenger := registerPassenger(t, r, "asha@example.com")
	w = doJSON(t, r, http.MethodGet, "/v1/admin/dashboard", passenger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
