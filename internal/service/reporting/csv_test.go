package reporting

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftride/backend/internal/domain/request"
)

func TestBuildCSV_EmptyProducesHeaderOnly(t *testing.T) {
	out, err := BuildCSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, csvHeader, rows[0])
}

func TestBuildCSV_RendersRecords(t *testing.T) {
	driverID := int64(7)
	fare := 190.0
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := created.Add(25 * time.Minute)

	recs := []RequestRecord{
		{
			ID:            42,
			Status:        request.StatusCompleted,
			VehicleType:   request.VehiclePremium,
			PassengerID:   3,
			PassengerName: "Asha Rao",
			DriverID:      &driverID,
			DriverName:    "Ben Okafor",
			PickupAddress:  "12 MG Road",
			DropoffAddress: "Airport T2",
			FareAmount:    &fare,
			CreatedAt:     created,
			CompletedAt:   &completed,
		},
		{
			ID:            43,
			Status:        request.StatusPending,
			VehicleType:   request.VehicleEconomy,
			PassengerID:   4,
			PassengerName: "Marta, Silva", // comma forces quoting
			PickupAddress:  "Old Town",
			DropoffAddress: "Harbor",
			CreatedAt:     created,
		},
	}

	out, err := BuildCSV(recs)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, "42", first[0])
	assert.Equal(t, "completed", first[1])
	assert.Equal(t, "7", first[5])
	assert.Equal(t, "190.00", first[9])
	assert.Equal(t, "2025-03-01T10:25:00Z", first[12])

	second := rows[2]
	assert.Equal(t, "pending", second[1])
	assert.Equal(t, "", second[5], "unbound request has empty driver cell")
	assert.Equal(t, "", second[9], "pending request has empty fare cell")
	assert.Equal(t, "Marta, Silva", second[4])
}
