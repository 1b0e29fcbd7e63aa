package reporting

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

var csvHeader = []string{
	"id", "status", "vehicle_type",
	"passenger_id", "passenger_name",
	"driver_id", "driver_name",
	"pickup_address", "dropoff_address",
	"fare_amount", "cancel_reason",
	"created_at", "completed_at",
}

// BuildCSV renders records as CSV with a fixed header row. Pointer
// fields render as empty cells when unset.
func BuildCSV(recs []RequestRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range recs {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			string(r.Status),
			string(r.VehicleType),
			strconv.FormatInt(r.PassengerID, 10),
			r.PassengerName,
			formatID(r.DriverID),
			r.DriverName,
			r.PickupAddress,
			r.DropoffAddress,
			formatFare(r.FareAmount),
			r.CancelReason,
			r.CreatedAt.UTC().Format(time.RFC3339),
			formatTime(r.CompletedAt),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatFare(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
