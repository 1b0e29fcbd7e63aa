package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_ClosedEnumeration(t *testing.T) {
	valid := []string{"pending", "assigned", "accepted", "in_progress", "completed", "cancelled"}
	for _, s := range valid {
		got, err := ParseStatus(s)
		require.NoError(t, err, "status %q should parse", s)
		assert.Equal(t, Status(s), got)
	}

	for _, s := range []string{"", "PENDING", "confirmed", "done", "unknown"} {
		_, err := ParseStatus(s)
		assert.Error(t, err, "status %q must be rejected, not defaulted", s)
	}
}

func TestStatus_BoundSet(t *testing.T) {
	tests := []struct {
		status Status
		bound  bool
	}{
		{StatusPending, false},
		{StatusAssigned, true},
		{StatusAccepted, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.bound, tt.status.IsBound())
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestRideRequest_TransitionGuards(t *testing.T) {
	driverID := int64(9)

	pending := &RideRequest{ID: 1, Status: StatusPending}
	assert.True(t, pending.CanAssign())
	assert.True(t, pending.CanAccept())
	assert.False(t, pending.CanStart())
	assert.False(t, pending.CanComplete())

	bound := &RideRequest{ID: 1, Status: StatusAssigned, DriverID: &driverID}
	assert.False(t, bound.CanAssign(), "no silent reassignment of a bound request")
	assert.False(t, bound.CanAccept())
	assert.True(t, bound.CanStart())
	assert.True(t, bound.CanComplete())

	inProgress := &RideRequest{ID: 1, Status: StatusInProgress, DriverID: &driverID}
	assert.False(t, inProgress.CanStart())
	assert.True(t, inProgress.CanComplete())

	completed := &RideRequest{ID: 1, Status: StatusCompleted, DriverID: &driverID}
	assert.False(t, completed.CanComplete(), "no double completion")
	assert.False(t, completed.CanAssign(), "no backward transition")
}

func TestRideRequest_Ownership(t *testing.T) {
	driverID := int64(9)
	r := &RideRequest{ID: 1, Status: StatusAccepted, DriverID: &driverID}

	assert.True(t, r.IsOwnedBy(9))
	assert.False(t, r.IsOwnedBy(10))
	assert.False(t, (&RideRequest{Status: StatusPending}).IsOwnedBy(9))
}

func TestRideRequest_CheckInvariant(t *testing.T) {
	driverID := int64(9)
	now := time.Now()

	ok := []*RideRequest{
		{ID: 1, Status: StatusPending, CreatedAt: now},
		{ID: 2, Status: StatusAssigned, DriverID: &driverID},
		{ID: 3, Status: StatusCompleted, DriverID: &driverID},
		{ID: 4, Status: StatusCancelled},
	}
	for _, r := range ok {
		assert.NoError(t, r.CheckInvariant(), "request %d", r.ID)
	}

	bad := []*RideRequest{
		{ID: 5, Status: StatusPending, DriverID: &driverID},
		{ID: 6, Status: StatusAssigned},
		{ID: 7, Status: StatusCompleted},
	}
	for _, r := range bad {
		assert.Error(t, r.CheckInvariant(), "request %d", r.ID)
	}
}

func TestParseVehicleType(t *testing.T) {
	for _, v := range []string{"economy", "premium", "luxury"} {
		got, err := ParseVehicleType(v)
		require.NoError(t, err)
		assert.Equal(t, VehicleType(v), got)
	}
	_, err := ParseVehicleType("rickshaw")
	assert.Error(t, err)
}
