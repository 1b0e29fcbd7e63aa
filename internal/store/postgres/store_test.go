package postgres

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/swiftride/backend/pkg/errors"
)

// Two transactions locking the same rows in opposite orders make Postgres
// kill one of them with a deadlock or serialization SQLSTATE. The loser's
// transaction rolled back cleanly and a retry can win, so the error must
// surface as a conflict, not a generic internal failure.
func TestMapTxError_SQLStates(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "deadlock detected maps to conflict",
			err:        &pq.Error{Code: "40P01", Message: "deadlock detected"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "serialization failure maps to conflict",
			err:        &pq.Error{Code: "40001", Message: "could not serialize access"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "wrapped deadlock is still found",
			err:        fmt.Errorf("commit transaction: %w", &pq.Error{Code: "40P01"}),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "other sqlstates pass through",
			err:        &pq.Error{Code: "23505", Message: "duplicate key"},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "plain errors pass through",
			err:        fmt.Errorf("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapTxError(tc.err)
			assert.Equal(t, tc.wantStatus, apperrors.GetAppError(got).Status)
			if tc.wantStatus != http.StatusConflict {
				assert.Equal(t, tc.err, got, "non-retryable errors must not be rewritten")
			}
		})
	}
}
