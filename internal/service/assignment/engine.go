// Package assignment implements the ride-request lifecycle and the
// driver-binding protocol. Every transition that reads-then-writes a
// request or driver row happens inside one atomic unit: either a single
// conditional update keyed on the expected prior status, or a transaction
// holding row locks on both rows. A caller that loses a race observes a
// precondition failure, never a corrupted row.
package assignment

import (
	"context"
	"time"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/internal/store"
	"github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/metrics"
)

// Pricer finalizes the fare on completion. Pricing itself is pluggable;
// the engine only cares that it is a pure function of category, distance
// and duration.
type Pricer interface {
	Fare(vehicleType request.VehicleType, distanceKM float64, durationMinutes int) float64
}

// Recorder receives successful transitions for downstream consumers
// (event journal, APM). Best effort: failures are logged, never block a
// committed transition.
type Recorder interface {
	RequestTransition(ctx context.Context, r *request.RideRequest, flow string)
}

// Engine is the assignment state machine over a transactional store.
type Engine struct {
	store    store.TxRunner
	pricing  Pricer
	logger   *logger.Logger
	recorder Recorder
}

// New creates an Engine. recorder may be nil.
func New(s store.TxRunner, pricing Pricer, log *logger.Logger, recorder Recorder) *Engine {
	return &Engine{store: s, pricing: pricing, logger: log, recorder: recorder}
}

// Create registers a new pending request for a passenger.
func (e *Engine) Create(ctx context.Context, r *request.RideRequest) (*request.RideRequest, error) {
	if _, err := request.ParseVehicleType(string(r.VehicleType)); err != nil {
		return nil, errors.ErrInvalidVehicleType
	}
	r.Status = request.StatusPending
	r.DriverID = nil

	if err := e.store.Requests().Insert(ctx, r); err != nil {
		return nil, errors.Internal("Failed to create ride request", err)
	}

	metrics.RequestsCreated.Inc()
	e.logger.Info("Ride request created",
		logger.Int64("request_id", r.ID),
		logger.Int64("passenger_id", r.PassengerID),
		logger.String("vehicle_type", string(r.VehicleType)),
	)
	e.record(ctx, r, "create")
	return r, nil
}

// AssignDriver is the admin flow: bind a driver to a pending request.
// Both rows are locked inside one transaction so two concurrent callers
// cannot both read "pending/available" and both commit. The driver is
// marked unavailable immediately on binding.
func (e *Engine) AssignDriver(ctx context.Context, requestID, driverID int64) (*request.RideRequest, error) {
	var assigned *request.RideRequest

	err := e.store.WithinTx(ctx, func(tx store.Stores) error {
		req, err := tx.Requests().GetForUpdate(ctx, requestID)
		if err != nil {
			return mapRequestErr(err)
		}
		if !req.CanAssign() {
			if req.DriverID != nil {
				return errors.ErrRequestAlreadyBound
			}
			return errors.ErrRequestNotPending
		}

		d, err := tx.Drivers().GetForUpdate(ctx, driverID)
		if err != nil {
			return mapDriverErr(err)
		}
		if !d.IsOnline {
			return errors.ErrDriverOffline
		}
		if !d.Available {
			return errors.ErrDriverUnavailable
		}
		if d.VehicleType != req.VehicleType {
			return errors.ErrVehicleTypeMismatch
		}

		now := time.Now().UTC()
		applied, err := tx.Requests().UpdateIfStatus(ctx, requestID,
			request.Condition{Statuses: []request.Status{request.StatusPending}, UnboundOnly: true},
			request.FieldSet{
				Status:     request.StatusAssigned,
				BindDriver: &driverID,
				AssignedAt: &now,
			})
		if err != nil {
			return errors.Internal("Failed to assign driver", err)
		}
		if !applied {
			// Row locked above, so only reachable if the lock was
			// not honored; treat as a lost race.
			return errors.ErrRequestNotPending
		}

		if err := tx.Drivers().SetAvailability(ctx, driverID, false); err != nil {
			return errors.Internal("Failed to update driver availability", err)
		}

		req.Status = request.StatusAssigned
		req.DriverID = &driverID
		req.AssignedAt = &now
		req.UpdatedAt = now
		assigned = req
		return nil
	})
	if err != nil {
		e.observeFailure(err, "assign", requestID, driverID)
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(request.StatusAssigned), "admin").Inc()
	e.logger.Info("Driver assigned to request",
		logger.Int64("request_id", requestID),
		logger.Int64("driver_id", driverID),
	)
	e.record(ctx, assigned, "assign")
	return assigned, nil
}

// Accept is the driver self-service flow. The driver id comes from the
// authenticated identity, never from the payload. The binding is one
// conditional update: a losing concurrent caller affects zero rows and
// gets a conflict with no side effects.
func (e *Engine) Accept(ctx context.Context, driverID, requestID int64) (*request.RideRequest, error) {
	var accepted *request.RideRequest

	err := e.store.WithinTx(ctx, func(tx store.Stores) error {
		// Lock order: request row first, then driver, same as
		// AssignDriver. The two flows contending for the same pair must
		// queue on the request row, not deadlock holding one row each.
		req, err := tx.Requests().GetForUpdate(ctx, requestID)
		if err != nil {
			return mapRequestErr(err)
		}

		d, err := tx.Drivers().GetForUpdate(ctx, driverID)
		if err != nil {
			return mapDriverErr(err)
		}
		if !d.IsOnline {
			return errors.ErrDriverOffline
		}
		if !d.Available {
			return errors.ErrDriverUnavailable
		}

		if req.Status != request.StatusPending || req.DriverID != nil {
			return errors.ErrRequestNoLongerAvailable
		}
		if req.VehicleType != d.VehicleType {
			return errors.ErrVehicleTypeMismatch
		}

		// The conditional update still carries every precondition; with
		// the row lock held it can only miss if the guards above lied.
		now := time.Now().UTC()
		applied, err := tx.Requests().UpdateIfStatus(ctx, requestID,
			request.Condition{
				Statuses:    []request.Status{request.StatusPending},
				UnboundOnly: true,
				VehicleType: d.VehicleType,
			},
			request.FieldSet{
				Status:     request.StatusAccepted,
				BindDriver: &driverID,
				AcceptedAt: &now,
			})
		if err != nil {
			return errors.Internal("Failed to accept ride request", err)
		}
		if !applied {
			return errors.ErrRequestNoLongerAvailable
		}

		if err := tx.Drivers().SetAvailability(ctx, driverID, false); err != nil {
			return errors.Internal("Failed to update driver availability", err)
		}

		req, err = tx.Requests().GetByID(ctx, requestID)
		if err != nil {
			return mapRequestErr(err)
		}
		accepted = req
		return nil
	})
	if err != nil {
		e.observeFailure(err, "accept", requestID, driverID)
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(request.StatusAccepted), "driver").Inc()
	e.logger.Info("Driver accepted request",
		logger.Int64("request_id", requestID),
		logger.Int64("driver_id", driverID),
	)
	e.record(ctx, accepted, "accept")
	return accepted, nil
}

// Start moves a bound request to in_progress. Only the bound driver may
// start, and only from the assigned or accepted state.
func (e *Engine) Start(ctx context.Context, driverID, requestID int64) (*request.RideRequest, error) {
	var started *request.RideRequest

	err := e.store.WithinTx(ctx, func(tx store.Stores) error {
		req, err := tx.Requests().GetForUpdate(ctx, requestID)
		if err != nil {
			return mapRequestErr(err)
		}
		if !req.IsOwnedBy(driverID) {
			return errors.ErrNotOwner
		}
		if !req.CanStart() {
			return errors.ErrRequestNotActive
		}

		now := time.Now().UTC()
		applied, err := tx.Requests().UpdateIfStatus(ctx, requestID,
			request.Condition{Statuses: []request.Status{request.StatusAssigned, request.StatusAccepted}},
			request.FieldSet{
				Status:    request.StatusInProgress,
				StartedAt: &now,
			})
		if err != nil {
			return errors.Internal("Failed to start trip", err)
		}
		if !applied {
			return errors.ErrRequestNotActive
		}

		req.Status = request.StatusInProgress
		req.StartedAt = &now
		req.UpdatedAt = now
		started = req
		return nil
	})
	if err != nil {
		e.observeFailure(err, "start", requestID, driverID)
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(request.StatusInProgress), "driver").Inc()
	e.logger.Info("Trip started",
		logger.Int64("request_id", requestID),
		logger.Int64("driver_id", driverID),
	)
	e.record(ctx, started, "start")
	return started, nil
}

// Complete finishes a ride. Preconditions: caller is the bound driver
// (mismatch is an ownership failure, distinct from a state conflict) and
// the request is in an active state. The fare is finalized and the
// driver's availability restored in the same transaction. Calling twice
// yields success once and a conflict thereafter.
func (e *Engine) Complete(ctx context.Context, driverID, requestID int64, distanceKM float64, durationMinutes int) (*request.RideRequest, error) {
	if distanceKM < 0 || durationMinutes < 0 {
		return nil, errors.BadRequest("Distance and duration must be non-negative", nil)
	}

	var completed *request.RideRequest

	err := e.store.WithinTx(ctx, func(tx store.Stores) error {
		req, err := tx.Requests().GetForUpdate(ctx, requestID)
		if err != nil {
			return mapRequestErr(err)
		}
		if !req.IsOwnedBy(driverID) {
			return errors.ErrNotOwner
		}
		if req.Status == request.StatusCompleted {
			return errors.ErrAlreadyCompleted
		}
		if !req.CanComplete() {
			return errors.ErrRequestNotActive
		}

		fare := e.pricing.Fare(req.VehicleType, distanceKM, durationMinutes)
		now := time.Now().UTC()
		applied, err := tx.Requests().UpdateIfStatus(ctx, requestID,
			request.Condition{Statuses: request.ActiveStatuses()},
			request.FieldSet{
				Status:      request.StatusCompleted,
				FareAmount:  &fare,
				CompletedAt: &now,
			})
		if err != nil {
			return errors.Internal("Failed to complete ride request", err)
		}
		if !applied {
			return errors.ErrRequestNotActive
		}

		if err := tx.Drivers().SetAvailability(ctx, driverID, true); err != nil {
			return errors.Internal("Failed to restore driver availability", err)
		}

		req.Status = request.StatusCompleted
		req.FareAmount = &fare
		req.CompletedAt = &now
		req.UpdatedAt = now
		completed = req
		return nil
	})
	if err != nil {
		e.observeFailure(err, "complete", requestID, driverID)
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(request.StatusCompleted), "driver").Inc()
	e.logger.Info("Ride completed",
		logger.Int64("request_id", requestID),
		logger.Int64("driver_id", driverID),
		logger.Float64("fare", *completed.FareAmount),
	)
	e.record(ctx, completed, "complete")
	return completed, nil
}

// Cancel is the administrative override: any non-terminal request moves
// to cancelled. A bound driver is released and made available again in
// the same transaction.
func (e *Engine) Cancel(ctx context.Context, requestID int64, reason string) (*request.RideRequest, error) {
	var cancelled *request.RideRequest

	err := e.store.WithinTx(ctx, func(tx store.Stores) error {
		req, err := tx.Requests().GetForUpdate(ctx, requestID)
		if err != nil {
			return mapRequestErr(err)
		}
		if req.Status.IsTerminal() {
			return errors.Conflict("Ride request is already in a terminal state", nil)
		}

		boundDriver := req.DriverID
		now := time.Now().UTC()
		applied, err := tx.Requests().UpdateIfStatus(ctx, requestID,
			request.Condition{Statuses: []request.Status{
				request.StatusPending, request.StatusAssigned,
				request.StatusAccepted, request.StatusInProgress,
			}},
			request.FieldSet{
				Status:       request.StatusCancelled,
				ClearDriver:  true,
				CancelReason: reason,
				CancelledAt:  &now,
			})
		if err != nil {
			return errors.Internal("Failed to cancel ride request", err)
		}
		if !applied {
			return errors.Conflict("Ride request is already in a terminal state", nil)
		}

		if boundDriver != nil {
			if err := tx.Drivers().SetAvailability(ctx, *boundDriver, true); err != nil {
				return errors.Internal("Failed to restore driver availability", err)
			}
		}

		req.Status = request.StatusCancelled
		req.DriverID = nil
		req.CancelReason = reason
		req.CancelledAt = &now
		req.UpdatedAt = now
		cancelled = req
		return nil
	})
	if err != nil {
		e.observeFailure(err, "cancel", requestID, 0)
		return nil, err
	}

	metrics.Transitions.WithLabelValues(string(request.StatusCancelled), "admin").Inc()
	e.logger.Info("Ride request cancelled",
		logger.Int64("request_id", requestID),
		logger.String("reason", reason),
	)
	e.record(ctx, cancelled, "cancel")
	return cancelled, nil
}

// AvailableRequests lists pending, unbound requests matching the
// driver's vehicle category, oldest first. Purely a read: concurrent
// drivers may see the same candidate and race for it; Accept's
// conditional update resolves the race.
func (e *Engine) AvailableRequests(ctx context.Context, driverID int64) ([]*request.RideRequest, error) {
	d, err := e.store.Drivers().GetByID(ctx, driverID)
	if err != nil {
		return nil, mapDriverErr(err)
	}

	reqs, err := e.store.Requests().ListPendingUnbound(ctx, d.VehicleType)
	if err != nil {
		return nil, errors.Internal("Failed to list available requests", err)
	}
	return reqs, nil
}

// SetDriverOnline flips a driver's online flag and reports whether the
// flag actually changed, so callers adjust gauges only on real
// transitions. Going online restores availability unless the driver is
// still bound to an active request; going offline always clears it.
// Runs in a transaction so a concurrent assignment cannot interleave
// between the two flag writes.
func (e *Engine) SetDriverOnline(ctx context.Context, driverID int64, online bool) (bool, error) {
	var changed bool

	err := e.store.WithinTx(ctx, func(s store.Stores) error {
		d, err := s.Drivers().GetForUpdate(ctx, driverID)
		if err != nil {
			return mapDriverErr(err)
		}
		if d.IsOnline == online {
			// Repeated toggle in the same direction is a no-op.
			return nil
		}
		changed = true

		if err := s.Drivers().SetOnline(ctx, driverID, online); err != nil {
			return mapDriverErr(err)
		}

		available := false
		if online {
			rides, err := s.Requests().List(ctx, request.ListFilter{DriverID: driverID})
			if err != nil {
				return errors.Internal("Failed to check active rides", err)
			}
			available = true
			for _, r := range rides {
				if !r.Status.IsTerminal() {
					available = false
					break
				}
			}
		}
		return s.Drivers().SetAvailability(ctx, driverID, available)
	})
	return changed, err
}

func (e *Engine) record(ctx context.Context, r *request.RideRequest, flow string) {
	if e.recorder == nil || r == nil {
		return
	}
	e.recorder.RequestTransition(ctx, r, flow)
}

func (e *Engine) observeFailure(err error, op string, requestID, driverID int64) {
	if errors.IsConflict(err) {
		metrics.AssignmentConflicts.Inc()
		e.logger.Info("State transition rejected",
			logger.String("op", op),
			logger.Int64("request_id", requestID),
			logger.Int64("driver_id", driverID),
			logger.Err(err),
		)
		return
	}
	if appErr := errors.GetAppError(err); appErr.Status >= 500 {
		e.logger.Error("State transition failed",
			logger.String("op", op),
			logger.Int64("request_id", requestID),
			logger.Err(err),
		)
	}
}

func mapRequestErr(err error) error {
	if err == request.ErrRequestNotFound {
		return errors.ErrRequestNotFound
	}
	return errors.Internal("Failed to read ride request", err)
}

func mapDriverErr(err error) error {
	if err == driver.ErrDriverNotFound {
		return errors.ErrDriverNotFound
	}
	return errors.Internal("Failed to read driver", err)
}
