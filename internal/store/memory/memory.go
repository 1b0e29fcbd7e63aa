// Package memory implements store.TxRunner with mutex-guarded maps.
// WithinTx holds the store lock for the whole callback, which gives the
// same atomicity the postgres implementation gets from transactions and
// row locks. Used by the assignment engine's tests, including the
// concurrent-race scenarios.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/passenger"
	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/internal/store"
)

// Store holds all entities in process memory.
type Store struct {
	mu sync.Mutex

	requests   map[int64]*request.RideRequest
	drivers    map[int64]*driver.Driver
	passengers map[int64]*passenger.Passenger

	nextRequestID   int64
	nextDriverID    int64
	nextPassengerID int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		requests:   make(map[int64]*request.RideRequest),
		drivers:    make(map[int64]*driver.Driver),
		passengers: make(map[int64]*passenger.Passenger),
	}
}

func (s *Store) Requests() request.Repository     { return &requestRepo{s: s, locking: true} }
func (s *Store) Drivers() driver.Repository       { return &driverRepo{s: s, locking: true} }
func (s *Store) Passengers() passenger.Repository { return &passengerRepo{s: s, locking: true} }

// WithinTx holds the store lock across fn: the callback observes and
// mutates a consistent snapshot, and concurrent callers serialize. On
// error every mutation fn made is rolled back, matching the postgres
// transaction semantics.
func (s *Store) WithinTx(ctx context.Context, fn func(store.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&txStores{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	requests   map[int64]*request.RideRequest
	drivers    map[int64]*driver.Driver
	passengers map[int64]*passenger.Passenger

	nextRequestID   int64
	nextDriverID    int64
	nextPassengerID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		requests:        make(map[int64]*request.RideRequest, len(s.requests)),
		drivers:         make(map[int64]*driver.Driver, len(s.drivers)),
		passengers:      make(map[int64]*passenger.Passenger, len(s.passengers)),
		nextRequestID:   s.nextRequestID,
		nextDriverID:    s.nextDriverID,
		nextPassengerID: s.nextPassengerID,
	}
	for id, r := range s.requests {
		snap.requests[id] = cloneRequest(r)
	}
	for id, d := range s.drivers {
		snap.drivers[id] = cloneDriver(d)
	}
	for id, p := range s.passengers {
		c := *p
		snap.passengers[id] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.requests = snap.requests
	s.drivers = snap.drivers
	s.passengers = snap.passengers
	s.nextRequestID = snap.nextRequestID
	s.nextDriverID = snap.nextDriverID
	s.nextPassengerID = snap.nextPassengerID
}

type txStores struct {
	s *Store
}

func (t *txStores) Requests() request.Repository     { return &requestRepo{s: t.s} }
func (t *txStores) Drivers() driver.Repository       { return &driverRepo{s: t.s} }
func (t *txStores) Passengers() passenger.Repository { return &passengerRepo{s: t.s} }

func (s *Store) lockIf(locking bool) func() {
	if !locking {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func cloneRequest(r *request.RideRequest) *request.RideRequest {
	c := *r
	if r.DriverID != nil {
		v := *r.DriverID
		c.DriverID = &v
	}
	if r.FareAmount != nil {
		v := *r.FareAmount
		c.FareAmount = &v
	}
	clonets := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		v := *t
		return &v
	}
	c.AssignedAt = clonets(r.AssignedAt)
	c.AcceptedAt = clonets(r.AcceptedAt)
	c.StartedAt = clonets(r.StartedAt)
	c.CompletedAt = clonets(r.CompletedAt)
	c.CancelledAt = clonets(r.CancelledAt)
	return &c
}

func cloneDriver(d *driver.Driver) *driver.Driver {
	c := *d
	if d.Latitude != nil {
		v := *d.Latitude
		c.Latitude = &v
	}
	if d.Longitude != nil {
		v := *d.Longitude
		c.Longitude = &v
	}
	if d.LocatedAt != nil {
		v := *d.LocatedAt
		c.LocatedAt = &v
	}
	return &c
}

// requestRepo

type requestRepo struct {
	s       *Store
	locking bool
}

func (r *requestRepo) Insert(ctx context.Context, req *request.RideRequest) error {
	defer r.s.lockIf(r.locking)()
	r.s.nextRequestID++
	req.ID = r.s.nextRequestID
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = request.StatusPending
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *requestRepo) GetByID(ctx context.Context, id int64) (*request.RideRequest, error) {
	defer r.s.lockIf(r.locking)()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, request.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (r *requestRepo) GetForUpdate(ctx context.Context, id int64) (*request.RideRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *requestRepo) UpdateIfStatus(ctx context.Context, id int64, cond request.Condition, set request.FieldSet) (bool, error) {
	defer r.s.lockIf(r.locking)()
	req, ok := r.s.requests[id]
	if !ok {
		return false, nil
	}

	matched := false
	for _, st := range cond.Statuses {
		if req.Status == st {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	if cond.UnboundOnly && req.DriverID != nil {
		return false, nil
	}
	if cond.VehicleType != "" && req.VehicleType != cond.VehicleType {
		return false, nil
	}

	req.Status = set.Status
	req.UpdatedAt = time.Now().UTC()
	if set.BindDriver != nil {
		v := *set.BindDriver
		req.DriverID = &v
	} else if set.ClearDriver {
		req.DriverID = nil
	}
	if set.FareAmount != nil {
		v := *set.FareAmount
		req.FareAmount = &v
	}
	if set.CancelReason != "" {
		req.CancelReason = set.CancelReason
	}
	if set.AssignedAt != nil {
		v := *set.AssignedAt
		req.AssignedAt = &v
	}
	if set.AcceptedAt != nil {
		v := *set.AcceptedAt
		req.AcceptedAt = &v
	}
	if set.StartedAt != nil {
		v := *set.StartedAt
		req.StartedAt = &v
	}
	if set.CompletedAt != nil {
		v := *set.CompletedAt
		req.CompletedAt = &v
	}
	if set.CancelledAt != nil {
		v := *set.CancelledAt
		req.CancelledAt = &v
	}
	return true, nil
}

func (r *requestRepo) ListPendingUnbound(ctx context.Context, vehicleType request.VehicleType) ([]*request.RideRequest, error) {
	defer r.s.lockIf(r.locking)()
	var out []*request.RideRequest
	for _, req := range r.s.requests {
		if req.Status == request.StatusPending && req.DriverID == nil && req.VehicleType == vehicleType {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *requestRepo) List(ctx context.Context, f request.ListFilter) ([]*request.RideRequest, error) {
	defer r.s.lockIf(r.locking)()
	var out []*request.RideRequest
	for _, req := range r.s.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.PassengerID != 0 && req.PassengerID != f.PassengerID {
			continue
		}
		if f.DriverID != 0 && (req.DriverID == nil || *req.DriverID != f.DriverID) {
			continue
		}
		if !f.From.IsZero() && req.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !req.CreatedAt.Before(f.To) {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *requestRepo) ListByPassenger(ctx context.Context, passengerID int64) ([]*request.RideRequest, error) {
	return r.List(ctx, request.ListFilter{PassengerID: passengerID})
}

// driverRepo

type driverRepo struct {
	s       *Store
	locking bool
}

func (r *driverRepo) Insert(ctx context.Context, d *driver.Driver) error {
	defer r.s.lockIf(r.locking)()
	for _, existing := range r.s.drivers {
		if existing.Email == d.Email {
			return driver.ErrDuplicateEmail
		}
	}
	r.s.nextDriverID++
	d.ID = r.s.nextDriverID
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.s.drivers[d.ID] = cloneDriver(d)
	return nil
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	defer r.s.lockIf(r.locking)()
	d, ok := r.s.drivers[id]
	if !ok {
		return nil, driver.ErrDriverNotFound
	}
	return cloneDriver(d), nil
}

func (r *driverRepo) GetByEmail(ctx context.Context, email string) (*driver.Driver, error) {
	defer r.s.lockIf(r.locking)()
	for _, d := range r.s.drivers {
		if d.Email == email {
			return cloneDriver(d), nil
		}
	}
	return nil, driver.ErrDriverNotFound
}

func (r *driverRepo) GetForUpdate(ctx context.Context, id int64) (*driver.Driver, error) {
	return r.GetByID(ctx, id)
}

func (r *driverRepo) SetAvailability(ctx context.Context, id int64, available bool) error {
	defer r.s.lockIf(r.locking)()
	d, ok := r.s.drivers[id]
	if !ok {
		return driver.ErrDriverNotFound
	}
	d.Available = available
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *driverRepo) SetOnline(ctx context.Context, id int64, online bool) error {
	defer r.s.lockIf(r.locking)()
	d, ok := r.s.drivers[id]
	if !ok {
		return driver.ErrDriverNotFound
	}
	d.IsOnline = online
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *driverRepo) UpdateLocation(ctx context.Context, id int64, lat, lng float64, at time.Time) error {
	defer r.s.lockIf(r.locking)()
	d, ok := r.s.drivers[id]
	if !ok {
		return driver.ErrDriverNotFound
	}
	d.SetLocation(lat, lng, at)
	return nil
}

func (r *driverRepo) List(ctx context.Context, f driver.ListFilter) ([]*driver.Driver, error) {
	defer r.s.lockIf(r.locking)()
	var out []*driver.Driver
	for _, d := range r.s.drivers {
		if f.OnlineOnly && !d.IsOnline {
			continue
		}
		if f.AvailableOnly && !d.Available {
			continue
		}
		if f.VehicleType != "" && d.VehicleType != f.VehicleType {
			continue
		}
		out = append(out, cloneDriver(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// passengerRepo

type passengerRepo struct {
	s       *Store
	locking bool
}

func (r *passengerRepo) Insert(ctx context.Context, p *passenger.Passenger) error {
	defer r.s.lockIf(r.locking)()
	for _, existing := range r.s.passengers {
		if existing.Email == p.Email {
			return passenger.ErrDuplicateEmail
		}
	}
	r.s.nextPassengerID++
	p.ID = r.s.nextPassengerID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	c := *p
	r.s.passengers[p.ID] = &c
	return nil
}

func (r *passengerRepo) GetByID(ctx context.Context, id int64) (*passenger.Passenger, error) {
	defer r.s.lockIf(r.locking)()
	p, ok := r.s.passengers[id]
	if !ok {
		return nil, passenger.ErrPassengerNotFound
	}
	c := *p
	return &c, nil
}

func (r *passengerRepo) GetByEmail(ctx context.Context, email string) (*passenger.Passenger, error) {
	defer r.s.lockIf(r.locking)()
	for _, p := range r.s.passengers {
		if p.Email == email {
			c := *p
			return &c, nil
		}
	}
	return nil, passenger.ErrPassengerNotFound
}
