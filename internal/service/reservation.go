package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"pos-order-core/internal/domain"
)

// PaymentWindow bounds how long a QR checkout may sit unpaid.
const PaymentWindow = 300 * time.Second

var ErrReservationNotFound = errors.New("reservation not found")

// ReservationGetter is the read side only the registry needs beyond the
// ReservationStore port.
type ReservationGetter interface {
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
}

// ReservationFinder maps an order id back to its reservation, open or
// resolved. Reconciliation uses it to recover a stuck order's intended
// outcome.
type ReservationFinder interface {
	FindReservationByOrder(ctx context.Context, orderID int) (*domain.Reservation, error)
}

// ReservationRegistry owns every open payment reservation in the process.
// The countdown and its expiry side effect live here, keyed by the deadline
// persisted in the store, so expiry fires even when no viewer is mounted
// and survives a restart via Recover.
type ReservationRegistry struct {
	orders OrderStore
	store  ReservationStore
	getter ReservationGetter
	finder ReservationFinder
	events EventPublisher

	window     time.Duration
	maxRetries int
	retryWait  time.Duration
	now        func() time.Time

	mu     sync.Mutex
	active map[string]*activeReservation
}

type activeReservation struct {
	res   domain.Reservation
	timer *time.Timer
}

func NewReservationRegistry(orders OrderStore, store ReservationStore, events EventPublisher) *ReservationRegistry {
	r := &ReservationRegistry{
		orders:     orders,
		store:      store,
		events:     events,
		window:     PaymentWindow,
		maxRetries: 3,
		retryWait:  time.Second,
		now:        time.Now,
		active:     make(map[string]*activeReservation),
	}
	if g, ok := store.(ReservationGetter); ok {
		r.getter = g
	}
	if f, ok := store.(ReservationFinder); ok {
		r.finder = f
	}
	return r
}

// Open starts the countdown for one checkout's orders.
func (r *ReservationRegistry) Open(ctx context.Context, orderIDs []int) (domain.Reservation, error) {
	now := r.now()
	res := domain.Reservation{
		ID:        uuid.NewString(),
		OrderIDs:  append([]int(nil), orderIDs...),
		CreatedAt: now,
		Deadline:  now.Add(r.window),
		State:     domain.ReservationOpen,
	}
	if err := r.store.SaveReservation(ctx, res); err != nil {
		return domain.Reservation{}, err
	}

	r.mu.Lock()
	r.active[res.ID] = &activeReservation{
		res:   res,
		timer: time.AfterFunc(r.window, func() { r.expire(res.ID) }),
	}
	r.mu.Unlock()
	return res, nil
}

// Get reports current reservation state, falling back to the store for
// already-resolved reservations.
func (r *ReservationRegistry) Get(ctx context.Context, id string) (domain.Reservation, error) {
	r.mu.Lock()
	if a, ok := r.active[id]; ok {
		res := a.res
		r.mu.Unlock()
		return res, nil
	}
	r.mu.Unlock()

	if r.getter == nil {
		return domain.Reservation{}, ErrReservationNotFound
	}
	stored, err := r.getter.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, ErrReservationNotFound
	}
	return *stored, nil
}

// Remaining reports whole seconds until expiry, zero once resolved or overdue.
func (r *ReservationRegistry) Remaining(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.active[id]
	if !ok {
		return 0
	}
	secs := int(math.Ceil(a.res.Deadline.Sub(r.now()).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

// take removes the reservation from the active set and stamps its terminal
// state. Exactly one caller wins; everyone else sees ok=false and no-ops.
func (r *ReservationRegistry) take(id string, state domain.ReservationState) (domain.Reservation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.active[id]
	if !ok {
		return domain.Reservation{}, false
	}
	a.timer.Stop()
	delete(r.active, id)
	a.res.State = state
	return a.res, true
}

// Confirm releases the reservation: every wrapped order moves to pending.
// Idempotent; confirming after any resolution reports the stored outcome.
func (r *ReservationRegistry) Confirm(ctx context.Context, id string) (domain.Reservation, error) {
	res, won := r.take(id, domain.ReservationConfirmed)
	if !won {
		return r.resolveFromStore(ctx, id, domain.ReservationConfirmed, domain.StatusPending)
	}
	r.resolve(ctx, res, domain.StatusPending)
	return res, nil
}

// Cancel is customer-triggered and shares the expiry path.
func (r *ReservationRegistry) Cancel(ctx context.Context, id string) (domain.Reservation, error) {
	res, won := r.take(id, domain.ReservationCancelled)
	if !won {
		return r.resolveFromStore(ctx, id, domain.ReservationCancelled, domain.StatusCancelled)
	}
	r.resolve(ctx, res, domain.StatusCancelled)
	return res, nil
}

// resolveFromStore handles a reservation the active map does not know about.
// Already-resolved reservations report their stored outcome; a reservation
// still open in the store (persisted by a previous process, not yet
// recovered) is resolved here so the caller's request actually lands.
func (r *ReservationRegistry) resolveFromStore(ctx context.Context, id string, state domain.ReservationState, target domain.Status) (domain.Reservation, error) {
	stored, err := r.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if stored.State.Resolved() {
		return stored, nil
	}
	stored.State = state
	r.resolve(ctx, stored, target)
	return stored, nil
}

// expire fires from the reservation's own timer, independent of any viewer.
func (r *ReservationRegistry) expire(id string) {
	res, won := r.take(id, domain.ReservationExpired)
	if !won {
		return
	}
	log.Printf("reservation %s expired, cancelling %d orders", id, len(res.OrderIDs))
	r.resolve(context.Background(), res, domain.StatusCancelled)
}

// ConfirmByOrder resolves the open reservation wrapping orderID as confirmed,
// for when the payment-confirmed transition arrives outside the QR flow.
func (r *ReservationRegistry) ConfirmByOrder(ctx context.Context, orderID int) {
	if id, ok := r.findByOrder(orderID); ok {
		_, _ = r.Confirm(ctx, id)
	}
}

// CancelByOrder closes the open reservation wrapping orderID when that order
// was cancelled through another path.
func (r *ReservationRegistry) CancelByOrder(ctx context.Context, orderID int) {
	if id, ok := r.findByOrder(orderID); ok {
		_, _ = r.Cancel(ctx, id)
	}
}

func (r *ReservationRegistry) findByOrder(orderID int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.active {
		for _, oid := range a.res.OrderIDs {
			if oid == orderID {
				return id, true
			}
		}
	}
	return "", false
}

// resolve applies the per-order status updates and persists the outcome.
// A failed order update is retried on its own so one bad call does not
// abandon the rest of the batch; orders that still fail are left for the
// reconciliation sweep.
func (r *ReservationRegistry) resolve(ctx context.Context, res domain.Reservation, target domain.Status) {
	for _, oid := range res.OrderIDs {
		r.updateWithRetry(ctx, oid, target)
	}
	if err := r.store.SaveReservation(ctx, res); err != nil {
		log.Printf("failed to persist reservation %s outcome %s: %v", res.ID, res.State, err)
	}
}

func (r *ReservationRegistry) updateWithRetry(ctx context.Context, orderID int, target domain.Status) {
	var err error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		var updated domain.Order
		updated, err = r.orders.UpdateOrderStatus(ctx, orderID, target)
		if err == nil {
			r.publishStatusChanged(ctx, updated)
			return
		}
		log.Printf("order %d -> %s attempt %d/%d failed: %v", orderID, target, attempt, r.maxRetries, err)
		if attempt < r.maxRetries {
			time.Sleep(r.retryWait)
		}
	}
	log.Printf("order %d -> %s gave up, left for reconciliation", orderID, target)
}

func (r *ReservationRegistry) publishStatusChanged(ctx context.Context, o domain.Order) {
	if r.events == nil {
		return
	}
	_ = r.events.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:         domain.EventStatusChanged,
		OrderID:      o.ID,
		Status:       o.Status,
		RestaurantID: o.RestaurantID,
		CustomerID:   o.CustomerID,
		Total:        o.TotalPrice,
		Timestamp:    r.now(),
	})
}

// Recover reloads open reservations after a restart. Overdue ones expire
// immediately; the rest get timers for their remaining window.
func (r *ReservationRegistry) Recover(ctx context.Context) error {
	open, err := r.store.ListOpenReservations(ctx)
	if err != nil {
		return err
	}
	now := r.now()
	for _, res := range open {
		id := res.ID
		remaining := res.Deadline.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		r.mu.Lock()
		r.active[id] = &activeReservation{res: res, timer: time.AfterFunc(remaining, func() { r.expire(id) })}
		r.mu.Unlock()
	}
	if len(open) > 0 {
		log.Printf("recovered %d open reservations", len(open))
	}
	return nil
}

// Reconcile repairs orders stuck in awaiting_payment past the payment window
// with no open reservation wrapping them. A stuck order whose reservation
// resolved as confirmed is re-driven toward pending (its batch was paid for;
// only its own update exhausted retries); everything else is cancelled.
// Scheduled periodically.
func (r *ReservationRegistry) Reconcile(ctx context.Context) error {
	orders, err := r.orders.ListOrders(ctx)
	if err != nil {
		return err
	}

	covered := make(map[int]bool)
	r.mu.Lock()
	for _, a := range r.active {
		for _, oid := range a.res.OrderIDs {
			covered[oid] = true
		}
	}
	r.mu.Unlock()

	cutoff := r.now().Add(-r.window)
	for _, o := range orders {
		if o.Status != domain.StatusAwaitingPayment || covered[o.ID] || o.OrderDate.After(cutoff) {
			continue
		}
		target := domain.StatusCancelled
		if r.finder != nil {
			if res, err := r.finder.FindReservationByOrder(ctx, o.ID); err == nil && res.State == domain.ReservationConfirmed {
				target = domain.StatusPending
			}
		}
		log.Printf("reconcile: order %d stuck in awaiting_payment, driving to %s", o.ID, target)
		r.updateWithRetry(ctx, o.ID, target)
	}
	return nil
}
