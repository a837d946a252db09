package service

import (
	"context"
	"log"
	"sync"
	"time"

	"pos-order-core/internal/domain"
)

// DefaultPollInterval is how often each viewer re-fetches the full order
// collection. Staleness per viewer is bounded by this plus network latency.
const DefaultPollInterval = 5 * time.Second

type ViewResult struct {
	Payload     any
	ActiveCount int
}

// A ViewFunc is the viewer-specific pure filter/sort/group step applied to
// the freshly fetched collection each cycle.
type ViewFunc func(orders []domain.Order, now time.Time) ViewResult

type Snapshot struct {
	Payload     any       `json:"payload"`
	ActiveCount int       `json:"active_count"`
	FetchedAt   time.Time `json:"fetched_at"`
	Stale       bool      `json:"stale"`
}

// Poller gives one viewer a self-correcting view of order state without a
// push channel: fetch on start, then every interval. A failed fetch keeps
// the previous snapshot (stale-but-present beats blank) and retries next
// tick.
type Poller struct {
	name     string
	store    OrderStore
	view     ViewFunc
	interval time.Duration
	alerter  Alerter

	fetchMu sync.Mutex // guards against overlapping fetches

	mu        sync.Mutex
	snap      Snapshot
	hasData   bool
	prevCount int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(name string, store OrderStore, view ViewFunc, alerter Alerter) *Poller {
	return &Poller{
		name:     name,
		store:    store,
		view:     view,
		interval: DefaultPollInterval,
		alerter:  alerter,
		done:     make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if !p.fetchMu.TryLock() {
		// previous fetch still in flight; skip rather than stack requests
		return
	}
	defer p.fetchMu.Unlock()

	orders, err := p.store.ListOrders(ctx)
	if err != nil {
		log.Printf("poller %s: fetch failed, keeping last snapshot: %v", p.name, err)
		p.mu.Lock()
		if p.hasData {
			p.snap.Stale = true
		}
		p.mu.Unlock()
		return
	}

	now := time.Now()
	result := p.view(orders, now)

	p.mu.Lock()
	arrived := result.ActiveCount - p.prevCount
	fire := p.hasData && arrived > 0
	p.prevCount = result.ActiveCount
	p.snap = Snapshot{Payload: result.Payload, ActiveCount: result.ActiveCount, FetchedAt: now}
	p.hasData = true
	p.mu.Unlock()

	// One alert per cycle regardless of how many orders arrived in it.
	if fire && p.alerter != nil {
		p.alerter.Alert(p.name, arrived)
	}
}

// Refresh forces an immediate cycle, used on first mount so a viewer never
// waits a full interval for data.
func (p *Poller) Refresh(ctx context.Context) {
	p.tick(ctx)
}

// Stop cancels the recurring timer. Called on viewer teardown only.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

func (p *Poller) Snapshot() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap, p.hasData
}

// EventAlerter logs the kitchen-bell moment and mirrors it onto the event
// stream for downstream displays.
type EventAlerter struct {
	Events EventPublisher
}

func (a EventAlerter) Alert(viewer string, arrived int) {
	log.Printf("viewer %s: %d new orders arrived", viewer, arrived)
	if a.Events == nil {
		return
	}
	_ = a.Events.PublishOrderEvent(context.Background(), domain.OrderEvent{
		Type:      domain.EventOrdersArrived,
		Viewer:    viewer,
		Arrived:   arrived,
		Timestamp: time.Now(),
	})
}
