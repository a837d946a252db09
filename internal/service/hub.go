package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// PollerHub manages one poller per mounted viewer, keyed by viewer identity
// (kitchen queue, customer id, owner id). A poller starts on first access
// and its timer is cancelled when the viewer has been idle long enough to
// count as torn down.
type PollerHub struct {
	ctx     context.Context
	idleTTL time.Duration

	mu      sync.Mutex
	pollers map[string]*hubEntry
}

type hubEntry struct {
	once       sync.Once
	poller     *Poller
	lastAccess time.Time
}

func NewPollerHub(ctx context.Context, idleTTL time.Duration) *PollerHub {
	return &PollerHub{ctx: ctx, idleTTL: idleTTL, pollers: make(map[string]*hubEntry)}
}

// Get returns the viewer's poller, building and starting it on first use.
// The builder runs outside the hub lock (it may hit the network resolving
// the viewer's principal or shop), so a slow build stalls only its own key.
func (h *PollerHub) Get(key string, build func() *Poller) *Poller {
	h.mu.Lock()
	e, ok := h.pollers[key]
	if !ok {
		e = &hubEntry{}
		h.pollers[key] = e
	}
	e.lastAccess = time.Now()
	h.mu.Unlock()

	e.once.Do(func() {
		p := build()
		p.Start(h.ctx)
		h.mu.Lock()
		e.poller = p
		h.mu.Unlock()
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	return e.poller
}

// Sweep tears down pollers nobody has asked about within the idle TTL.
func (h *PollerHub) Sweep() {
	cutoff := time.Now().Add(-h.idleTTL)
	var stale []*Poller

	h.mu.Lock()
	for key, e := range h.pollers {
		if e.lastAccess.Before(cutoff) && e.poller != nil {
			log.Printf("viewer %s idle, stopping poller", key)
			stale = append(stale, e.poller)
			delete(h.pollers, key)
		}
	}
	h.mu.Unlock()

	for _, p := range stale {
		p.Stop()
	}
}

func (h *PollerHub) StopAll() {
	h.mu.Lock()
	entries := h.pollers
	h.pollers = make(map[string]*hubEntry)
	h.mu.Unlock()

	for _, e := range entries {
		if e.poller != nil {
			e.poller.Stop()
		}
	}
}
