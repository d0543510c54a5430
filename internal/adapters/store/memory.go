package store

import (
	"context"
	"sync"
	"time"

	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/pkg/metrics"
)

// MemoryGateway implements Gateway with a mutex-guarded map. Documents are
// deep-copied on the way in and out so callers never alias stored state.
type MemoryGateway struct {
	mu     sync.RWMutex
	events map[string]*model.Event
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway(opts ...MemoryOption) *MemoryGateway {
	g := &MemoryGateway{
		events: make(map[string]*model.Event),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetByID returns a copy of the document, or ErrNotFound.
func (g *MemoryGateway) GetByID(ctx context.Context, eventID string) (*model.Event, error) {
	defer observe("get")()

	g.mu.RLock()
	defer g.mu.RUnlock()

	ev, ok := g.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return ev.Clone(), nil
}

// Create stores a new document at version 1.
func (g *MemoryGateway) Create(ctx context.Context, ev *model.Event) (*model.Event, error) {
	defer observe("create")()

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.events[ev.EventID]; taken {
		return nil, ErrAlreadyExists
	}
	stored := ev.Clone()
	stored.Version = 1
	g.events[ev.EventID] = stored
	return stored.Clone(), nil
}

// Replace overwrites the document when the stored version matches.
func (g *MemoryGateway) Replace(ctx context.Context, ev *model.Event) (*model.Event, error) {
	defer observe("replace")()

	g.mu.Lock()
	defer g.mu.Unlock()

	current, ok := g.events[ev.EventID]
	if !ok {
		return nil, ErrNotFound
	}
	if current.Version != ev.Version {
		return nil, ErrVersionMismatch
	}
	stored := ev.Clone()
	stored.Version = ev.Version + 1
	g.events[ev.EventID] = stored
	return stored.Clone(), nil
}

// Delete removes the document.
func (g *MemoryGateway) Delete(ctx context.Context, eventID string) error {
	defer observe("delete")()

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.events[eventID]; !ok {
		return ErrNotFound
	}
	delete(g.events, eventID)
	return nil
}

// ScanAll returns copies of every stored document.
func (g *MemoryGateway) ScanAll(ctx context.Context) ([]*model.Event, error) {
	defer observe("scan")()

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*model.Event, 0, len(g.events))
	for _, ev := range g.events {
		out = append(out, ev.Clone())
	}
	return out, nil
}

// Close is a no-op for the in-memory gateway.
func (g *MemoryGateway) Close() error {
	return nil
}

// observe times a gateway operation for the store latency histogram.
func observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreOp(op, float64(time.Since(start).Microseconds())/1000.0)
	}
}
