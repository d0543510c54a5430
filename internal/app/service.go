// Package app provides the event orchestrator: the single component allowed
// to write event documents.
//
// Every mutating operation runs one read, validate, merge, conditional
// replace cycle against the store gateway. A replace carrying a stale
// version fails with ErrStateConflict and is never retried here; the caller
// re-reads and resubmits. Each specialized mutator changes exactly one
// embedded collection per call.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avesta/hackboard/internal/adapters/deposit"
	"github.com/avesta/hackboard/internal/adapters/identity"
	"github.com/avesta/hackboard/internal/adapters/notify"
	"github.com/avesta/hackboard/internal/adapters/store"
	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/internal/domain/teamid"
	"github.com/avesta/hackboard/pkg/logger"
	"github.com/avesta/hackboard/pkg/metrics"
)

// Service orchestrates the event aggregate life cycle.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	gateway    store.Gateway
	ids        *teamid.Generator
	dispatcher *notify.Dispatcher
	identities identity.Lookup
	deposits   deposit.Deposit

	// State
	started bool

	// Clock, swappable in tests.
	now func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGateway sets the event store gateway.
func WithGateway(g store.Gateway) Option {
	return func(s *Service) {
		if g != nil {
			s.gateway = g
		}
	}
}

// WithDispatcher sets the notification dispatcher.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithIdentityLookup sets the student identity collaborator.
func WithIdentityLookup(l identity.Lookup) Option {
	return func(s *Service) {
		if l != nil {
			s.identities = l
		}
	}
}

// WithDeposit sets the file deposit collaborator.
func WithDeposit(d deposit.Deposit) Option {
	return func(s *Service) {
		if d != nil {
			s.deposits = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		ids: teamid.NewGenerator(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes collaborators and preloads issued team ids from the
// store so freshly generated ids can never collide with stored ones.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.gateway == nil {
		s.gateway = store.NewMemoryGateway()
		s.logger.Info(ctx, "using in-memory event store")
	}

	events, err := s.gateway.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("seed team ids: %w", translateStoreErr(err))
	}
	for _, ev := range events {
		for _, t := range ev.Teams {
			s.ids.Record(t.TeamID)
		}
	}
	metrics.UpdateTotalEvents(len(events))

	if s.dispatcher != nil {
		s.dispatcher.Start(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "orchestrator started",
		logger.Int("events", len(events)),
		logger.Int64("knownTeamIDs", s.ids.Size()),
	)
	return nil
}

// Stop shuts down the notification side-channel and the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.dispatcher != nil {
		s.dispatcher.Stop()
	}
	if s.gateway != nil {
		_ = s.gateway.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "orchestrator stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"knownTeamIDs": s.ids.Size(),
	}
	if !s.started {
		return stats
	}

	events, err := s.gateway.ScanAll(context.Background())
	if err != nil {
		stats["storeError"] = err.Error()
		return stats
	}

	var teams, judges, scores int
	for _, ev := range events {
		teams += len(ev.Teams)
		judges += len(ev.Judges)
		scores += len(ev.Scores)
	}
	stats["totalEvents"] = len(events)
	stats["totalTeams"] = teams
	stats["totalJudges"] = judges
	stats["totalScores"] = scores
	metrics.UpdateTotalEvents(len(events))

	return stats
}

// loadEvent reads one document, translating store errors.
func (s *Service) loadEvent(ctx context.Context, eventID string) (*model.Event, error) {
	ev, err := s.gateway.GetByID(ctx, eventID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return ev, nil
}

// replace performs the conditional whole-document write, stamping UpdatedAt.
func (s *Service) replace(ctx context.Context, ev *model.Event) (*model.Event, error) {
	ev.UpdatedAt = s.now()
	out, err := s.gateway.Replace(ctx, ev)
	if err != nil {
		if errors.Is(err, store.ErrVersionMismatch) {
			metrics.RecordVersionConflict()
			s.logger.Warn(ctx, "conditional replace lost the race",
				logger.String("eventID", ev.EventID),
				logger.Int64("readVersion", ev.Version),
			)
		}
		return nil, translateStoreErr(err)
	}
	return out, nil
}

// translateStoreErr maps gateway sentinels onto the orchestrator taxonomy.
// Not-found and already-exists pass through; callers match them directly.
func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrVersionMismatch):
		return fmt.Errorf("%w: %v", ErrStateConflict, err)
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	default:
		return err
	}
}
