package store

import "github.com/avesta/hackboard/internal/domain/model"

// MemoryOption applies a configuration option to the MemoryGateway.
type MemoryOption func(*MemoryGateway)

// WithEvents preloads documents into the gateway. Versions are kept when
// positive, otherwise set to 1. Intended for tests and demos.
func WithEvents(events ...*model.Event) MemoryOption {
	return func(g *MemoryGateway) {
		for _, ev := range events {
			if ev == nil || ev.EventID == "" {
				continue
			}
			stored := ev.Clone()
			if stored.Version <= 0 {
				stored.Version = 1
			}
			g.events[stored.EventID] = stored
		}
	}
}
