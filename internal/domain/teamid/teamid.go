// Package teamid issues team identifiers that never repeat within a process.
//
// Team IDs are opaque, never user-supplied, and must not collide with any
// existing team across any event. UUIDs make collisions astronomically
// unlikely; the issued-set check turns unlikely into impossible for the ids
// this process has observed.
package teamid

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator issues unique team IDs and tracks every id it has seen.
type Generator struct {
	mu     sync.Mutex
	issued map[string]struct{}
	size   atomic.Int64
}

// NewGenerator creates an empty generator.
func NewGenerator() *Generator {
	return &Generator{issued: make(map[string]struct{})}
}

// Record marks an existing id as taken. Used to preload ids found in the
// store at startup so freshly generated ids cannot collide with them.
func (g *Generator) Record(id string) {
	if id == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.issued[id]; ok {
		return
	}
	g.issued[id] = struct{}{}
	g.size.Add(1)
}

// Next returns a fresh id not seen before by this generator.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		id := uuid.NewString()
		if _, taken := g.issued[id]; taken {
			continue
		}
		g.issued[id] = struct{}{}
		g.size.Add(1)
		return id
	}
}

// Size returns the number of ids tracked.
func (g *Generator) Size() int64 {
	return g.size.Load()
}
