package app

import "errors"

// Sentinel kinds for orchestrator errors. Validation and not-found
// conditions reuse the model and store sentinels; these cover the outcomes
// the orchestrator itself introduces.
var (
	// ErrNotFound marks a missing embedded record (team or judge). Missing
	// events surface as store.ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrStateConflict marks a write that lost the optimistic-concurrency
	// race. The caller must re-read the document and resubmit.
	ErrStateConflict = errors.New("event was modified concurrently")

	// ErrUpstream marks a collaborator failure (store or file deposit).
	ErrUpstream = errors.New("upstream collaborator unavailable")
)
