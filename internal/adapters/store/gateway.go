// Package store defines the event store gateway and its implementations.
//
// The gateway offers whole-document semantics only: read one document, scan
// all, or replace one document conditionally on the version the caller read.
// There is no field-level update. All atomicity lives at the single-document
// level.
package store

import (
	"context"

	"github.com/avesta/hackboard/internal/domain/model"
)

// Gateway provides whole-document access to event aggregates.
type Gateway interface {
	// GetByID returns a copy of the document, or ErrNotFound.
	GetByID(ctx context.Context, eventID string) (*model.Event, error)

	// Create stores a new document at version 1.
	// Returns ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, ev *model.Event) (*model.Event, error)

	// Replace overwrites the whole document if and only if the stored
	// version equals ev.Version, then bumps the version. Returns
	// ErrVersionMismatch when someone else wrote since the caller's read,
	// ErrNotFound when the document is gone.
	Replace(ctx context.Context, ev *model.Event) (*model.Event, error)

	// Delete removes the document. Returns ErrNotFound if absent.
	Delete(ctx context.Context, eventID string) error

	// ScanAll returns copies of every stored document. Unbounded; there is
	// no pagination contract.
	ScanAll(ctx context.Context) ([]*model.Event, error)

	// Close releases underlying resources.
	Close() error
}
