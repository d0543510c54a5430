// Package identity resolves a student's registered contact address.
//
// Identity management is an external collaborator; this package holds only
// the contract plus a static in-memory implementation used for roster checks
// in tests and demos.
package identity

import (
	"context"
	"sync"
)

// Lookup resolves student identifiers to registered email addresses.
type Lookup interface {
	// EmailForStudent returns the registered address, or ErrNotFound.
	EmailForStudent(ctx context.Context, studentID string) (string, error)
}

// StaticLookup implements Lookup over a fixed map.
type StaticLookup struct {
	mu     sync.RWMutex
	emails map[string]string
}

// Option applies a configuration option to the StaticLookup.
type Option func(*StaticLookup)

// WithEmails seeds the lookup table.
func WithEmails(emails map[string]string) Option {
	return func(l *StaticLookup) {
		for id, email := range emails {
			l.emails[id] = email
		}
	}
}

// NewStaticLookup creates a lookup with the given options.
func NewStaticLookup(opts ...Option) *StaticLookup {
	l := &StaticLookup{emails: make(map[string]string)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// EmailForStudent returns the registered address, or ErrNotFound.
func (l *StaticLookup) EmailForStudent(ctx context.Context, studentID string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	email, ok := l.emails[studentID]
	if !ok {
		return "", ErrNotFound
	}
	return email, nil
}

// Put adds or replaces a student record.
func (l *StaticLookup) Put(studentID, email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emails[studentID] = email
}
