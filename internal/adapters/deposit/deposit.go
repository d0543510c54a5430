// Package deposit stores uploaded submission documents durably and hands
// back retrieval URLs. Durable file storage is an external collaborator;
// the disk implementation here is the default local backend.
package deposit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Deposit uploads an arbitrary document and returns a retrieval URL.
type Deposit interface {
	// Upload stores payload and returns its URL. Fails with ErrUnavailable
	// when the backing storage cannot take the write.
	Upload(ctx context.Context, payload []byte, filename, mimeType string) (string, error)
}

// DiskDeposit implements Deposit on the local filesystem. Files land under
// dir and are served back under baseURL.
type DiskDeposit struct {
	dir     string
	baseURL string
}

// Option applies a configuration option to the DiskDeposit.
type Option func(*DiskDeposit)

// WithBaseURL sets the public path prefix for returned URLs.
func WithBaseURL(baseURL string) Option {
	return func(d *DiskDeposit) {
		if baseURL != "" {
			d.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewDiskDeposit creates a disk-backed deposit rooted at dir.
func NewDiskDeposit(dir string, opts ...Option) (*DiskDeposit, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: deposit dir is required", ErrUnavailable)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create deposit dir: %v", ErrUnavailable, err)
	}

	d := &DiskDeposit{
		dir:     dir,
		baseURL: "/files",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dir returns the storage root, for wiring a file server.
func (d *DiskDeposit) Dir() string {
	return d.dir
}

// Upload stores payload under a collision-free name and returns its URL.
func (d *DiskDeposit) Upload(ctx context.Context, payload []byte, filename, mimeType string) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrUnavailable)
	}

	// Keep only the base name; the caller's path segments are untrusted.
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	stored := uuid.NewString() + "_" + name

	if err := os.WriteFile(filepath.Join(d.dir, stored), payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: write file: %v", ErrUnavailable, err)
	}
	return d.baseURL + "/" + stored, nil
}
