// Package blob abstracts the object store holding uploaded files: contract
// template PDFs, firm logos, and client document scans. The service only ever
// needs the narrow operations below, so swapping the filesystem driver for a
// hosted bucket is a single-package change.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound reports a missing object key.
var ErrNotFound = errors.New("blob: not found")

// Store is the object storage contract used by the services.
type Store interface {
	// Put writes data under key, creating or replacing the object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object bytes for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object for key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every object whose key starts with prefix.
	// Used when an expediente is deleted and its uploads must go with it.
	DeletePrefix(ctx context.Context, prefix string) error
}
