// Package storage provides the durable key-value slots that hold cart contents.
//
// Every backend stores opaque byte values under string keys. Callers own the
// encoding; the cart package writes a JSON array of line items per slot.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no value has been stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the interface for persisting cart slots.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key. The write is complete when Set returns.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the backend. The store must not be used afterwards.
	Close() error
}

// Backuper is implemented by backends that can produce a point-in-time snapshot.
type Backuper interface {
	// Backup writes a consistent snapshot of the whole store to w.
	Backup(ctx context.Context, w io.Writer) error

	// BackupExt is the file extension used for snapshots, including the dot.
	BackupExt() string
}
