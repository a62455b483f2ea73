// Package memory persists one free-text memory string per user.
//
// The store is deliberately a plain keyed text store: no versioning, no
// history, no size limits. Writes replace the whole string atomically.
// Absence is a valid state; Read reports it with ErrNotFound.
//
// Backends:
//   - SQLiteStore: embedded file database, the default
//   - InMemoryStore: process-local, for tests and ephemeral runs
//   - PostgresStore, MongoStore, RedisStore: networked deployments
package memory

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when the user has no stored memory.
var ErrNotFound = errors.New("memory not found")

// Store is the persistence boundary for user memories. Implementations must
// survive process restart except where documented otherwise.
type Store interface {
	// Read returns the user's memory string, or ErrNotFound.
	Read(ctx context.Context, userID string) (string, error)

	// Write stores the memory string for the user, replacing any previous
	// value. Content is not validated or size-limited.
	Write(ctx context.Context, userID, content string) error

	// Delete removes the user's memory. Deleting an absent memory is not
	// an error.
	Delete(ctx context.Context, userID string) error

	// ListUsers returns the IDs of all users with a stored memory.
	ListUsers(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
