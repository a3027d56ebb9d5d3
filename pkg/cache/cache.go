// Package cache memoizes width-optimizer solves within a process.
//
// Weekly schedules repeat: a Monday/Wednesday/Friday course produces the
// same conflict component on three days, and re-layout after an unrelated
// edit produces the same components as the previous pass. Solutions are
// keyed by a hash of the linear program, so identical problems are solved
// once.
//
// Layout results are never persisted; [MemoryCache] lives as long as the
// process and [NullCache] disables memoization.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// TTLSolve is how long a memoized solve stays valid.
const TTLSolve = 30 * time.Minute
