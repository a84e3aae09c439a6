// Package cache stores composed page images so an identical page is only
// drawn once.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for API servers running side
//     by side
//
// Keys are built by a [Keyer] from a hash of the page content and the
// options that affect rendering, so a change to any of them is a miss.
package cache

import (
	"context"
	"time"
)

// TTLGrid is how long a composed page stays cached.
const TTLGrid = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
