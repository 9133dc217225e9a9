// Package cache provides pluggable byte caches for capdrop.
//
// Two things get cached: caption directory listings (scanning large
// datasets is slow) and seeded simulation results (a seeded run is
// deterministic, so its output never goes stale). Backends:
//   - memory: process-local, for tests and short-lived commands
//   - file: on-disk, for CLI usage across invocations
//   - redis: shared, for service deployments
//   - null: disabled caching
//
// Keys are built through a Keyer so CLI and server agree on key shapes.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ListingKeyOpts distinguishes directory listings scanned with different
// settings.
type ListingKeyOpts struct {
	Recursive bool
	MaxFiles  int
}

// ResultKeyOpts captures everything that determines a seeded simulation's
// output. Two requests with equal opts produce byte-identical results.
type ResultKeyOpts struct {
	Caption             string
	Operation           string
	Rate                float64
	KeepTokens          int
	KeepTokensSeparator string
	Separators          []string
	Seed                int64
	WolfCaptions        bool
	Steps               int
}

// Keyer generates cache keys for the different entry types.
type Keyer interface {
	// ListingKey generates a key for a caption directory listing.
	ListingKey(dir string, opts ListingKeyOpts) string

	// ResultKey generates a key for a seeded simulation result.
	ResultKey(opts ResultKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ListingKey generates a key for a caption directory listing.
func (k *DefaultKeyer) ListingKey(dir string, opts ListingKeyOpts) string {
	return hashKey("listing", dir, opts)
}

// ResultKey generates a key for a seeded simulation result.
func (k *DefaultKeyer) ResultKey(opts ResultKeyOpts) string {
	return hashKey("result", opts)
}
