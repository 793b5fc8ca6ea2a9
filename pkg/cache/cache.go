// Package cache stores layout results and rendered artifacts by key.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys are built by a [Keyer] from content hashes, so a changed design or
// changed options never hit a stale entry.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. The second result is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// LayoutKeyOpts are the options that change a layout result.
type LayoutKeyOpts struct {
	Engine         string  `json:"engine"`
	NodeSpacing    float64 `json:"node_spacing"`
	LayerSpacing   float64 `json:"layer_spacing"`
	Padding        float64 `json:"padding"`
	MinTrackSize   float64 `json:"min_track_size"`
	KeepTrackSizes bool    `json:"keep_track_sizes"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
	Edges    bool   `json:"edges"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout of the design with the given
	// content hash.
	LayoutKey(designHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of an artifact rendered from the layout
	// with the given content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the content hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(designHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", designHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
