// Package cache provides byte-level caching backends for waterfall.
//
// # Backends
//
//   - [FileCache]: JSON envelope files under ~/.cache/waterfall/ (CLI default)
//   - [RedisCache]: shared cache for the HTTP gallery server
//   - [BoltCache]: single-file BoltDB store
//   - [NullCache]: caching disabled (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys for each cached stage: fetched feed pages, computed
// layouts and rendered artifacts. Every option that influences a stage's output
// is part of its key, so changing the column count or the style never returns a
// stale result.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for opaque byte payloads.
//
// Get reports (nil, false, nil) on a miss. Expired entries are treated as
// misses. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per cached stage.
const (
	// TTLPage applies to fetched photo pages. Remote feeds change, so pages expire quickly.
	TTLPage = time.Hour

	// TTLLayout applies to computed layouts. Layouts are pure functions of their key.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG/PNG/PDF/JSON output.
	TTLArtifact = 7 * 24 * time.Hour
)

// PageKeyOpts identifies one page fetched from a photo source.
type PageKeyOpts struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Seed    uint64 `json:"seed,omitempty"`
}

// LayoutKeyOpts holds every option that affects a computed layout.
type LayoutKeyOpts struct {
	Columns int     `json:"columns"`
	Width   float64 `json:"width"`
	Gap     float64 `json:"gap"`
	Padding float64 `json:"padding"`
}

// ArtifactKeyOpts holds every option that affects a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style"`
	Labels bool   `json:"labels,omitempty"`
}

// Keyer derives cache keys for each stage.
type Keyer interface {
	// HTTPKey returns the key for a raw HTTP response.
	HTTPKey(namespace, key string) string
	// PageKey returns the key for a page of photos from source.
	PageKey(source string, opts PageKeyOpts) string
	// LayoutKey returns the key for a layout of the items hashed to itemsHash.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key for an artifact rendered from layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// PageKey hashes the source and page options.
func (DefaultKeyer) PageKey(source string, opts PageKeyOpts) string {
	return hashKey("page", source, opts)
}

// LayoutKey hashes the items hash and layout options.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey hashes the layout hash and render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
