// Package cache provides the caching layer for layouts and rendered artifacts.
//
// Layouts are pure functions of a bouquet spec and a frame, and artifacts are
// pure functions of a layout and render options, so both can be stored under
// content-derived keys and reused across processes.
//
// # Backends
//
//   - [NullCache]: disables caching
//   - [FileCache]: per-user cache directory for the CLI
//   - [RedisCache]: shared cache for API replicas
//
// # Keys
//
// A [Keyer] derives cache keys. [DefaultKeyer] hashes the key options so
// any change in frame, format or style yields a distinct entry.
// [ScopedKeyer] prefixes another keyer to isolate namespaces.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries. Layouts and artifacts never go stale because
// their keys are content hashes, so the TTLs only bound disk and memory use.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
//
// Get reports a miss as (nil, false, nil). Errors are reserved for backend
// failures; callers in this module treat them as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies a layout computed from a spec.
	LayoutKey(specHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout inputs that are not part of the spec.
type LayoutKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Jitter float64 `json:"jitter,omitempty"`
}

// ArtifactKeyOpts holds the render inputs that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Style    string `json:"style"`
	Card     string `json:"card,omitempty"`
	Scale    int    `json:"scale,omitempty"`
	Thumb    int    `json:"thumb,omitempty"`
	Greenery bool   `json:"greenery"`
}

// DefaultKeyer builds keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(specHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", specHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
