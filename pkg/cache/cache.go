// Package cache stores rendered artifacts so unchanged sheets are not
// converted twice.
//
// Converting SVG pages to PDF shells out to rsvg-convert and dominates the
// cost of a run. The pipeline keys every converted artifact by a hash of the
// exact SVG input, so a cache entry can never be stale: identical input always
// converts to identical output. Entries still expire after [TTLArtifact] to
// keep the directory bounded.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.HashPages(pages), cache.ArtifactKeyOpts{Format: "pdf"})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a converted artifact is kept.
const TTLArtifact = 24 * time.Hour

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts holds the render settings that change an artifact's bytes
// beyond its SVG input.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<hash>" over the content hash and options.
func (DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", contentHash, opts)
}
