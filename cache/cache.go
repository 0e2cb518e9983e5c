package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"signalfeed/config"
)

// FeedCache stores raw feed bodies keyed by feed URL.
// Implementations must be safe for concurrent use.
type FeedCache interface {
	// Get returns the cached body and true, or false on a miss
	Get(ctx context.Context, feedURL string) ([]byte, bool, error)
	// Set stores body for feedURL until the cache's TTL expires
	Set(ctx context.Context, feedURL string, body []byte) error
}

// Nop never stores anything; it is the default when no cache is configured
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }

// Key derives the cache key for a feed URL
func Key(feedURL string) string {
	hash := sha256.Sum256([]byte(feedURL))
	return config.FeedCacheKeyPrefix + hex.EncodeToString(hash[:])[:16]
}
