package config

import "time"

// Aggregation Constants
const (
	// DefaultLimit is the number of signals returned when no limit is given
	DefaultLimit = 40

	// MaxItemsPerSource caps how many items are read from a single feed
	MaxItemsPerSource = 5

	// DefaultMaxConcurrentFetches bounds the fan-out across sources
	DefaultMaxConcurrentFetches = 8
)

// Content Cleanup Constants
const (
	// SummaryMaxLength is the rune length a description is cut to
	SummaryMaxLength = 200

	// SummarySuffix is appended to every summary
	SummarySuffix = "..."

	// MaxTags is the maximum number of tags kept on a signal
	MaxTags = 6
)

// HTTP Constants
const (
	// DefaultUserAgent identifies the aggregator to upstream feeds
	DefaultUserAgent = "LedgeCrypt-Signal-Feed/1.0"

	// DefaultFetchTimeout bounds a single upstream request
	DefaultFetchTimeout = 10 * time.Second

	// DefaultPort is the API listen port
	DefaultPort = "8080"
)

// Cache and Stream Constants
const (
	// DefaultFeedCacheTTL is how long a raw feed body stays cached in Redis
	DefaultFeedCacheTTL = 60 * time.Second

	// FeedCacheKeyPrefix namespaces cached feed bodies
	FeedCacheKeyPrefix = "signalfeed:feed:"

	// DefaultKafkaTopic receives aggregation snapshots
	DefaultKafkaTopic = "signal-snapshots"
)

// SignalType is the type tag carried by every RSS-derived signal
const SignalType = "rss"
