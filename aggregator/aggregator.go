package aggregator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"signalfeed/config"
	"signalfeed/logging"
	"signalfeed/sources"
	"signalfeed/types"
)

// SourceFetcher produces the signals of a single source
type SourceFetcher interface {
	Fetch(ctx context.Context, src sources.Source) ([]types.Signal, error)
}

// Request selects what to aggregate
type Request struct {
	// Category restricts the fetch to one configured category. Empty means all.
	Category types.Category
	// Limit caps the number of signals returned; non-positive means DefaultLimit.
	Limit int
	// FeaturedOnly keeps only featured signals
	FeaturedOnly bool
}

// Filtered reports whether a category filter was requested
func (r Request) Filtered() bool { return r.Category != "" }

// Result is one aggregation cycle
type Result struct {
	// Signals is the merged, sorted and truncated list
	Signals []types.Signal
	// ByCategory groups Signals by category, preserving order within each group
	ByCategory map[types.Category][]types.Signal
	// Categories lists every configured category
	Categories []types.Category
	// Filtered is true when the request named a category
	Filtered  bool
	Timestamp time.Time
}

// Aggregator fans out to every source of the requested categories
type Aggregator struct {
	fetcher       SourceFetcher
	catalog       *sources.Catalog
	maxConcurrent int
	now           func() time.Time
}

// New creates an Aggregator. maxConcurrent bounds in-flight fetches.
func New(fetcher SourceFetcher, catalog *sources.Catalog, maxConcurrent int) *Aggregator {
	if maxConcurrent <= 0 {
		maxConcurrent = config.DefaultMaxConcurrentFetches
	}
	return &Aggregator{
		fetcher:       fetcher,
		catalog:       catalog,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// Aggregate runs one fetch-classify-merge cycle. Source failures are logged
// and contribute no signals; an error is returned only when the request
// context ends before the batch completes.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*Result, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = config.DefaultLimit
	}

	srcs := a.selectSources(req.Category)
	signals := a.fetchAll(ctx, srcs)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation aborted: %w", err)
	}

	slices.SortStableFunc(signals, func(x, y types.Signal) int {
		return y.PublishedAt.Compare(x.PublishedAt)
	})

	if req.FeaturedOnly {
		signals = slices.DeleteFunc(signals, func(s types.Signal) bool { return !s.Curation.Featured })
	}
	if len(signals) > limit {
		signals = signals[:limit]
	}

	return &Result{
		Signals:    signals,
		ByCategory: GroupByCategory(signals),
		Categories: a.catalog.Categories(),
		Filtered:   req.Filtered(),
		Timestamp:  a.now().UTC(),
	}, nil
}

// selectSources resolves the sources of the requested categories.
// An unconfigured category selects nothing.
func (a *Aggregator) selectSources(category types.Category) []sources.Source {
	if category != "" {
		srcs, ok := a.catalog.Lookup(category)
		if !ok {
			logging.Logger.Info("unknown category requested", "category", category)
		}
		return srcs
	}

	var all []sources.Source
	for _, g := range a.catalog.Groups() {
		all = append(all, g.Sources...)
	}
	return all
}

// fetchAll fetches every source concurrently. Each task writes only its own
// slot, so the join is the only synchronization needed.
func (a *Aggregator) fetchAll(ctx context.Context, srcs []sources.Source) []types.Signal {
	perSource := make([][]types.Signal, len(srcs))

	var g errgroup.Group
	g.SetLimit(a.maxConcurrent)
	for i, src := range srcs {
		g.Go(func() error {
			// A panicking source contributes nothing, like a failed one
			defer func() {
				if r := recover(); r != nil {
					logging.Logger.Error("source fetch panicked", "source", src.Name, "category", src.Category, "panic", r)
				}
			}()
			signals, err := a.fetcher.Fetch(ctx, src)
			if err != nil {
				logging.Logger.Warn("source fetch failed", "source", src.Name, "category", src.Category, "err", err)
				return nil // never fail the batch
			}
			perSource[i] = signals
			return nil
		})
	}
	_ = g.Wait()

	var total int
	for _, s := range perSource {
		total += len(s)
	}
	merged := make([]types.Signal, 0, total)
	for _, s := range perSource {
		merged = append(merged, s...)
	}
	logging.Logger.Debug("aggregation batch complete", "sources", len(srcs), "signals", len(merged))
	return merged
}

// GroupByCategory groups signals by category, keeping their relative order
func GroupByCategory(signals []types.Signal) map[types.Category][]types.Signal {
	out := make(map[types.Category][]types.Signal)
	for _, s := range signals {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}
