package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"signalfeed/sources"
	"signalfeed/types"
)

// FetchOptions mirrors the query parameters of GET /api/rss
type FetchOptions struct {
	Category types.Category
	Limit    int
	Featured bool
}

func (o FetchOptions) query() url.Values {
	q := url.Values{}
	if o.Category != "" {
		q.Set("category", string(o.Category))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Featured {
		q.Set("featured", "true")
	}
	return q
}

// Feed is a decoded GET /api/rss response. Exactly one of Signals or
// ByCategory is populated, depending on whether a category was requested.
type Feed struct {
	Count           int
	TotalCategories int
	Categories      []types.Category
	Signals         []types.Signal
	ByCategory      map[types.Category][]types.Signal
	Timestamp       time.Time
}

// All returns every signal in the feed regardless of its shape, newest
// first. Grouped feeds are merged in category order before sorting, so
// equal timestamps keep that order.
func (f *Feed) All() []types.Signal {
	if f.ByCategory == nil {
		return f.Signals
	}
	var out []types.Signal
	for _, cat := range f.Categories {
		out = append(out, f.ByCategory[cat]...)
	}
	slices.SortStableFunc(out, func(x, y types.Signal) int {
		return y.PublishedAt.Compare(x.PublishedAt)
	})
	return out
}

type rssEnvelope struct {
	Success         bool             `json:"success"`
	Error           string           `json:"error"`
	Count           int              `json:"count"`
	TotalCategories int              `json:"totalCategories"`
	Categories      []types.Category `json:"categories"`
	Signals         json.RawMessage  `json:"signals"`
	Timestamp       time.Time        `json:"timestamp"`
}

// FetchSignals calls GET /api/rss
func (c *SignalClient) FetchSignals(ctx context.Context, opts FetchOptions) (*Feed, error) {
	var env rssEnvelope
	if err := c.doJSONRequest(ctx, "/api/rss", opts.query(), &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("signal feed error: %s", env.Error)
	}

	feed := &Feed{
		Count:           env.Count,
		TotalCategories: env.TotalCategories,
		Categories:      env.Categories,
		Timestamp:       env.Timestamp,
	}
	trimmed := bytes.TrimSpace(env.Signals)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &feed.Signals); err != nil {
			return nil, fmt.Errorf("failed to decode signals: %w", err)
		}
	default:
		if err := json.Unmarshal(trimmed, &feed.ByCategory); err != nil {
			return nil, fmt.Errorf("failed to decode grouped signals: %w", err)
		}
	}
	return feed, nil
}

// FetchSources calls GET /api/rss/sources
func (c *SignalClient) FetchSources(ctx context.Context) ([]sources.Group, error) {
	var result struct {
		Groups []sources.Group `json:"groups"`
	}
	if err := c.doJSONRequest(ctx, "/api/rss/sources", nil, &result); err != nil {
		return nil, err
	}
	return result.Groups, nil
}

// Summary counts a batch of signals the way the dashboard badges do
type Summary struct {
	Total      int
	Critical   int
	Featured   int
	ByCategory map[types.Category]int
}

// Summarize tallies signals per category, plus critical and featured totals
func Summarize(signals []types.Signal) Summary {
	s := Summary{ByCategory: make(map[types.Category]int)}
	for _, sig := range signals {
		s.Total++
		s.ByCategory[sig.Category]++
		if sig.Analysis.ImpactLevel == types.ImpactCritical {
			s.Critical++
		}
		if sig.Curation.Featured {
			s.Featured++
		}
	}
	return s
}
