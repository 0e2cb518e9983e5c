package rssfeeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"signalfeed/cache"
	"signalfeed/classify"
	"signalfeed/config"
	"signalfeed/logging"
	"signalfeed/sources"
	"signalfeed/types"
)

// maxBodyBytes caps how much of a feed response is read
const maxBodyBytes = 10 << 20

// ErrUnexpectedStatus is returned when a feed answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected status")

// rawItem is an item as read from the feed, before cleanup
type rawItem struct {
	Title       string
	Description string
	Link        string
	PubDate     string
	Published   *time.Time
}

// Fetcher downloads a source's feed and turns its first items into signals
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxItems  int
	cache     cache.FeedCache
	now       func() time.Time
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client. The caller's client
// must enforce its own timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent overrides the identifying User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCache serves feed bodies from c when present
func WithCache(c cache.FeedCache) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.cache = c
		}
	}
}

// WithClock overrides the time source used for fallback dates and IDs
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher creates a Fetcher with the given options
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   config.DefaultFetchTimeout,
		userAgent: config.DefaultUserAgent,
		maxItems:  config.MaxItemsPerSource,
		cache:     cache.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// Fetch retrieves src's feed and returns a signal for every usable item
// among the first MaxItemsPerSource. Items without a title or link are dropped.
func (f *Fetcher) Fetch(ctx context.Context, src sources.Source) ([]types.Signal, error) {
	body, err := f.fetchBody(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.Name, err)
	}

	now := f.now()
	items := f.parseItems(body)
	signals := make([]types.Signal, 0, len(items))
	for _, item := range items {
		if s, ok := buildSignal(item, src, now); ok {
			signals = append(signals, s)
		}
	}
	return signals, nil
}

func (f *Fetcher) fetchBody(ctx context.Context, feedURL string) ([]byte, error) {
	if body, ok, err := f.cache.Get(ctx, feedURL); err != nil {
		logging.Logger.Warn("feed cache read failed", "url", feedURL, "err", err)
	} else if ok {
		logging.Logger.Debug("feed cache hit", "url", feedURL)
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if err := f.cache.Set(ctx, feedURL, body); err != nil {
		logging.Logger.Warn("feed cache write failed", "url", feedURL, "err", err)
	}
	return body, nil
}

// parseItems reads items with gofeed and falls back to pattern
// extraction when the document cannot be parsed as a feed.
func (f *Fetcher) parseItems(body []byte) []rawItem {
	// gofeed parsers keep per-parse state, so each fetch gets its own
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		logging.Logger.Debug("feed parser rejected document, using pattern extraction", "err", err)
		return extractItems(body, f.maxItems)
	}

	count := min(len(feed.Items), f.maxItems)
	items := make([]rawItem, 0, count)
	for _, item := range feed.Items[:count] {
		link := item.Link
		if strings.TrimSpace(link) == "" {
			link = item.GUID
		}
		items = append(items, rawItem{
			Title:       item.Title,
			Description: item.Description,
			Link:        link,
			PubDate:     item.Published,
			Published:   item.PublishedParsed,
		})
	}
	return items
}

func buildSignal(item rawItem, src sources.Source, now time.Time) (types.Signal, bool) {
	title := stripTags(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return types.Signal{}, false
	}

	summary := summarize(item.Description)

	var published time.Time
	if item.Published != nil && !item.Published.IsZero() {
		published = item.Published.UTC()
	} else {
		published = parseDate(item.PubDate, now.UTC())
	}

	analysis := classify.Analyze(title, summary, src.Category)

	return types.Signal{
		ID:          types.GenerateID(src.Name, now),
		Title:       title,
		Summary:     summary,
		URL:         link,
		PublishedAt: published,
		Source: types.SourceInfo{
			Name:        src.Name,
			Reliability: src.Reliability,
			Category:    src.Category,
		},
		Analysis: analysis,
		Curation: types.Curation{
			Featured: types.IsFeatured(analysis.ImpactLevel, src.Reliability),
		},
		Type:     config.SignalType,
		Category: src.Category,
	}, true
}
