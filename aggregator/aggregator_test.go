package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"signalfeed/logging"
	"signalfeed/sources"
	"signalfeed/types"
)

func init() {
	logging.Discard()
}

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeFetcher returns canned signals per source name, or an error
type fakeFetcher struct {
	signals  map[string][]types.Signal
	failures map[string]error
	panics   map[string]bool
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context, src sources.Source) ([]types.Signal, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panics[src.Name] {
		var m map[string]int
		m[src.Name]++
	}
	if err := f.failures[src.Name]; err != nil {
		return nil, err
	}
	return f.signals[src.Name], nil
}

func signal(source string, category types.Category, hoursAfterBase int, featured bool) types.Signal {
	return types.Signal{
		ID:          fmt.Sprintf("%s-%d", source, hoursAfterBase),
		Title:       fmt.Sprintf("%s %d", source, hoursAfterBase),
		URL:         "http://x/" + source,
		PublishedAt: base.Add(time.Duration(hoursAfterBase) * time.Hour),
		Source:      types.SourceInfo{Name: source, Category: category},
		Curation:    types.Curation{Featured: featured},
		Category:    category,
	}
}

func testCatalog() *sources.Catalog {
	return sources.NewCatalog(
		sources.Group{Category: types.CategoryAI, Sources: []sources.Source{{Name: "ai-1"}, {Name: "ai-2"}}},
		sources.Group{Category: types.CategoryCrypto, Sources: []sources.Source{{Name: "crypto-1"}}},
		sources.Group{Category: types.CategorySecurity, Sources: []sources.Source{{Name: "sec-1"}}},
	)
}

func TestAggregateMergesSortsAndGroups(t *testing.T) {
	f := &fakeFetcher{signals: map[string][]types.Signal{
		"ai-1":     {signal("ai-1", types.CategoryAI, 1, false), signal("ai-1", types.CategoryAI, 5, true)},
		"ai-2":     {signal("ai-2", types.CategoryAI, 3, false)},
		"crypto-1": {signal("crypto-1", types.CategoryCrypto, 4, false), signal("crypto-1", types.CategoryCrypto, 2, false)},
	}}
	agg := New(f, testCatalog(), 4)

	res, err := agg.Aggregate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if f.calls.Load() != 4 {
		t.Fatalf("fetched %d sources; want 4", f.calls.Load())
	}
	if res.Filtered {
		t.Fatalf("unfiltered request reported as filtered")
	}

	var hours []int
	for _, s := range res.Signals {
		hours = append(hours, int(s.PublishedAt.Sub(base).Hours()))
	}
	want := []int{5, 4, 3, 2, 1}
	if fmt.Sprint(hours) != fmt.Sprint(want) {
		t.Fatalf("order = %v; want %v", hours, want)
	}

	if len(res.ByCategory) != 2 {
		t.Fatalf("got %d groups; want 2", len(res.ByCategory))
	}
	ai := res.ByCategory[types.CategoryAI]
	if len(ai) != 3 || ai[0].ID != "ai-1-5" || ai[1].ID != "ai-2-3" || ai[2].ID != "ai-1-1" {
		t.Fatalf("AI group out of order: %+v", ai)
	}
	if len(res.Categories) != 3 || res.Categories[0] != types.CategoryAI {
		t.Fatalf("Categories = %v", res.Categories)
	}
}

func TestAggregateSourceFailureIsIsolated(t *testing.T) {
	f := &fakeFetcher{
		signals: map[string][]types.Signal{
			"ai-2":     {signal("ai-2", types.CategoryAI, 1, false)},
			"crypto-1": {signal("crypto-1", types.CategoryCrypto, 2, false)},
		},
		failures: map[string]error{"ai-1": errors.New("503 Service Unavailable")},
	}

	res, err := New(f, testCatalog(), 0).Aggregate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("a source failure must not fail the batch: %v", err)
	}
	if len(res.Signals) != 2 {
		t.Fatalf("got %d signals; want 2", len(res.Signals))
	}
}

func TestAggregateSourcePanicIsIsolated(t *testing.T) {
	f := &fakeFetcher{
		signals: map[string][]types.Signal{
			"ai-1":     {signal("ai-1", types.CategoryAI, 9, true)},
			"ai-2":     {signal("ai-2", types.CategoryAI, 1, false)},
			"crypto-1": {signal("crypto-1", types.CategoryCrypto, 2, false)},
		},
		panics: map[string]bool{"ai-1": true},
	}

	res, err := New(f, testCatalog(), 2).Aggregate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("a panicking source must not fail the batch: %v", err)
	}
	if f.calls.Load() != 4 {
		t.Fatalf("fetched %d sources; want 4", f.calls.Load())
	}
	if len(res.Signals) != 2 || res.Signals[0].ID != "crypto-1-2" || res.Signals[1].ID != "ai-2-1" {
		t.Fatalf("unexpected signals %+v", res.Signals)
	}
}

func TestAggregateLimit(t *testing.T) {
	var many []types.Signal
	for i := 0; i < 50; i++ {
		many = append(many, signal("ai-1", types.CategoryAI, i, false))
	}
	f := &fakeFetcher{signals: map[string][]types.Signal{"ai-1": many}}
	agg := New(f, testCatalog(), 2)

	cases := []struct {
		limit int
		want  int
	}{
		{limit: 3, want: 3},
		{limit: 0, want: 40},
		{limit: -5, want: 40},
		{limit: 100, want: 50},
	}
	for _, c := range cases {
		res, err := agg.Aggregate(context.Background(), Request{Limit: c.limit})
		if err != nil {
			t.Fatalf("limit %d: %v", c.limit, err)
		}
		if len(res.Signals) != c.want {
			t.Fatalf("limit %d: got %d signals; want %d", c.limit, len(res.Signals), c.want)
		}
		if c.limit == 3 && !res.Signals[0].PublishedAt.Equal(base.Add(49*time.Hour)) {
			t.Fatalf("truncation kept the wrong end: first is %v", res.Signals[0].PublishedAt)
		}
	}
}

func TestAggregateCategoryFilter(t *testing.T) {
	f := &fakeFetcher{signals: map[string][]types.Signal{
		"ai-1":     {signal("ai-1", types.CategoryAI, 1, false)},
		"crypto-1": {signal("crypto-1", types.CategoryCrypto, 2, false)},
	}}
	agg := New(f, testCatalog(), 4)

	res, err := agg.Aggregate(context.Background(), Request{Category: types.CategoryCrypto})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !res.Filtered || len(res.Signals) != 1 || res.Signals[0].Category != types.CategoryCrypto {
		t.Fatalf("unexpected filtered result: %+v", res)
	}
	if f.calls.Load() != 1 {
		t.Fatalf("fetched %d sources; want 1", f.calls.Load())
	}
}

func TestAggregateUnknownCategory(t *testing.T) {
	f := &fakeFetcher{}
	res, err := New(f, testCatalog(), 4).Aggregate(context.Background(), Request{Category: "Gardening"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if f.calls.Load() != 0 {
		t.Fatalf("unknown category triggered %d fetches", f.calls.Load())
	}
	if res.Signals == nil || len(res.Signals) != 0 || len(res.ByCategory) != 0 {
		t.Fatalf("want empty non-nil signals, got %+v", res)
	}
	if len(res.Categories) != 3 {
		t.Fatalf("configured categories should still be listed, got %v", res.Categories)
	}
}

func TestAggregateFeaturedOnly(t *testing.T) {
	f := &fakeFetcher{signals: map[string][]types.Signal{
		"ai-1": {signal("ai-1", types.CategoryAI, 1, true), signal("ai-1", types.CategoryAI, 2, false), signal("ai-1", types.CategoryAI, 3, true)},
	}}
	res, err := New(f, testCatalog(), 4).Aggregate(context.Background(), Request{FeaturedOnly: true, Limit: 1})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(res.Signals) != 1 || res.Signals[0].ID != "ai-1-3" {
		t.Fatalf("want newest featured signal only, got %+v", res.Signals)
	}
}

func TestAggregateBoundsConcurrency(t *testing.T) {
	groups := []sources.Group{{Category: types.CategoryAI}}
	for i := 0; i < 10; i++ {
		groups[0].Sources = append(groups[0].Sources, sources.Source{Name: fmt.Sprintf("s-%d", i)})
	}
	f := &fakeFetcher{delay: 20 * time.Millisecond}

	if _, err := New(f, sources.NewCatalog(groups...), 3).Aggregate(context.Background(), Request{}); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if f.calls.Load() != 10 {
		t.Fatalf("fetched %d sources; want 10", f.calls.Load())
	}
	if got := f.maxSeen.Load(); got > 3 {
		t.Fatalf("%d fetches in flight; limit is 3", got)
	}
}

func TestAggregateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(&fakeFetcher{}, testCatalog(), 4).Aggregate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
}

func TestGroupByCategoryPreservesOrder(t *testing.T) {
	in := []types.Signal{
		signal("a", types.CategoryAI, 3, false),
		signal("b", types.CategoryWeb3, 2, false),
		signal("c", types.CategoryAI, 1, false),
	}
	got := GroupByCategory(in)
	if len(got[types.CategoryAI]) != 2 || got[types.CategoryAI][0].ID != "a-3" || got[types.CategoryAI][1].ID != "c-1" {
		t.Fatalf("AI group = %+v", got[types.CategoryAI])
	}
	if len(got[types.CategoryWeb3]) != 1 {
		t.Fatalf("Web3 group = %+v", got[types.CategoryWeb3])
	}
}
