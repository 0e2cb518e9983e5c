package cache

import (
	"context"
	"strings"
	"testing"

	"signalfeed/config"
)

func TestKey(t *testing.T) {
	a := Key("https://coindesk.com/arc/outboundfeeds/rss/")
	b := Key("https://coindesk.com/arc/outboundfeeds/rss/")
	c := Key("https://decrypt.co/feed")

	if a != b {
		t.Fatalf("Key is not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("different URLs share key %q", a)
	}
	if !strings.HasPrefix(a, config.FeedCacheKeyPrefix) {
		t.Fatalf("Key %q missing prefix %q", a, config.FeedCacheKeyPrefix)
	}
	if got := len(strings.TrimPrefix(a, config.FeedCacheKeyPrefix)); got != 16 {
		t.Fatalf("hash part has length %d; want 16", got)
	}
}

func TestNop(t *testing.T) {
	var c FeedCache = Nop{}
	if err := c.Set(context.Background(), "http://x", []byte("body")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "http://x"); ok || err != nil {
		t.Fatalf("Get = %v, %v; want miss", ok, err)
	}
}
