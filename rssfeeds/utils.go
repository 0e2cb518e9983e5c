package rssfeeds

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"signalfeed/config"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// stripTags removes markup tags and surrounding whitespace
func stripTags(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}

// summarize strips the description and cuts it to SummaryMaxLength runes.
// The suffix is always appended, even for short or empty descriptions.
func summarize(description string) string {
	runes := []rune(stripTags(description))
	if len(runes) > config.SummaryMaxLength {
		runes = runes[:config.SummaryMaxLength]
	}
	return string(runes) + config.SummarySuffix
}

// parseDate parses a feed date, returning fallback when the value is
// empty or not a recognizable date. Dates without a zone are read as UTC.
func parseDate(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil || t.IsZero() {
		return fallback
	}
	return t.UTC()
}
