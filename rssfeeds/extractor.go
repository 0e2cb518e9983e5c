package rssfeeds

import (
	"html"
	"regexp"
)

// Pattern-based item extraction, used when the feed parser rejects a
// document (unescaped ampersands, truncated bodies and the like).
var (
	itemRe        = regexp.MustCompile(`(?is)<item[^>]*>.*?</item>`)
	titleRe       = regexp.MustCompile(`(?is)<title[^>]*>(?:<!\[CDATA\[(.*?)\]\]>|(.*?))</title>`)
	descriptionRe = regexp.MustCompile(`(?is)<description[^>]*>(?:<!\[CDATA\[(.*?)\]\]>|(.*?))</description>`)
	linkRe        = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`)
	guidRe        = regexp.MustCompile(`(?is)<guid[^>]*>(.*?)</guid>`)
	pubDateRe     = regexp.MustCompile(`(?is)<pubDate[^>]*>(.*?)</pubDate>`)
)

// extractItems pulls at most max raw items out of an RSS document
func extractItems(body []byte, max int) []rawItem {
	blocks := itemRe.FindAll(body, max)
	items := make([]rawItem, 0, len(blocks))
	for _, block := range blocks {
		b := string(block)
		link := firstGroup(linkRe, b)
		if link == "" {
			link = firstGroup(guidRe, b)
		}
		items = append(items, rawItem{
			Title:       firstGroup(titleRe, b),
			Description: firstGroup(descriptionRe, b),
			Link:        link,
			PubDate:     firstGroup(pubDateRe, b),
		})
	}
	return items
}

// firstGroup returns the first non-empty capture group of re in s,
// entity-decoded. Text inside CDATA is returned as-is.
func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	if re.NumSubexp() == 2 && m[1] != "" {
		return m[1]
	}
	for _, g := range m[1:] {
		if g != "" {
			return html.UnescapeString(g)
		}
	}
	return ""
}
