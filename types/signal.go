package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is one of the configured topic categories
type Category string

const (
	CategoryAI       Category = "AI"
	CategoryWeb3     Category = "Web3"
	CategoryCrypto   Category = "Crypto Blockchain"
	CategoryRobotics Category = "Robotics"
	CategoryARVR     Category = "AR VR"
	CategoryDrones   Category = "Drones"
	CategoryFintech  Category = "Fintech"
	CategorySecurity Category = "Security"
)

// ImpactLevel is a coarse severity classification
type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "low"
	ImpactMedium   ImpactLevel = "medium"
	ImpactHigh     ImpactLevel = "high"
	ImpactCritical ImpactLevel = "critical"
)

// Weight is the contribution of the impact level to the volatility score
func (l ImpactLevel) Weight() int {
	switch l {
	case ImpactCritical:
		return 4
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// Sentiment is the market direction suggested by an item
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// Analysis is the keyword classification attached to a signal
type Analysis struct {
	Tags            []string    `json:"tags"`
	VolatilityScore int         `json:"volatilityScore"`
	ImpactLevel     ImpactLevel `json:"impactLevel"`
	Sentiment       Sentiment   `json:"sentiment"`
}

// SourceInfo identifies where a signal came from
type SourceInfo struct {
	Name        string   `json:"name"`
	Reliability int      `json:"reliability"`
	Category    Category `json:"category"`
}

// Curation holds display flags
type Curation struct {
	Featured bool `json:"featured"`
}

// Signal is one normalized, classified news item.
// Signals live for a single aggregation; nothing about them is stored.
type Signal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	URL         string     `json:"url"`
	PublishedAt time.Time  `json:"publishedAt"`
	Source      SourceInfo `json:"source"`
	Analysis    Analysis   `json:"analysis"`
	Curation    Curation   `json:"curation"`
	Type        string     `json:"type"`
	Category    Category   `json:"category"`
}

// IsFeatured promotes critical signals, and high impact ones from the most reliable sources
func IsFeatured(impact ImpactLevel, reliability int) bool {
	return impact == ImpactCritical || (impact == ImpactHigh && reliability >= 5)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// GenerateID builds a per-cycle identifier: <source-slug>-<unix millis>-<random suffix>.
// Uniqueness is probabilistic.
func GenerateID(sourceName string, now time.Time) string {
	slug := whitespaceRe.ReplaceAllString(strings.ToLower(sourceName), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", slug, now.UnixMilli(), suffix)
}
