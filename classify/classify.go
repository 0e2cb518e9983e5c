package classify

import (
	"strings"

	"signalfeed/config"
	"signalfeed/types"
)

// keywordSet drives classification for one category
type keywordSet struct {
	keywords   []string
	highImpact []string
	bearish    []string
}

// Categories without an entry (Fintech, Security) classify with empty lists.
var categoryKeywords = map[types.Category]keywordSet{
	types.CategoryAI: {
		keywords:   []string{"ai", "artificial intelligence", "machine learning", "neural", "gpt", "llm", "openai", "anthropic"},
		highImpact: []string{"breakthrough", "agi", "superintelligence", "billion", "trillion"},
		bearish:    []string{"regulation", "ban", "risk", "danger", "lawsuit"},
	},
	types.CategoryWeb3: {
		keywords:   []string{"web3", "defi", "dapp", "smart contract", "protocol", "dao", "nft"},
		highImpact: []string{"hack", "exploit", "billion", "ethereum 2.0", "layer 2"},
		bearish:    []string{"hack", "exploit", "crash", "regulation"},
	},
	types.CategoryCrypto: {
		keywords:   []string{"bitcoin", "ethereum", "crypto", "blockchain", "mining", "wallet", "exchange"},
		highImpact: []string{"etf", "adoption", "regulation", "halving", "$50k", "$100k"},
		bearish:    []string{"crash", "bear market", "regulation", "ban", "hack"},
	},
	types.CategoryRobotics: {
		keywords:   []string{"robot", "automation", "humanoid", "industrial robot", "boston dynamics"},
		highImpact: []string{"breakthrough", "commercial", "factory", "warehouse"},
		bearish:    []string{"malfunction", "accident", "job loss"},
	},
	types.CategoryARVR: {
		keywords:   []string{"vr", "ar", "metaverse", "headset", "mixed reality", "apple vision"},
		highImpact: []string{"apple", "meta", "mass adoption", "enterprise"},
		bearish:    []string{"flop", "cancel", "expensive", "nausea"},
	},
	types.CategoryDrones: {
		keywords:   []string{"drone", "uav", "unmanned", "delivery", "surveillance"},
		highImpact: []string{"faa", "commercial", "military", "delivery"},
		bearish:    []string{"crash", "accident", "regulation", "privacy"},
	},
}

var (
	generalKeywords = []string{"startup", "funding", "ipo", "acquisition", "innovation", "breakthrough"}
	criticalTerms   = []string{"billion", "trillion", "breakthrough"}
	bullishWords    = []string{"breakthrough", "success", "growth", "adoption", "innovation", "funding"}
	bearishWords    = []string{"crash", "hack", "regulation", "ban", "risk", "concern"}
)

// Analyze scores an item's text against the keyword tables of its category.
// It is a pure function of its inputs.
func Analyze(title, description string, category types.Category) types.Analysis {
	text := strings.ToLower(title + " " + description)
	set := categoryKeywords[category]

	tags := append(matching(text, set.keywords), matching(text, generalKeywords)...)

	impact := types.ImpactLow
	if containsAny(text, set.highImpact) {
		impact = types.ImpactHigh
	}
	if containsAny(text, criticalTerms) {
		impact = types.ImpactCritical
	}
	if len(tags) > 3 && impact == types.ImpactLow {
		impact = types.ImpactMedium
	}

	sentiment := types.SentimentNeutral
	switch {
	case containsAny(text, set.bearish) || containsAny(text, bearishWords):
		sentiment = types.SentimentBearish
	case containsAny(text, bullishWords):
		sentiment = types.SentimentBullish
	}

	score := len(tags) + impact.Weight()
	if sentiment != types.SentimentNeutral {
		score += 2
	}

	if len(tags) > config.MaxTags {
		tags = tags[:config.MaxTags]
	}

	return types.Analysis{
		Tags:            tags,
		VolatilityScore: clamp(score, 1, 10),
		ImpactLevel:     impact,
		Sentiment:       sentiment,
	}
}

// Keywords are matched as plain substrings, so "ar" also hits "year".
func matching(text string, keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			out = append(out, kw)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
