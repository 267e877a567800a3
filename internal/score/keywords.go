package score

import "regexp"

// Keyword signals and their weights for relevance scoring. The weights are
// hand-tuned from operating the pipeline; there is no labeled dataset
// behind them, so treat adjustments as configuration changes.
const (
	highSignalWeight   = 0.15
	mediumSignalWeight = 0.08
	lowSignalWeight    = 0.03
	keywordCap         = 0.4 // cap per text blob so no single signal dominates
)

var highSignals = compileAll([]string{
	`\bSDR\b`, `\bBDR\b`, `\bsales\s*rep\b`,
	`\bcold\s*(email|outreach|call)`, `\bprospecting\b`,
	`\blead\s*(gen|generation)\b`, `\boutreach\b`,
	`\bsales\s*automation\b`, `\bsales\s*engagement\b`,
})

var mediumSignals = compileAll([]string{
	`\bCRM\b`, `\bpipeline\b`, `\bquota\b`,
	`\bconversion\b`, `\bresponse\s*rate\b`,
	`\bemail\s*(sequence|campaign)\b`, `\bLinkedIn\b`,
	`\bmeeting\b`, `\bdemo\b`, `\bclose\b`,
})

var lowSignals = compileAll([]string{
	`\bAI\b`, `\bautomation\b`, `\bproductivity\b`,
	`\bworkflow\b`, `\bintegration\b`, `\banalytics\b`,
})

// Category base weights. A prospecting-type category carries full weight,
// an uncategorized candidate the lowest.
var categoryWeights = map[string]float64{
	"prospecting":  1.0,
	"outreach":     1.0,
	"enrichment":   0.9,
	"conversation": 0.8,
	"crm":          0.7,
	"scheduling":   0.6,
	"analytics":    0.5,
	"coaching":     0.5,
	"other":        0.3,
}

const defaultCategoryWeight = 0.3

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+pattern))
	}
	return compiled
}
