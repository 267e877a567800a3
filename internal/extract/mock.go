package extract

import (
	"context"
	"regexp"
	"strings"

	"prospector/internal/model"
)

// knownProduct drives the pattern analyzer: a mention matching the
// pattern yields the listed candidate plus a claim built from the
// surrounding text.
type knownProduct struct {
	pattern  *regexp.Regexp
	name     string
	url      string
	category string
}

var knownProducts = []knownProduct{
	{regexp.MustCompile(`(?i)Apollo\.?io|Apollo`), "Apollo", "https://apollo.io", "prospecting"},
	{regexp.MustCompile(`(?i)Lavender\.?ai|Lavender`), "Lavender", "https://lavender.ai", "outreach"},
	{regexp.MustCompile(`(?i)Instantly\.?ai|Instantly`), "Instantly", "https://instantly.ai", "outreach"},
	{regexp.MustCompile(`(?i)Clay`), "Clay", "https://clay.com", "enrichment"},
	{regexp.MustCompile(`(?i)Outreach\.?io|Outreach`), "Outreach", "https://outreach.io", "outreach"},
	{regexp.MustCompile(`(?i)Gong\.?io|Gong`), "Gong", "https://gong.io", "conversation"},
	{regexp.MustCompile(`(?i)ZoomInfo`), "ZoomInfo", "https://zoominfo.com", "enrichment"},
	{regexp.MustCompile(`(?i)Lemlist`), "Lemlist", "https://lemlist.com", "outreach"},
	{regexp.MustCompile(`(?i)Woodpecker`), "Woodpecker", "https://woodpecker.co", "outreach"},
	{regexp.MustCompile(`(?i)Fireflies`), "Fireflies", "https://fireflies.ai", "conversation"},
	{regexp.MustCompile(`(?i)HubSpot`), "HubSpot", "https://hubspot.com", "crm"},
	{regexp.MustCompile(`(?i)Salesforce`), "Salesforce", "https://salesforce.com", "crm"},
	{regexp.MustCompile(`(?i)Chorus`), "Chorus", "https://chorus.ai", "conversation"},
}

// PatternAnalyzer extracts candidates by matching a table of known
// product names. It needs no API access, which makes it the default
// for tests and offline runs.
type PatternAnalyzer struct{}

// NewPatternAnalyzer creates a pattern-based analyzer.
func NewPatternAnalyzer() *PatternAnalyzer {
	return &PatternAnalyzer{}
}

// Analyze scans the mention text for known products.
func (a *PatternAnalyzer) Analyze(_ context.Context, mention *model.Mention) *Analysis {
	analysis := &Analysis{MentionID: mention.ID}
	seen := make(map[string]struct{})

	for _, product := range knownProducts {
		loc := product.pattern.FindStringIndex(mention.RawText)
		if loc == nil {
			continue
		}
		key := strings.ToLower(product.name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		analysis.Candidates = append(analysis.Candidates, ExtractedCandidate{
			Name:     product.name,
			URL:      product.url,
			Category: product.category,
		})

		snippet := surrounding(mention.RawText, loc[0], loc[1], 100)
		if snippet != "" {
			analysis.Claims = append(analysis.Claims, ExtractedClaim{
				CandidateName: product.name,
				ClaimType:     string(classifyClaim(snippet)),
				Content:       snippet,
				Confidence:    0.6,
			})
		}
	}

	return analysis
}

// surrounding returns up to margin bytes of context on each side of
// the match, trimmed.
func surrounding(text string, start, end, margin int) string {
	from := start - margin
	if from < 0 {
		from = 0
	}
	to := end + margin
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(text[from:to])
}

// classifyClaim guesses the claim type from words near the match.
func classifyClaim(snippet string) model.ClaimType {
	lower := strings.ToLower(snippet)
	switch {
	case containsAny(lower, "price", "cost", "$", "free", "paid"):
		return model.ClaimTypePricing
	case containsAny(lower, "integrat", "connect", "sync"):
		return model.ClaimTypeIntegration
	case containsAny(lower, "vs", "compared", "better than", "alternative"):
		return model.ClaimTypeComparison
	default:
		return model.ClaimTypeFeature
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
