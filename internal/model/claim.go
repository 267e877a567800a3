package model

import (
	"strings"
	"time"
)

// ClaimType categorizes the nature of a claim
type ClaimType string

const (
	ClaimTypeFeature     ClaimType = "feature"     // Capability the product offers
	ClaimTypePricing     ClaimType = "pricing"     // Cost, plan, or tier information
	ClaimTypeIntegration ClaimType = "integration" // Works-with-X statements
	ClaimTypeLimitation  ClaimType = "limitation"  // Known gaps or drawbacks
	ClaimTypeComparison  ClaimType = "comparison"  // Relative to another product
	ClaimTypeUseCase     ClaimType = "use_case"    // Observed or suggested application
	ClaimTypeAudience    ClaimType = "audience"    // Who the product targets
)

var claimTypes = []ClaimType{
	ClaimTypeFeature,
	ClaimTypePricing,
	ClaimTypeIntegration,
	ClaimTypeLimitation,
	ClaimTypeComparison,
	ClaimTypeUseCase,
	ClaimTypeAudience,
}

// ParseClaimType converts a string into a known ClaimType, defaulting
// unknown values to feature.
func ParseClaimType(value string) ClaimType {
	normalized := ClaimType(strings.ToLower(strings.TrimSpace(value)))
	for _, ct := range claimTypes {
		if ct == normalized {
			return ct
		}
	}
	return ClaimTypeFeature
}

// Claim is a discrete factual assertion about a candidate, attributed to
// exactly one feed. Claims always have a valid parent candidate; merging a
// duplicate re-parents its claims to the canonical record.
type Claim struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	FeedID      int64     `json:"feed_id"`
	Type        ClaimType `json:"claim_type"`
	Content     string    `json:"content"`
	Confidence  float64   `json:"confidence"` // 0.0 to 1.0
	RawText     string    `json:"raw_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
