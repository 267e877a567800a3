// Package extract turns raw feed mentions into structured candidates
// and claims.
package extract

import (
	"context"

	"prospector/internal/model"
)

// ExtractedCandidate is a product found in a mention.
type ExtractedCandidate struct {
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ExtractedClaim is an assertion about a named candidate.
type ExtractedClaim struct {
	CandidateName string  `json:"tool_name"`
	ClaimType     string  `json:"claim_type"`
	Content       string  `json:"content"`
	Confidence    float64 `json:"confidence"`
}

// Analysis is the outcome of analyzing one mention.
type Analysis struct {
	MentionID   int64
	Candidates  []ExtractedCandidate
	Claims      []ExtractedClaim
	RawResponse string
	Err         error
}

// Analyzer extracts candidates and claims from a raw mention.
type Analyzer interface {
	Analyze(ctx context.Context, mention *model.Mention) *Analysis
}
