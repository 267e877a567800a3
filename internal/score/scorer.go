// Package score computes relevance scores for candidates from their
// category, claim volume, keyword density, claim confidence, and feed
// diversity.
package score

import (
	"context"
	"fmt"
	"regexp"

	"prospector/internal/model"
	"prospector/internal/store"
)

// Result is the outcome of scoring one candidate. Reasons are ordered by
// rule evaluation order, not by magnitude, so repeat scoring with unchanged
// inputs yields identical output.
type Result struct {
	CandidateID int64    `json:"candidate_id"`
	Relevance   float64  `json:"relevance_score"`
	Reasons     []string `json:"reasons"`
	ClaimCount  int      `json:"claim_count"`
	FeedCount   int      `json:"feed_count"`
}

// Scorer calculates relevance scores and per-rule reasons
type Scorer struct {
	store *store.Store
}

// NewScorer creates a new scorer backed by the given store.
func NewScorer(st *store.Store) *Scorer {
	return &Scorer{store: st}
}

// Score computes the relevance score for a single candidate. The score is
// additive over five rules and clamped to [0,1]; a candidate with zero
// claims still receives its category base score.
func (s *Scorer) Score(ctx context.Context, candidateID int64) (*Result, error) {
	candidate, err := s.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	claims, err := s.store.ClaimsForCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return scoreCandidate(candidate, claims), nil
}

func scoreCandidate(candidate *model.Candidate, claims []*model.Claim) *Result {
	var reasons []string
	total := 0.0

	// 1. Base weight from category
	category := candidate.Category
	if category == "" {
		category = model.CategoryOther
	}
	weight, ok := categoryWeights[category]
	if !ok {
		weight = defaultCategoryWeight
	}
	base := weight * 0.3
	total += base
	reasons = append(reasons, fmt.Sprintf("Category '%s': +%.2f", category, base))

	feeds := make(map[int64]struct{})

	if len(claims) > 0 {
		// 2. Claim-volume bonus
		claimBonus := minFloat(float64(len(claims))*0.05, 0.2)
		total += claimBonus
		reasons = append(reasons, fmt.Sprintf("%d claims: +%.2f", len(claims), claimBonus))

		// 3a. Keyword signals in claim text
		allClaimText := ""
		confidenceSum := 0.0
		for _, claim := range claims {
			if allClaimText != "" {
				allClaimText += " "
			}
			allClaimText += claim.Content
			confidenceSum += claim.Confidence
			feeds[claim.FeedID] = struct{}{}
		}
		keywordScore, keywordReasons := scoreKeywords(allClaimText)
		total += keywordScore
		reasons = append(reasons, keywordReasons...)

		// 4. Average-claim-confidence bonus
		avgConfidence := confidenceSum / float64(len(claims))
		confBonus := avgConfidence * 0.15
		total += confBonus
		reasons = append(reasons, fmt.Sprintf("Avg confidence %.2f: +%.2f", avgConfidence, confBonus))
	}

	// 3b. Keyword signals in the description, weighted below claim text
	if candidate.Description != "" {
		descScore, descReasons := scoreKeywords(candidate.Description)
		total += descScore * 0.5
		if len(descReasons) > 0 {
			reasons = append(reasons, fmt.Sprintf("Description keywords: +%.2f", descScore*0.5))
		}
	}

	// 5. Multi-source bonus for claims spanning distinct feeds
	if len(feeds) > 1 {
		multiBonus := minFloat(float64(len(feeds))*0.05, 0.15)
		total += multiBonus
		reasons = append(reasons, fmt.Sprintf("%d feeds: +%.2f", len(feeds), multiBonus))
	}

	return &Result{
		CandidateID: candidate.ID,
		Relevance:   clamp(total, 0, 1),
		Reasons:     reasons,
		ClaimCount:  len(claims),
		FeedCount:   len(feeds),
	}
}

// scoreKeywords scores one text blob against the tiered signal tables.
// Each matching pattern contributes once, and the blob's whole contribution
// is capped.
func scoreKeywords(text string) (float64, []string) {
	if text == "" {
		return 0, nil
	}

	total := 0.0
	var reasons []string

	for _, pattern := range highSignals {
		if match := pattern.FindString(text); match != "" {
			total += highSignalWeight
			if len(reasons) < 3 {
				reasons = append(reasons, fmt.Sprintf("'%s': +%.2f", match, highSignalWeight))
			}
		}
	}
	total += countMatches(mediumSignals, text) * mediumSignalWeight
	total += countMatches(lowSignals, text) * lowSignalWeight

	return minFloat(total, keywordCap), reasons
}

func countMatches(patterns []*regexp.Regexp, text string) float64 {
	matched := 0.0
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			matched++
		}
	}
	return matched
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
