// Package curator orchestrates a curation pass: deduplication, scoring,
// and admission-controlled promotion into the review queue.
package curator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"prospector/internal/dedup"
	"prospector/internal/model"
	"prospector/internal/score"
	"prospector/internal/store"
)

// Options controls one curation pass.
type Options struct {
	MinRelevance   float64 // minimum score to promote into review
	AutoMerge      bool    // merge detected duplicate groups
	MaxReviewQueue int     // admission cap on the review stage
}

// Summary reports the outcome of one curation pass.
type Summary struct {
	Scored           int     `json:"tools_scored"`
	Promoted         int     `json:"tools_promoted"`
	BelowThreshold   int     `json:"tools_below_threshold"`
	DuplicatesFound  int     `json:"duplicates_found"`
	DuplicatesMerged int     `json:"duplicates_merged"`
	MinScore         float64 `json:"min_score"`
	MaxScore         float64 `json:"max_score"`
	AvgScore         float64 `json:"avg_score"`
}

// Curator runs the curation pipeline against the store.
type Curator struct {
	store    *store.Store
	detector *dedup.Detector
	scorer   *score.Scorer
	logger   *slog.Logger
}

// New creates a curator. A nil logger falls back to slog.Default.
func New(st *store.Store, detector *dedup.Detector, scorer *score.Scorer, logger *slog.Logger) *Curator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Curator{
		store:    st,
		detector: detector,
		scorer:   scorer,
		logger:   logger,
	}
}

// Run executes one curation pass:
//
//  1. Deduplicate (before scoring, so merged records are not double-counted
//     against the queue cap).
//  2. Fetch candidates in analyzing; with none, return a zero summary
//     without touching scores.
//  3. Score every fetched candidate and persist each score.
//  4. Compute available review slots fresh (humans may have cleared the
//     queue since the last pass).
//  5. Promote qualifying candidates in descending score order until slots
//     run out; the rest stay in analyzing for a future pass.
func (c *Curator) Run(ctx context.Context, opts Options) (*Summary, error) {
	dedupSummary, err := c.detector.Run(ctx, opts.AutoMerge)
	if err != nil {
		return nil, fmt.Errorf("deduplicate: %w", err)
	}
	for _, mergeErr := range dedupSummary.MergeErrors {
		c.logger.Warn("duplicate group merge rolled back",
			slog.Int64("canonical_id", mergeErr.CanonicalID),
			slog.Any("error", mergeErr.Err))
	}

	summary := &Summary{
		DuplicatesFound:  dedupSummary.DuplicatesFound,
		DuplicatesMerged: dedupSummary.Merged,
	}

	candidates, err := c.store.CandidatesByStatus(ctx, model.StatusAnalyzing)
	if err != nil {
		return nil, fmt.Errorf("list analyzing candidates: %w", err)
	}
	if len(candidates) == 0 {
		return summary, nil
	}

	results := make([]*score.Result, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := c.scorer.Score(ctx, candidate.ID)
		if err != nil {
			return nil, fmt.Errorf("score candidate %d: %w", candidate.ID, err)
		}
		if err := c.store.SetScore(ctx, candidate.ID, result.Relevance); err != nil {
			return nil, fmt.Errorf("persist score for %d: %w", candidate.ID, err)
		}
		results = append(results, result)
	}
	summary.Scored = len(results)

	reviewCount, err := c.store.CountByStatus(ctx, model.StatusReview)
	if err != nil {
		return nil, fmt.Errorf("count review queue: %w", err)
	}
	availableSlots := opts.MaxReviewQueue - reviewCount
	if availableSlots < 0 {
		availableSlots = 0
	}

	// Stable sort: ties keep original fetch order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	summary.MinScore = results[len(results)-1].Relevance
	summary.MaxScore = results[0].Relevance
	sum := 0.0
	for _, result := range results {
		sum += result.Relevance
	}
	summary.AvgScore = sum / float64(len(results))

	for _, result := range results {
		if result.Relevance < opts.MinRelevance {
			summary.BelowThreshold++
			continue
		}
		if availableSlots <= 0 {
			// Qualifies but the queue is full; stays in analyzing and is
			// reconsidered next pass.
			continue
		}
		if err := c.store.UpdateStatus(ctx, result.CandidateID, model.StatusReview, ""); err != nil {
			return nil, fmt.Errorf("promote candidate %d: %w", result.CandidateID, err)
		}
		availableSlots--
		summary.Promoted++
	}

	c.logger.Info("curation pass complete",
		slog.Int("scored", summary.Scored),
		slog.Int("promoted", summary.Promoted),
		slog.Int("below_threshold", summary.BelowThreshold),
		slog.Int("duplicates_merged", summary.DuplicatesMerged))

	return summary, nil
}
