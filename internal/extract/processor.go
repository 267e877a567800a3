package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"prospector/internal/model"
	"prospector/internal/store"
)

const maxClaimRawText = 500

// Summary reports one extraction pass over the mention queue.
type Summary struct {
	Processed  int `json:"processed"`
	Candidates int `json:"tools_extracted"`
	Claims     int `json:"claims_extracted"`
	Errors     int `json:"errors"`
}

// Processor drains unprocessed mentions through an Analyzer and stores
// the extracted candidates and claims.
type Processor struct {
	store    *store.Store
	analyzer Analyzer
	logger   *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(st *store.Store, analyzer Analyzer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: st, analyzer: analyzer, logger: logger}
}

// Run analyzes up to limit unprocessed mentions. Mentions whose
// analysis fails stay unprocessed and are retried on the next pass.
func (p *Processor) Run(ctx context.Context, limit int) (*Summary, error) {
	mentions, err := p.store.UnprocessedMentions(ctx, limit)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, mention := range mentions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		analysis := p.analyzer.Analyze(ctx, mention)
		summary.Processed++

		if analysis.Err != nil {
			summary.Errors++
			p.logger.Warn("analysis failed", "mention_id", mention.ID, "error", analysis.Err)
			continue
		}

		if err := p.save(ctx, mention, analysis, summary); err != nil {
			return summary, fmt.Errorf("save analysis for mention %d: %w", mention.ID, err)
		}
	}

	p.logger.Info("extraction complete",
		"processed", summary.Processed,
		"candidates", summary.Candidates,
		"claims", summary.Claims,
		"errors", summary.Errors)

	return summary, nil
}

// save persists one analysis: candidates enter as analyzing, claims
// attach to the candidate they name, feed counters record whether the
// mention produced anything.
func (p *Processor) save(ctx context.Context, mention *model.Mention, analysis *Analysis, summary *Summary) error {
	rawText := mention.RawText
	if len(rawText) > maxClaimRawText {
		rawText = rawText[:maxClaimRawText]
	}

	var firstCandidateID *int64
	for _, extracted := range analysis.Candidates {
		if extracted.URL == "" {
			continue
		}

		candidateID, err := p.store.AddCandidate(
			ctx,
			extracted.Name,
			extracted.URL,
			extracted.Description,
			model.NormalizeCategory(extracted.Category),
			model.StatusAnalyzing,
		)
		if err != nil {
			return fmt.Errorf("add candidate %q: %w", extracted.Name, err)
		}
		summary.Candidates++
		if firstCandidateID == nil {
			id := candidateID
			firstCandidateID = &id
		}

		for _, claim := range analysis.Claims {
			if !strings.EqualFold(claim.CandidateName, extracted.Name) {
				continue
			}
			_, err := p.store.AddClaim(
				ctx,
				candidateID,
				mention.FeedID,
				model.ParseClaimType(claim.ClaimType),
				claim.Content,
				claim.Confidence,
				rawText,
			)
			if err != nil {
				return fmt.Errorf("add claim for %q: %w", extracted.Name, err)
			}
			summary.Claims++
		}
	}

	if err := p.store.IncrementFeedStats(ctx, mention.FeedID, firstCandidateID != nil); err != nil {
		return fmt.Errorf("update feed stats: %w", err)
	}

	return p.store.MarkMentionProcessed(ctx, mention.ID, firstCandidateID)
}
