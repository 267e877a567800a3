package curator

import (
	"context"
	"path/filepath"
	"testing"

	"prospector/internal/dedup"
	"prospector/internal/logging"
	"prospector/internal/model"
	"prospector/internal/score"
	"prospector/internal/store"
)

func newTestCurator(t *testing.T) (*Curator, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "curator.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	detector := dedup.NewDetector(st, 0.85, 0.90)
	scorer := score.NewScorer(st)
	return New(st, detector, scorer, logging.NewNop()), st
}

// seedGraded inserts three analyzing candidates with clearly separated
// scores: one strong, one moderate, one below any sensible threshold.
func seedGraded(t *testing.T, st *store.Store) (high, mid, low int64) {
	t.Helper()
	ctx := context.Background()

	feed, err := st.FeedByName(ctx, "reddit")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}

	high, err = st.AddCandidate(ctx, "Apollo", "https://apollo.io", "", "prospecting", model.StatusAnalyzing)
	if err != nil {
		t.Fatalf("add high: %v", err)
	}
	if _, err := st.AddClaim(ctx, high, feed.ID, model.ClaimTypeFeature, "cold email prospecting at scale", 0.9, ""); err != nil {
		t.Fatalf("claim: %v", err)
	}

	mid, err = st.AddCandidate(ctx, "Fireflies", "https://fireflies.ai", "", "conversation", model.StatusAnalyzing)
	if err != nil {
		t.Fatalf("add mid: %v", err)
	}
	if _, err := st.AddClaim(ctx, mid, feed.ID, model.ClaimTypeFeature, "records meetings", 0.5, ""); err != nil {
		t.Fatalf("claim: %v", err)
	}

	low, err = st.AddCandidate(ctx, "Randomizer", "https://randomizer.example", "", "other", model.StatusAnalyzing)
	if err != nil {
		t.Fatalf("add low: %v", err)
	}
	return high, mid, low
}

func TestRunPromotesWithinCapacity(t *testing.T) {
	c, st := newTestCurator(t)
	ctx := context.Background()

	high, mid, low := seedGraded(t, st)

	summary, err := c.Run(ctx, Options{MinRelevance: 0.3, AutoMerge: true, MaxReviewQueue: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Scored != 3 {
		t.Errorf("scored = %d, want 3", summary.Scored)
	}
	if summary.Promoted != 2 {
		t.Errorf("promoted = %d, want 2", summary.Promoted)
	}
	if summary.BelowThreshold != 1 {
		t.Errorf("below threshold = %d, want 1", summary.BelowThreshold)
	}

	for _, id := range []int64{high, mid} {
		candidate, err := st.GetCandidate(ctx, id)
		if err != nil {
			t.Fatalf("get %d: %v", id, err)
		}
		if candidate.Status != model.StatusReview {
			t.Errorf("candidate %d status = %q, want review", id, candidate.Status)
		}
		if candidate.RelevanceScore == nil {
			t.Errorf("candidate %d score not persisted", id)
		}
	}

	candidate, err := st.GetCandidate(ctx, low)
	if err != nil {
		t.Fatalf("get low: %v", err)
	}
	if candidate.Status != model.StatusAnalyzing {
		t.Errorf("below-threshold candidate moved to %q", candidate.Status)
	}

	count, err := st.CountByStatus(ctx, model.StatusReview)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count > 2 {
		t.Errorf("review queue = %d, exceeds capacity 2", count)
	}
}

func TestRunPromotionIsScoreOrdered(t *testing.T) {
	c, st := newTestCurator(t)
	ctx := context.Background()

	high, mid, _ := seedGraded(t, st)

	summary, err := c.Run(ctx, Options{MinRelevance: 0.3, AutoMerge: true, MaxReviewQueue: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Promoted != 1 {
		t.Fatalf("promoted = %d, want 1", summary.Promoted)
	}

	promoted, err := st.GetCandidate(ctx, high)
	if err != nil {
		t.Fatalf("get high: %v", err)
	}
	if promoted.Status != model.StatusReview {
		t.Errorf("the one slot must go to the top scorer, high is %q", promoted.Status)
	}

	skipped, err := st.GetCandidate(ctx, mid)
	if err != nil {
		t.Fatalf("get mid: %v", err)
	}
	if skipped.Status != model.StatusAnalyzing {
		t.Errorf("qualifying candidate without a slot should stay analyzing, got %q", skipped.Status)
	}
}

func TestRunAccountsForOccupiedSlots(t *testing.T) {
	c, st := newTestCurator(t)
	ctx := context.Background()

	// One slot of two is already taken.
	occupied, err := st.AddCandidate(ctx, "Seated", "https://seated.example", "", "other", model.StatusReview)
	if err != nil {
		t.Fatalf("add occupied: %v", err)
	}
	_ = occupied

	seedGraded(t, st)

	summary, err := c.Run(ctx, Options{MinRelevance: 0.3, AutoMerge: true, MaxReviewQueue: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Promoted != 1 {
		t.Errorf("promoted = %d, want 1 (one slot free)", summary.Promoted)
	}
	count, err := st.CountByStatus(ctx, model.StatusReview)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count > 2 {
		t.Errorf("review queue = %d, exceeds capacity 2", count)
	}
}

func TestRunWithNoAnalyzingCandidates(t *testing.T) {
	c, _ := newTestCurator(t)

	summary, err := c.Run(context.Background(), Options{MinRelevance: 0.3, AutoMerge: true, MaxReviewQueue: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Scored != 0 || summary.Promoted != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestRunMergesDuplicatesBeforeScoring(t *testing.T) {
	c, st := newTestCurator(t)
	ctx := context.Background()

	a, err := st.AddCandidate(ctx, "Apollo.io", "https://apollo.io", "", "prospecting", model.StatusAnalyzing)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := st.AddCandidate(ctx, "Apollo", "https://www.apollo.io/", "", "prospecting", model.StatusAnalyzing)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	summary, err := c.Run(ctx, Options{MinRelevance: 0.9, AutoMerge: true, MaxReviewQueue: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.DuplicatesMerged != 1 {
		t.Errorf("merged = %d, want 1", summary.DuplicatesMerged)
	}
	if summary.Scored != 1 {
		t.Errorf("scored = %d, want 1 after merge", summary.Scored)
	}
	if _, err := st.GetCandidate(ctx, a); err != nil {
		t.Errorf("canonical should survive: %v", err)
	}
	if _, err := st.GetCandidate(ctx, b); err == nil {
		t.Error("duplicate should be gone after the pass")
	}
}
