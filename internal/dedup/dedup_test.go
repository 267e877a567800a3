package dedup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"prospector/internal/model"
	"prospector/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "dedup.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func add(t *testing.T, st *store.Store, name, url string) int64 {
	t.Helper()
	id, err := st.AddCandidate(context.Background(), name, url, "", "other", model.StatusAnalyzing)
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return id
}

func TestFindDuplicatesApolloExample(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := add(t, st, "Apollo.io", "https://apollo.io")
	second := add(t, st, "Apollo", "https://www.apollo.io/")
	add(t, st, "Clay", "https://clay.com")

	detector := NewDetector(st, 0.85, 0.90)
	groups, err := detector.FindDuplicates(ctx)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if groups[0].CanonicalID != first {
		t.Errorf("canonical = %d, want lower id %d", groups[0].CanonicalID, first)
	}
	if len(groups[0].DuplicateIDs) != 1 || groups[0].DuplicateIDs[0] != second {
		t.Errorf("duplicates = %v, want [%d]", groups[0].DuplicateIDs, second)
	}
}

func TestFindDuplicatesIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	add(t, st, "Lavender.ai", "https://lavender.ai")
	add(t, st, "Lavender", "https://www.lavender.ai/")
	add(t, st, "Instantly", "https://instantly.ai")

	detector := NewDetector(st, 0.85, 0.90)

	first, err := detector.FindDuplicates(ctx)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := detector.FindDuplicates(ctx)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("group counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].CanonicalID != second[i].CanonicalID {
			t.Errorf("group %d canonical differs: %d vs %d", i, first[i].CanonicalID, second[i].CanonicalID)
		}
	}
}

func TestRunMergesGroups(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	feed, err := st.FeedByName(ctx, "reddit")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}

	canonical := add(t, st, "Gong.io", "https://gong.io")
	duplicate := add(t, st, "Gong", "https://www.gong.io/")
	if _, err := st.AddClaim(ctx, canonical, feed.ID, model.ClaimTypeFeature, "call recording", 0.7, ""); err != nil {
		t.Fatalf("add claim: %v", err)
	}
	if _, err := st.AddClaim(ctx, duplicate, feed.ID, model.ClaimTypePricing, "enterprise pricing", 0.5, ""); err != nil {
		t.Fatalf("add claim: %v", err)
	}

	detector := NewDetector(st, 0.85, 0.90)
	summary, err := detector.Run(ctx, true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.GroupsFound != 1 || summary.Merged != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.MergeErrors) != 0 {
		t.Fatalf("unexpected merge errors: %v", summary.MergeErrors)
	}

	if _, err := st.GetCandidate(ctx, duplicate); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("duplicate should be deleted, got %v", err)
	}
	count, err := st.CountClaims(ctx, canonical)
	if err != nil {
		t.Fatalf("count claims: %v", err)
	}
	if count != 2 {
		t.Errorf("claims after merge = %d, want 2", count)
	}
}

func TestRunWithoutAutoMergeLeavesCandidates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	add(t, st, "Clay", "https://clay.com")
	dup := add(t, st, "Clay", "https://www.clay.com/")

	detector := NewDetector(st, 0.85, 0.90)
	summary, err := detector.Run(ctx, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.DuplicatesFound != 1 || summary.Merged != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := st.GetCandidate(ctx, dup); err != nil {
		t.Errorf("candidate should survive a detect-only run: %v", err)
	}
}

func TestGreedyGroupingConsumesMatches(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Three spellings of the same product: the greedy pass anchors the
	// group on the lowest id and consumes both later matches.
	a := add(t, st, "Outreach", "https://outreach.io")
	add(t, st, "Outreach.io", "https://www.outreach.io/")
	add(t, st, "outreach", "https://outreach.io/")

	detector := NewDetector(st, 0.85, 0.90)
	groups, err := detector.FindDuplicates(ctx)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if groups[0].CanonicalID != a {
		t.Errorf("canonical = %d, want %d", groups[0].CanonicalID, a)
	}
	if len(groups[0].DuplicateIDs) != 2 {
		t.Errorf("duplicates = %v, want 2 members", groups[0].DuplicateIDs)
	}
}
