package extract

import (
	"context"
	"path/filepath"
	"testing"

	"prospector/internal/logging"
	"prospector/internal/model"
	"prospector/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "extract.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestPatternAnalyzerFindsKnownProducts(t *testing.T) {
	analyzer := NewPatternAnalyzer()

	mention := &model.Mention{
		ID:      1,
		RawText: "We switched from ZoomInfo to Apollo because Apollo is way cheaper, like $49 a seat",
	}

	analysis := analyzer.Analyze(context.Background(), mention)
	if analysis.Err != nil {
		t.Fatalf("analyze: %v", analysis.Err)
	}

	names := map[string]ExtractedCandidate{}
	for _, candidate := range analysis.Candidates {
		names[candidate.Name] = candidate
	}
	if _, ok := names["Apollo"]; !ok {
		t.Error("expected Apollo to be extracted")
	}
	if _, ok := names["ZoomInfo"]; !ok {
		t.Error("expected ZoomInfo to be extracted")
	}
	if len(names) != len(analysis.Candidates) {
		t.Error("candidates must be unique per product")
	}

	var apolloClaim *ExtractedClaim
	for i := range analysis.Claims {
		if analysis.Claims[i].CandidateName == "Apollo" {
			apolloClaim = &analysis.Claims[i]
		}
	}
	if apolloClaim == nil {
		t.Fatal("expected a claim about Apollo")
	}
	if apolloClaim.ClaimType != string(model.ClaimTypePricing) {
		t.Errorf("claim type = %q, want pricing (context mentions price)", apolloClaim.ClaimType)
	}
}

func TestPatternAnalyzerNoMatches(t *testing.T) {
	analyzer := NewPatternAnalyzer()

	analysis := analyzer.Analyze(context.Background(), &model.Mention{ID: 2, RawText: "just talking about the weather"})
	if analysis.Err != nil {
		t.Fatalf("analyze: %v", analysis.Err)
	}
	if len(analysis.Candidates) != 0 || len(analysis.Claims) != 0 {
		t.Errorf("expected empty analysis, got %d candidates, %d claims", len(analysis.Candidates), len(analysis.Claims))
	}
}

func TestParseResponseExtractsEmbeddedJSON(t *testing.T) {
	response := `Sure, here is the extraction:
{
  "tools": [{"name": "Clay", "url": "https://clay.com", "category": "enrichment"}],
  "claims": [{"tool_name": "Clay", "claim_type": "feature", "content": "waterfall enrichment", "confidence": 0.8}]
}`

	analysis := parseResponse(9, response)
	if analysis.Err != nil {
		t.Fatalf("parse: %v", analysis.Err)
	}
	if len(analysis.Candidates) != 1 || analysis.Candidates[0].Name != "Clay" {
		t.Fatalf("candidates = %+v", analysis.Candidates)
	}
	if len(analysis.Claims) != 1 || analysis.Claims[0].Confidence != 0.8 {
		t.Fatalf("claims = %+v", analysis.Claims)
	}
}

func TestParseResponseDefaults(t *testing.T) {
	response := `{"tools": [{"name": "Clay", "url": "https://clay.com"}],
		"claims": [{"tool_name": "Clay", "content": "handy"}]}`

	analysis := parseResponse(9, response)
	if analysis.Err != nil {
		t.Fatalf("parse: %v", analysis.Err)
	}
	if analysis.Candidates[0].Category != model.CategoryOther {
		t.Errorf("missing category should default to other, got %q", analysis.Candidates[0].Category)
	}
	if analysis.Claims[0].ClaimType != string(model.ClaimTypeFeature) {
		t.Errorf("missing claim type should default to feature, got %q", analysis.Claims[0].ClaimType)
	}
	if analysis.Claims[0].Confidence != 0.5 {
		t.Errorf("missing confidence should default to 0.5, got %v", analysis.Claims[0].Confidence)
	}
}

func TestParseResponseRejectsNonJSON(t *testing.T) {
	analysis := parseResponse(9, "I could not find any tools in this post.")
	if analysis.Err == nil {
		t.Fatal("expected an error for a reply without JSON")
	}
}

func TestProcessorSavesCandidatesAndClaims(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	feed, err := st.FeedByName(ctx, "reddit")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	mentionID, err := st.AddMention(ctx, feed.ID, "https://reddit.com/r/sales/1", "Apollo beats ZoomInfo on price for SDR teams", "")
	if err != nil {
		t.Fatalf("add mention: %v", err)
	}

	processor := NewProcessor(st, NewPatternAnalyzer(), logging.NewNop())
	summary, err := processor.Run(ctx, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}
	if summary.Candidates != 2 {
		t.Errorf("candidates = %d, want 2 (Apollo, ZoomInfo)", summary.Candidates)
	}
	if summary.Errors != 0 {
		t.Errorf("errors = %d", summary.Errors)
	}

	analyzing, err := st.CandidatesByStatus(ctx, model.StatusAnalyzing)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if len(analyzing) != 2 {
		t.Fatalf("analyzing candidates = %d, want 2", len(analyzing))
	}
	for _, candidate := range analyzing {
		count, err := st.CountClaims(ctx, candidate.ID)
		if err != nil {
			t.Fatalf("count claims: %v", err)
		}
		if count == 0 {
			t.Errorf("candidate %s has no claims", candidate.Name)
		}
	}

	pending, err := st.UnprocessedMentions(ctx, 10)
	if err != nil {
		t.Fatalf("unprocessed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("mention %d should be marked processed", mentionID)
	}

	feed, err = st.FeedByName(ctx, "reddit")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed.TotalMentions != 1 || feed.UsefulMentions != 1 {
		t.Errorf("feed counters = %d/%d, want 1/1", feed.TotalMentions, feed.UsefulMentions)
	}
}

func TestProcessorCountsUselessMentions(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	feed, err := st.FeedByName(ctx, "twitter")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if _, err := st.AddMention(ctx, feed.ID, "", "no products here at all", ""); err != nil {
		t.Fatalf("add mention: %v", err)
	}

	processor := NewProcessor(st, NewPatternAnalyzer(), logging.NewNop())
	summary, err := processor.Run(ctx, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Candidates != 0 {
		t.Errorf("candidates = %d, want 0", summary.Candidates)
	}

	pending, err := st.UnprocessedMentions(ctx, 10)
	if err != nil {
		t.Fatalf("unprocessed: %v", err)
	}
	if len(pending) != 0 {
		t.Error("a useless mention is still processed")
	}

	feed, err = st.FeedByName(ctx, "twitter")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed.TotalMentions != 1 || feed.UsefulMentions != 0 {
		t.Errorf("feed counters = %d/%d, want 1/0", feed.TotalMentions, feed.UsefulMentions)
	}
}
