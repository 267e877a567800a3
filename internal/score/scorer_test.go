package score

import (
	"math"
	"testing"

	"prospector/internal/model"
)

func claim(feedID int64, content string, confidence float64) *model.Claim {
	return &model.Claim{FeedID: feedID, Content: content, Confidence: confidence}
}

func TestScoreZeroClaims(t *testing.T) {
	candidate := &model.Candidate{ID: 1, Category: "prospecting"}

	result := scoreCandidate(candidate, nil)

	// Only the category base applies: 1.0 * 0.3.
	if math.Abs(result.Relevance-0.3) > 1e-9 {
		t.Errorf("relevance = %v, want 0.3", result.Relevance)
	}
	if result.ClaimCount != 0 || result.FeedCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", result.ClaimCount, result.FeedCount)
	}
}

func TestScoreUnknownCategoryFallsBack(t *testing.T) {
	for _, category := range []string{"", "unheard-of"} {
		candidate := &model.Candidate{ID: 1, Category: category}
		result := scoreCandidate(candidate, nil)
		if math.Abs(result.Relevance-0.09) > 1e-9 {
			t.Errorf("category %q: relevance = %v, want 0.09", category, result.Relevance)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	candidate := &model.Candidate{
		ID:          7,
		Category:    "outreach",
		Description: "AI cold email assistant for SDR teams",
	}
	claims := []*model.Claim{
		claim(1, "great for cold outreach and prospecting", 0.8),
		claim(2, "integrates with your CRM pipeline", 0.6),
	}

	first := scoreCandidate(candidate, claims)
	second := scoreCandidate(candidate, claims)

	if first.Relevance != second.Relevance {
		t.Fatalf("scores differ: %v vs %v", first.Relevance, second.Relevance)
	}
	if len(first.Reasons) != len(second.Reasons) {
		t.Fatalf("reason counts differ: %d vs %d", len(first.Reasons), len(second.Reasons))
	}
	for i := range first.Reasons {
		if first.Reasons[i] != second.Reasons[i] {
			t.Errorf("reason %d differs: %q vs %q", i, first.Reasons[i], second.Reasons[i])
		}
	}
}

func TestScoreStaysInRange(t *testing.T) {
	// Stack every bonus: top category, many high-confidence keyword-dense
	// claims across many feeds, keyword-rich description.
	candidate := &model.Candidate{
		ID:          2,
		Category:    "prospecting",
		Description: "SDR cold email prospecting lead gen outreach sales automation CRM pipeline AI",
	}
	var claims []*model.Claim
	for i := int64(1); i <= 8; i++ {
		claims = append(claims, claim(i, "SDR cold email prospecting lead generation outreach sales automation sales engagement CRM pipeline quota AI workflow", 1.0))
	}

	result := scoreCandidate(candidate, claims)
	if result.Relevance < 0 || result.Relevance > 1 {
		t.Fatalf("relevance %v out of [0,1]", result.Relevance)
	}
	if result.Relevance != 1.0 {
		t.Errorf("fully stacked candidate should clamp to 1.0, got %v", result.Relevance)
	}
}

func TestScoreClaimVolumeCapped(t *testing.T) {
	candidate := &model.Candidate{ID: 3, Category: "other"}

	// Ten bland claims from one feed: base 0.09 + capped volume bonus 0.2
	// + confidence bonus 0.5*0.15.
	var claims []*model.Claim
	for i := 0; i < 10; i++ {
		claims = append(claims, claim(1, "nothing notable", 0.5))
	}

	result := scoreCandidate(candidate, claims)
	want := 0.09 + 0.2 + 0.075
	if math.Abs(result.Relevance-want) > 1e-9 {
		t.Errorf("relevance = %v, want %v", result.Relevance, want)
	}
}

func TestScoreMultiFeedBonus(t *testing.T) {
	candidate := &model.Candidate{ID: 4, Category: "other"}

	single := scoreCandidate(candidate, []*model.Claim{
		claim(1, "plain", 0.5),
		claim(1, "plain", 0.5),
	})
	multi := scoreCandidate(candidate, []*model.Claim{
		claim(1, "plain", 0.5),
		claim(2, "plain", 0.5),
	})

	if multi.Relevance <= single.Relevance {
		t.Errorf("claims across feeds should outscore one feed: %v vs %v", multi.Relevance, single.Relevance)
	}
	if multi.FeedCount != 2 {
		t.Errorf("feed count = %d, want 2", multi.FeedCount)
	}
}

func TestScoreKeywordTiers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"high signal", "best tool for cold email", highSignalWeight},
		{"medium signal", "syncs your CRM records", mediumSignalWeight},
		{"low signal", "an AI product", lowSignalWeight},
		{"capped", "SDR BDR sales rep cold email prospecting lead gen outreach sales automation sales engagement", keywordCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := scoreKeywords(tt.text)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scoreKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
