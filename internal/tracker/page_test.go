package tracker

import (
	"strings"
	"testing"
)

const samplePage = `<html>
<head>
  <title>Instantly - Cold Email Outreach</title>
  <style>body { color: red }</style>
  <script>console.log("ignore me")</script>
</head>
<body>
  <h1>Instantly</h1>
  <p>Pricing: the Growth plan starts at $37/mo, Pro plan at $97/mo.</p>
  <ul>
    <li>• Unlimited email warmup</li>
    <li>• Campaign analytics</li>
  </ul>
  <noscript>enable javascript</noscript>
</body>
</html>`

func TestParsePageExtractsTitleAndText(t *testing.T) {
	page, err := ParsePage(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if page.Title != "Instantly - Cold Email Outreach" {
		t.Errorf("title = %q", page.Title)
	}
	if strings.Contains(page.Text, "ignore me") {
		t.Error("script content must not appear in visible text")
	}
	if strings.Contains(page.Text, "color: red") {
		t.Error("style content must not appear in visible text")
	}
	if strings.Contains(page.Text, "enable javascript") {
		t.Error("noscript content must not appear in visible text")
	}
	if !strings.Contains(page.Text, "Unlimited email warmup") {
		t.Error("body text missing from extraction")
	}
}

func TestParsePageExtractsPricing(t *testing.T) {
	page, err := ParsePage(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !strings.Contains(page.PricingText, "$37/mo") {
		t.Errorf("pricing text = %q, want it to include $37/mo", page.PricingText)
	}
	if page.FeaturesText == "" {
		t.Error("expected bullet items to yield features text")
	}
}

func TestParsePageHashIsStable(t *testing.T) {
	first, err := ParsePage(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := ParsePage(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if first.ContentHash != second.ContentHash {
		t.Errorf("hash differs for identical input: %s vs %s", first.ContentHash, second.ContentHash)
	}

	changed, err := ParsePage(strings.Replace(samplePage, "$37/mo", "$49/mo", 1))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if changed.ContentHash == first.ContentHash {
		t.Error("hash must change when visible text changes")
	}
}

func TestParsePageScriptOnlyChangeKeepsHash(t *testing.T) {
	first, err := ParsePage(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	scriptChanged, err := ParsePage(strings.Replace(samplePage, `console.log("ignore me")`, `console.log("still ignored")`, 1))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if first.ContentHash != scriptChanged.ContentHash {
		t.Error("invisible-only changes must not move the content hash")
	}
}

func TestExtractMatchesDeduplicatesAndCaps(t *testing.T) {
	text := strings.Repeat("$10 ", 5) + "$20 $30 $40 $50 $60 $70 $80 $90 $100 $110 $120"
	got := extractMatches(text, pricingPatterns)

	parts := strings.Split(got, " | ")
	if len(parts) > maxExtractMatches {
		t.Errorf("matches = %d, want at most %d", len(parts), maxExtractMatches)
	}

	seen := map[string]int{}
	for _, part := range parts {
		seen[part]++
	}
	if seen["$10"] > 1 {
		t.Error("repeated matches must be deduplicated")
	}
}
