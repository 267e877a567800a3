package tracker

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Page is the parsed, comparable form of a fetched webpage.
type Page struct {
	Title        string
	Text         string
	ContentHash  string
	PricingText  string
	FeaturesText string
}

const maxExtractMatches = 10

var pricingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$[\d,]+(?:\.\d{2})?(?:\s*/?(?:mo|month|yr|year|user))?`),
	regexp.MustCompile(`(?i)(?:free|starter|pro|enterprise|business|team)\s*(?:plan|tier)?`),
	regexp.MustCompile(`(?i)(?:pricing|plans?|subscription)`),
}

var featurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:features?|capabilities|includes?):?\s*([^\n.]+)`),
	regexp.MustCompile(`(?i)(?:✓|✔|•)\s*([^\n]+)`),
}

// ParsePage extracts the title and visible text from raw HTML and
// derives the content hash plus pricing and feature extracts used for
// change detection.
func ParsePage(rawHTML string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var title string
	var parts []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")

	return &Page{
		Title:        title,
		Text:         text,
		ContentHash:  hashContent(text),
		PricingText:  extractMatches(text, pricingPatterns),
		FeaturesText: extractMatches(text, featurePatterns),
	}, nil
}

// hashContent fingerprints page text for change comparison. FNV is
// enough here since the hash is never used for security.
func hashContent(text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("%016x", h.Sum64())
}

// extractMatches collects unique pattern matches in document order,
// capped and joined for storage. Patterns with a capture group
// contribute the group, the rest contribute the whole match.
func extractMatches(text string, patterns []*regexp.Regexp) string {
	var matches []string
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			value := m[0]
			if len(m) > 1 && m[1] != "" {
				value = m[1]
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			matches = append(matches, value)
			if len(matches) >= maxExtractMatches {
				return strings.Join(matches, " | ")
			}
		}
	}

	return strings.Join(matches, " | ")
}
