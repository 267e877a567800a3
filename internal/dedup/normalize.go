package dedup

import (
	"regexp"
	"strings"
)

var (
	nameSuffixPattern = regexp.MustCompile(`\.(io|ai|com|co|app)$`)
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9]`)
	schemePattern     = regexp.MustCompile(`^https?://`)
)

// NormalizeName prepares a candidate name for comparison: lowercase, strip
// common TLD-like suffixes, strip all non-alphanumerics.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = nameSuffixPattern.ReplaceAllString(normalized, "")
	normalized = nonAlnumPattern.ReplaceAllString(normalized, "")
	return normalized
}

// NormalizeURL prepares a URL for comparison: lowercase, strip scheme,
// strip leading "www.", strip trailing slash.
func NormalizeURL(url string) string {
	if url == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(url))
	normalized = schemePattern.ReplaceAllString(normalized, "")
	normalized = strings.TrimPrefix(normalized, "www.")
	normalized = strings.TrimRight(normalized, "/")
	return normalized
}

// Similarity computes the longest-matching-blocks ratio between two
// normalized strings: twice the total matched characters over the combined
// length. Empty input on either side scores zero.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	matched := matchingBlockTotal(a, b)
	return 2 * float64(matched) / float64(len(a)+len(b))
}

// matchingBlockTotal sums matched characters by finding the longest common
// substring and recursing into the unmatched regions on each side.
func matchingBlockTotal(a, b string) int {
	size, ai, bi := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlockTotal(a[:ai], b[:bi])
	total += matchingBlockTotal(a[ai+size:], b[bi+size:])
	return total
}

func longestMatch(a, b string) (size, ai, bi int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
				if cur[j+1] > size {
					size = cur[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				cur[j+1] = 0
			}
		}
		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}
	return size, ai, bi
}
