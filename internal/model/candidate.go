package model

import (
	"strings"
	"time"
)

// Status represents a candidate's position in the review pipeline
type Status string

const (
	StatusInbox     Status = "inbox"     // Freshly extracted, not yet analyzed
	StatusAnalyzing Status = "analyzing" // Accumulating claims, eligible for scoring
	StatusReview    Status = "review"    // Promoted, waiting for a human decision
	StatusApproved  Status = "approved"  // Accepted; tracked for page changes
	StatusRejected  Status = "rejected"  // Declined, with an optional reason
)

var allStatuses = []Status{
	StatusInbox,
	StatusAnalyzing,
	StatusReview,
	StatusApproved,
	StatusRejected,
}

// AllStatuses returns the ordered list of known pipeline statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// IsDecision reports whether a status represents a human review decision.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// CategoryOther is the fallback bucket for candidates outside the taxonomy.
const CategoryOther = "other"

// Categories is the fixed candidate taxonomy.
var Categories = []string{
	"prospecting",
	"outreach",
	"enrichment",
	"conversation",
	"crm",
	"scheduling",
	"analytics",
	"coaching",
	CategoryOther,
}

// NormalizeCategory maps free-form category strings onto the taxonomy,
// falling back to "other" for anything unknown.
func NormalizeCategory(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, category := range Categories {
		if category == normalized {
			return category
		}
	}
	return CategoryOther
}

// Candidate is a product record moving through the pipeline. The URL is the
// natural key: intake collisions on URL are treated as the same candidate.
type Candidate struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category,omitempty"`
	Status          Status     `json:"status"`
	RelevanceScore  *float64   `json:"relevance_score,omitempty"` // nil until scored
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
}
