package model

import "time"

// ChangeType classifies a detected difference between two page snapshots
type ChangeType string

const (
	ChangeNew           ChangeType = "new"            // Candidate entered the catalog (approval)
	ChangePricing       ChangeType = "pricing_change" // Extracted pricing text differs
	ChangeFeatureAdded  ChangeType = "feature_added"  // Extracted feature text differs
	ChangeContentUpdate ChangeType = "content_change" // Fingerprint changed, nothing specific
	ChangeNews          ChangeType = "news"           // Page title changed
)

// ChangeEvent is an immutable changelog row: once written it is never
// mutated or deleted.
type ChangeEvent struct {
	ID          int64      `json:"id"`
	CandidateID int64      `json:"candidate_id"`
	Type        ChangeType `json:"change_type"`
	Description string     `json:"description"`
	SourceURL   string     `json:"source_url,omitempty"`
	DetectedAt  time.Time  `json:"detected_at"`
}

// Snapshot is one page fetch of an approved candidate. Snapshots are
// append-only; change detection always compares against the most recent
// prior row for the candidate.
type Snapshot struct {
	ID           int64     `json:"id"`
	CandidateID  int64     `json:"candidate_id"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	ContentHash  string    `json:"content_hash"`
	PricingText  string    `json:"pricing_text,omitempty"`
	FeaturesText string    `json:"features_text,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}
