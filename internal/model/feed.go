package model

import "time"

// Reliability grades how trustworthy a feed's mentions tend to be
type Reliability string

const (
	ReliabilityAuthoritative Reliability = "authoritative"
	ReliabilityHigh          Reliability = "high"
	ReliabilityMedium        Reliability = "medium"
	ReliabilityLow           Reliability = "low"
	ReliabilityUnrated       Reliability = "unrated"
)

// Feed is an external source of raw mentions. The core treats feeds as
// read-only except for the mention counters, which the extraction step
// increments as mentions are processed.
type Feed struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	URL            string      `json:"url,omitempty"`
	Reliability    Reliability `json:"reliability"`
	TotalMentions  int64       `json:"total_mentions"`
	UsefulMentions int64       `json:"useful_mentions"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Mention is a raw feed finding awaiting extraction. Once the analyzer has
// shaped it into candidates and claims it is marked processed and linked to
// the first candidate it produced.
type Mention struct {
	ID          int64     `json:"id"`
	FeedID      int64     `json:"feed_id"`
	SourceURL   string    `json:"source_url"`
	RawText     string    `json:"raw_text"`
	Metadata    string    `json:"metadata,omitempty"` // JSON blob (upvotes, author, ...)
	Processed   bool      `json:"processed"`
	CandidateID *int64    `json:"candidate_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
