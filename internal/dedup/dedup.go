// Package dedup detects and merges candidates that denote the same product.
package dedup

import (
	"context"
	"errors"
	"fmt"

	"prospector/internal/store"
)

// Group is one set of candidates denoting the same product. The canonical
// candidate is the lowest-id member found by the greedy scan.
type Group struct {
	CanonicalID    int64     `json:"canonical_id"`
	CanonicalName  string    `json:"canonical_name"`
	DuplicateIDs   []int64   `json:"duplicate_ids"`
	DuplicateNames []string  `json:"duplicate_names"`
	Similarities   []float64 `json:"similarities"`
}

// MergeError reports a failed group merge. The group's reassignments were
// rolled back as a unit; merges of other groups proceed independently.
type MergeError struct {
	CanonicalID int64
	Err         error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge group (canonical %d): %v", e.CanonicalID, e.Err)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}

// Summary reports the outcome of one deduplication run.
type Summary struct {
	GroupsFound     int           `json:"groups_found"`
	DuplicatesFound int           `json:"duplicates_found"`
	Merged          int           `json:"merged"`
	Groups          []Group       `json:"groups"`
	MergeErrors     []*MergeError `json:"-"`
}

// Detector finds duplicate candidate groups.
type Detector struct {
	store         *store.Store
	nameThreshold float64
	urlThreshold  float64
}

// NewDetector creates a detector with the given similarity thresholds.
func NewDetector(st *store.Store, nameThreshold, urlThreshold float64) *Detector {
	return &Detector{
		store:         st,
		nameThreshold: nameThreshold,
		urlThreshold:  urlThreshold,
	}
}

// FindDuplicates scans all candidates ordered by id and returns disjoint
// duplicate groups.
//
// The grouping is a single greedy left-to-right pass: the first not-yet-
// grouped candidate becomes canonical for its group, later candidates that
// match it join and are consumed, and consumed candidates are never
// re-evaluated. The pass is not a transitive-closure clustering: A~B and
// B~C does not put A and C in one group when they fall below threshold
// on their own.
func (d *Detector) FindDuplicates(ctx context.Context) ([]Group, error) {
	candidates, err := d.store.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) < 2 {
		return nil, nil
	}

	grouped := make(map[int64]struct{})
	var groups []Group

	for i, first := range candidates {
		if _, ok := grouped[first.ID]; ok {
			continue
		}

		nameA := NormalizeName(first.Name)
		urlA := NormalizeURL(first.URL)

		var group Group
		for _, other := range candidates[i+1:] {
			if _, ok := grouped[other.ID]; ok {
				continue
			}

			nameB := NormalizeName(other.Name)
			urlB := NormalizeURL(other.URL)

			nameSim := Similarity(nameA, nameB)
			urlSim := 0.0
			if urlA != "" && urlB != "" {
				urlSim = Similarity(urlA, urlB)
			}

			if nameSim >= d.nameThreshold || urlSim >= d.urlThreshold {
				group.DuplicateIDs = append(group.DuplicateIDs, other.ID)
				group.DuplicateNames = append(group.DuplicateNames, other.Name)
				group.Similarities = append(group.Similarities, maxFloat(nameSim, urlSim))
				grouped[other.ID] = struct{}{}
			}
		}

		if len(group.DuplicateIDs) > 0 {
			group.CanonicalID = first.ID
			group.CanonicalName = first.Name
			grouped[first.ID] = struct{}{}
			groups = append(groups, group)
		}
	}

	return groups, nil
}

// Merge collapses one group into its canonical candidate. Claim and mention
// re-parenting and duplicate deletion commit together or not at all.
func (d *Detector) Merge(ctx context.Context, group Group) error {
	if err := d.store.MergeGroup(ctx, group.CanonicalID, group.DuplicateIDs); err != nil {
		return &MergeError{CanonicalID: group.CanonicalID, Err: err}
	}
	return nil
}

// Run finds duplicate groups and, when autoMerge is set, merges each one.
// A failed merge rolls back only its own group; remaining groups still
// merge.
func (d *Detector) Run(ctx context.Context, autoMerge bool) (*Summary, error) {
	groups, err := d.FindDuplicates(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		GroupsFound: len(groups),
		Groups:      groups,
	}
	for _, group := range groups {
		summary.DuplicatesFound += len(group.DuplicateIDs)
	}

	if autoMerge {
		for _, group := range groups {
			if err := d.Merge(ctx, group); err != nil {
				var mergeErr *MergeError
				if errors.As(err, &mergeErr) {
					summary.MergeErrors = append(summary.MergeErrors, mergeErr)
					continue
				}
				return summary, err
			}
			summary.Merged += len(group.DuplicateIDs)
		}
	}

	return summary, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
