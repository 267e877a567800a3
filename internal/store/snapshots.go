package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prospector/internal/model"
)

const snapshotColumns = "id, candidate_id, url, title, content_hash, pricing_text, features_text, fetched_at"

// AppendSnapshot stores a page snapshot. Snapshots are append-only; history
// is never rewritten.
func (s *Store) AppendSnapshot(ctx context.Context, snap *model.Snapshot) (int64, error) {
	if snap == nil {
		return 0, errors.New("snapshot is nil")
	}
	var id int64
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO snapshots (candidate_id, url, title, content_hash, pricing_text, features_text, fetched_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         RETURNING id`,
		snap.CandidateID,
		snap.URL,
		nullableString(snap.Title),
		snap.ContentHash,
		nullableString(snap.PricingText),
		nullableString(snap.FeaturesText),
		timestamp(snap.FetchedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot for a candidate, or nil
// when none has been taken yet. Snapshots are append-only, so the highest
// id is the newest; the TEXT timestamps trim trailing fractional zeros
// and do not sort lexicographically.
func (s *Store) LatestSnapshot(ctx context.Context, candidateID int64) (*model.Snapshot, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE candidate_id = ? ORDER BY id DESC LIMIT 1`,
		candidateID,
	)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

// CountSnapshots returns the number of snapshots stored for a candidate.
func (s *Store) CountSnapshots(ctx context.Context, candidateID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM snapshots WHERE candidate_id = ?`, candidateID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return count, nil
}

func scanSnapshot(scanner interface{ Scan(dest ...any) error }) (*model.Snapshot, error) {
	var (
		id          int64
		candidateID int64
		url         string
		title       sql.NullString
		contentHash string
		pricing     sql.NullString
		features    sql.NullString
		fetchedRaw  string
	)

	if err := scanner.Scan(&id, &candidateID, &url, &title, &contentHash, &pricing, &features, &fetchedRaw); err != nil {
		return nil, err
	}

	snap := &model.Snapshot{
		ID:           id,
		CandidateID:  candidateID,
		URL:          url,
		Title:        title.String,
		ContentHash:  contentHash,
		PricingText:  pricing.String,
		FeaturesText: features.String,
	}
	if fetched, err := parseTimeString(fetchedRaw); err == nil {
		snap.FetchedAt = fetched
	}
	return snap, nil
}
