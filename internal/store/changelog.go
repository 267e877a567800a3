package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prospector/internal/model"
)

const changeColumns = "id, candidate_id, change_type, description, source_url, detected_at"

// AppendChangeEvent writes an immutable changelog row.
func (s *Store) AppendChangeEvent(ctx context.Context, candidateID int64, changeType model.ChangeType, description, sourceURL string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO changelog (candidate_id, change_type, description, source_url, detected_at)
         VALUES (?, ?, ?, ?, ?)
         RETURNING id`,
		candidateID,
		changeType,
		description,
		nullableString(sourceURL),
		timestamp(time.Now()),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert change event: %w", err)
	}
	return id, nil
}

// RecentChanges returns changelog rows detected on or after since, newest
// first, capped at limit.
func (s *Store) RecentChanges(ctx context.Context, since time.Time, limit int) ([]*model.ChangeEvent, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+changeColumns+` FROM changelog WHERE detected_at >= ? ORDER BY detected_at DESC, id DESC LIMIT ?`,
		timestamp(since),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query changelog: %w", err)
	}
	defer rows.Close()

	var events []*model.ChangeEvent
	for rows.Next() {
		event, err := scanChangeEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ChangesForCandidate returns every changelog row for a candidate ordered
// by detection time.
func (s *Store) ChangesForCandidate(ctx context.Context, candidateID int64) ([]*model.ChangeEvent, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+changeColumns+` FROM changelog WHERE candidate_id = ? ORDER BY detected_at, id`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("query candidate changelog: %w", err)
	}
	defer rows.Close()

	var events []*model.ChangeEvent
	for rows.Next() {
		event, err := scanChangeEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanChangeEvent(scanner interface{ Scan(dest ...any) error }) (*model.ChangeEvent, error) {
	var (
		id          int64
		candidateID int64
		changeType  string
		description string
		sourceURL   sql.NullString
		detectedRaw string
	)

	if err := scanner.Scan(&id, &candidateID, &changeType, &description, &sourceURL, &detectedRaw); err != nil {
		return nil, err
	}

	event := &model.ChangeEvent{
		ID:          id,
		CandidateID: candidateID,
		Type:        model.ChangeType(changeType),
		Description: description,
		SourceURL:   sourceURL.String,
	}
	if detected, err := parseTimeString(detectedRaw); err == nil {
		event.DetectedAt = detected
	}
	return event, nil
}
