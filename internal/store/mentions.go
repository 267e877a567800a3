package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prospector/internal/model"
)

const mentionColumns = "id, feed_id, source_url, raw_text, metadata, processed, candidate_id, created_at"

// AddMention records a raw feed finding awaiting extraction.
func (s *Store) AddMention(ctx context.Context, feedID int64, sourceURL, rawText, metadata string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO mentions (feed_id, source_url, raw_text, metadata, created_at)
         VALUES (?, ?, ?, ?, ?)
         RETURNING id`,
		feedID,
		sourceURL,
		rawText,
		nullableString(metadata),
		timestamp(time.Now()),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert mention: %w", err)
	}
	return id, nil
}

// UnprocessedMentions returns the oldest mentions still awaiting extraction.
func (s *Store) UnprocessedMentions(ctx context.Context, limit int) ([]*model.Mention, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+mentionColumns+` FROM mentions WHERE processed = 0 ORDER BY id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []*model.Mention
	for rows.Next() {
		mention, err := scanMention(rows)
		if err != nil {
			return nil, err
		}
		mentions = append(mentions, mention)
	}
	return mentions, rows.Err()
}

// MarkMentionProcessed flags a mention as extracted, optionally linking the
// first candidate it produced.
func (s *Store) MarkMentionProcessed(ctx context.Context, mentionID int64, candidateID *int64) error {
	var link any
	if candidateID != nil {
		link = *candidateID
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE mentions SET processed = 1, candidate_id = ? WHERE id = ?`,
		link, mentionID,
	)
	if err != nil {
		return fmt.Errorf("mark mention processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mention %d: %w", mentionID, ErrNotFound)
	}
	return nil
}

func scanMention(scanner interface{ Scan(dest ...any) error }) (*model.Mention, error) {
	var (
		id          int64
		feedID      int64
		sourceURL   string
		rawText     string
		metadata    sql.NullString
		processed   int64
		candidateID sql.NullInt64
		createdRaw  string
	)

	if err := scanner.Scan(&id, &feedID, &sourceURL, &rawText, &metadata, &processed, &candidateID, &createdRaw); err != nil {
		return nil, err
	}

	mention := &model.Mention{
		ID:        id,
		FeedID:    feedID,
		SourceURL: sourceURL,
		RawText:   rawText,
		Metadata:  metadata.String,
		Processed: processed != 0,
	}
	if candidateID.Valid {
		v := candidateID.Int64
		mention.CandidateID = &v
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		mention.CreatedAt = created
	}
	return mention, nil
}
