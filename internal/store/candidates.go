package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prospector/internal/model"
)

const candidateColumns = "id, name, url, description, category, status, relevance_score, rejection_reason, created_at, updated_at, reviewed_at"

// AddCandidate inserts a candidate, or touches the existing row when the URL
// is already present. The URL is the natural key: intake collisions mean the
// same candidate. Returns the id of the row that now represents the URL.
func (s *Store) AddCandidate(ctx context.Context, name, url, description, category string, status model.Status) (int64, error) {
	if _, ok := model.ParseStatus(string(status)); !ok {
		return 0, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	now := timestamp(time.Now())

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO candidates (name, url, description, category, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(url) DO UPDATE SET updated_at = excluded.updated_at
         RETURNING id`,
		name,
		url,
		nullableString(description),
		nullableString(model.NormalizeCategory(category)),
		status,
		now,
		now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert candidate: %w", err)
	}
	return id, nil
}

// GetCandidate fetches a candidate by id, returning ErrNotFound when absent.
func (s *Store) GetCandidate(ctx context.Context, id int64) (*model.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return candidate, nil
}

// CandidatesByStatus returns candidates with the given status ordered by id.
func (s *Store) CandidatesByStatus(ctx context.Context, status model.Status) ([]*model.Candidate, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE status = ? ORDER BY id`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()

	var candidates []*model.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// ListCandidates returns all candidates ordered by id.
func (s *Store) ListCandidates(ctx context.Context) ([]*model.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*model.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// CountByStatus returns the number of candidates currently in a status.
func (s *Store) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM candidates WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count by status: %w", err)
	}
	return count, nil
}

// UpdateStatus moves a candidate to a new status. Entering approved or
// rejected stamps the review timestamp; a rejection reason is stored only
// alongside rejected.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status model.Status, reason string) error {
	if _, ok := model.ParseStatus(string(status)); !ok {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	now := timestamp(time.Now())

	var (
		res sql.Result
		err error
	)
	switch {
	case status == model.StatusRejected && reason != "":
		res, err = s.db.ExecContext(
			ctx,
			`UPDATE candidates SET status = ?, rejection_reason = ?, reviewed_at = ?, updated_at = ? WHERE id = ?`,
			status, reason, now, now, id,
		)
	case status.IsDecision():
		res, err = s.db.ExecContext(
			ctx,
			`UPDATE candidates SET status = ?, reviewed_at = ?, updated_at = ? WHERE id = ?`,
			status, now, now, id,
		)
	default:
		res, err = s.db.ExecContext(
			ctx,
			`UPDATE candidates SET status = ?, updated_at = ? WHERE id = ?`,
			status, now, id,
		)
	}
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireRow(res, id)
}

// SetScore persists a candidate's relevance score. Scores outside [0,1]
// are rejected before any write.
func (s *Store) SetScore(ctx context.Context, id int64, score float64) error {
	if score < 0 || score > 1 {
		return fmt.Errorf("%w: relevance score %.4f out of range [0,1]", ErrValidation, score)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE candidates SET relevance_score = ?, updated_at = ? WHERE id = ?`,
		score, timestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("set score: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanCandidate(scanner interface{ Scan(dest ...any) error }) (*model.Candidate, error) {
	var (
		id          int64
		name        string
		url         string
		description sql.NullString
		category    sql.NullString
		statusStr   string
		score       sql.NullFloat64
		reason      sql.NullString
		createdRaw  string
		updatedRaw  string
		reviewedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&url,
		&description,
		&category,
		&statusStr,
		&score,
		&reason,
		&createdRaw,
		&updatedRaw,
		&reviewedRaw,
	); err != nil {
		return nil, err
	}

	candidate := &model.Candidate{
		ID:              id,
		Name:            name,
		URL:             url,
		Description:     description.String,
		Category:        category.String,
		Status:          model.Status(statusStr),
		RejectionReason: reason.String,
	}
	if score.Valid {
		v := score.Float64
		candidate.RelevanceScore = &v
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		candidate.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		candidate.UpdatedAt = updated
	}
	if reviewedRaw.Valid {
		if reviewed, err := parseTimeString(reviewedRaw.String); err == nil {
			candidate.ReviewedAt = &reviewed
		}
	}
	return candidate, nil
}
