package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prospector/internal/model"
)

const claimColumns = "id, candidate_id, feed_id, claim_type, content, confidence, raw_text, created_at"

// AddClaim records a claim about a candidate, attributed to a feed.
func (s *Store) AddClaim(ctx context.Context, candidateID, feedID int64, claimType model.ClaimType, content string, confidence float64, rawText string) (int64, error) {
	if confidence < 0 || confidence > 1 {
		return 0, fmt.Errorf("%w: confidence %.4f out of range [0,1]", ErrValidation, confidence)
	}

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO claims (candidate_id, feed_id, claim_type, content, confidence, raw_text, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         RETURNING id`,
		candidateID,
		feedID,
		claimType,
		content,
		confidence,
		nullableString(rawText),
		timestamp(time.Now()),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert claim: %w", err)
	}
	return id, nil
}

// ClaimsForCandidate returns a candidate's claims ordered by id. The stable
// insertion order keeps repeat scoring deterministic.
func (s *Store) ClaimsForCandidate(ctx context.Context, candidateID int64) ([]*model.Claim, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+claimColumns+` FROM claims WHERE candidate_id = ? ORDER BY id`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var claims []*model.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// CountClaims returns the number of claims attached to a candidate.
func (s *Store) CountClaims(ctx context.Context, candidateID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM claims WHERE candidate_id = ?`, candidateID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}

func scanClaim(scanner interface{ Scan(dest ...any) error }) (*model.Claim, error) {
	var (
		id          int64
		candidateID int64
		feedID      int64
		claimType   string
		content     string
		confidence  float64
		rawText     sql.NullString
		createdRaw  string
	)

	if err := scanner.Scan(&id, &candidateID, &feedID, &claimType, &content, &confidence, &rawText, &createdRaw); err != nil {
		return nil, err
	}

	claim := &model.Claim{
		ID:          id,
		CandidateID: candidateID,
		FeedID:      feedID,
		Type:        model.ClaimType(claimType),
		Content:     content,
		Confidence:  confidence,
		RawText:     rawText.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		claim.CreatedAt = created
	}
	return claim, nil
}
