package store

import (
	"context"
	"fmt"
	"time"
)

// MergeGroup collapses a duplicate group into its canonical candidate.
// Claims and mentions owned by each duplicate are re-parented to the
// canonical id and the duplicate rows are deleted, all in one transaction:
// either the whole group merges or none of it does, so claims are never
// orphaned.
func (s *Store) MergeGroup(ctx context.Context, canonicalID int64, duplicateIDs []int64) error {
	if len(duplicateIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp(time.Now())
	for _, dupID := range duplicateIDs {
		if dupID == canonicalID {
			return fmt.Errorf("%w: candidate %d cannot be merged into itself", ErrValidation, dupID)
		}
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE claims SET candidate_id = ? WHERE candidate_id = ?`,
			canonicalID, dupID,
		); err != nil {
			return fmt.Errorf("reparent claims of %d: %w", dupID, err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE mentions SET candidate_id = ? WHERE candidate_id = ?`,
			canonicalID, dupID,
		); err != nil {
			return fmt.Errorf("reparent mentions of %d: %w", dupID, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, dupID)
		if err != nil {
			return fmt.Errorf("delete duplicate %d: %w", dupID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("duplicate candidate %d: %w", dupID, ErrNotFound)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE candidates SET updated_at = ? WHERE id = ?`,
		now, canonicalID,
	); err != nil {
		return fmt.Errorf("touch canonical %d: %w", canonicalID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}
