// Package lifecycle governs candidate status transitions and their side
// effects.
package lifecycle

import (
	"context"
	"fmt"

	"prospector/internal/model"
	"prospector/internal/store"
)

// Machine applies status transitions. The conventional flow is
// inbox → analyzing → review → approved/rejected, but any valid target
// status is accepted: transitions are invoked by name, humans and the
// orchestrator both drive them.
type Machine struct {
	store *store.Store
}

// New creates a state machine over the given store.
func New(st *store.Store) *Machine {
	return &Machine{store: st}
}

// SetStatus moves a candidate to the named status.
//
// Side effects: entering approved or rejected stamps the review timestamp;
// a rejection reason is stored only with rejected; entering approved
// appends a "new" change event to the changelog, which is what later
// exposes the candidate to the update tracker.
func (m *Machine) SetStatus(ctx context.Context, candidateID int64, status model.Status, reason string) error {
	parsed, ok := model.ParseStatus(string(status))
	if !ok {
		return fmt.Errorf("%w: unknown status %q", store.ErrValidation, status)
	}

	candidate, err := m.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return err
	}

	if err := m.store.UpdateStatus(ctx, candidateID, parsed, reason); err != nil {
		return err
	}

	if parsed == model.StatusApproved {
		description := fmt.Sprintf("%s added to the catalog", candidate.Name)
		if _, err := m.store.AppendChangeEvent(ctx, candidateID, model.ChangeNew, description, candidate.URL); err != nil {
			return fmt.Errorf("record approval: %w", err)
		}
	}

	return nil
}

// Approve marks a candidate approved.
func (m *Machine) Approve(ctx context.Context, candidateID int64) error {
	return m.SetStatus(ctx, candidateID, model.StatusApproved, "")
}

// Reject marks a candidate rejected with an optional reason.
func (m *Machine) Reject(ctx context.Context, candidateID int64, reason string) error {
	return m.SetStatus(ctx, candidateID, model.StatusRejected, reason)
}
