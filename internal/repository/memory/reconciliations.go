package memory

import (
	"context"

	"payment-settlement/internal/domain"
)

type reconciliations struct {
	s *Store
}

// ApplyMatch checks both versions before touching anything so a rejected commit
// leaves the store unchanged.
func (r *reconciliations) ApplyMatch(_ context.Context, commit domain.MatchCommit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m := commit.Match

	entry, ok := r.s.entries[m.EntryID]
	if !ok {
		return &domain.NotFoundError{Entity: "bank statement entry", ID: m.EntryID}
	}
	if entry.Reconciled {
		return &domain.AlreadyReconciledError{Entity: "bank statement entry", ID: m.EntryID}
	}
	if entry.Version != commit.EntryVersion {
		return &domain.ConflictError{Entity: "bank statement entry", ID: m.EntryID}
	}

	rec, ok := r.s.receivables[m.ReceivableID]
	if !ok {
		return &domain.NotFoundError{Entity: "receivable", ID: m.ReceivableID}
	}
	if rec.Status == domain.ReceivableSettled {
		return &domain.AlreadyReconciledError{Entity: "receivable", ID: m.ReceivableID}
	}
	if rec.Version != commit.ReceivableVersion || !allowed(rec.Status, commit.AllowedStatuses) {
		return &domain.ConflictError{Entity: "receivable", ID: m.ReceivableID}
	}

	for _, existing := range r.s.matches {
		if existing.EntryID == m.EntryID || existing.ReceivableID == m.ReceivableID {
			return &domain.ConflictError{Entity: "reconciliation match", ID: m.EntryID}
		}
	}

	now := r.s.now()

	ref := rec.ID
	entry.Reconciled = true
	entry.MatchedReceivableRef = &ref
	entry.Version++
	entry.UpdatedAt = now

	settledAt := m.CreatedAt
	rec.Status = domain.ReceivableSettled
	rec.SettledAt = &settledAt
	rec.Version++
	rec.UpdatedAt = now

	r.s.entries[entry.ID] = entry
	r.s.receivables[rec.ID] = rec
	r.s.matches = append(r.s.matches, m)
	return nil
}

func allowed(status domain.ReceivableStatus, statuses []domain.ReceivableStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (r *reconciliations) CreateRun(_ context.Context, run *domain.ReconciliationRun) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.runs[run.ID]; ok {
		return &domain.ConflictError{Entity: "reconciliation run", ID: run.ID}
	}
	r.s.runs[run.ID] = copyRun(*run)
	return nil
}

func (r *reconciliations) UpdateRun(_ context.Context, run *domain.ReconciliationRun) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.runs[run.ID]; !ok {
		return &domain.NotFoundError{Entity: "reconciliation run", ID: run.ID}
	}
	r.s.runs[run.ID] = copyRun(*run)
	return nil
}

func (r *reconciliations) GetRun(_ context.Context, id string) (*domain.ReconciliationRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	run, ok := r.s.runs[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "reconciliation run", ID: id}
	}
	c := copyRun(run)
	c.Matches = r.matchesByRunLocked(id)
	return &c, nil
}

func (r *reconciliations) ListMatchesByRun(_ context.Context, runID string) ([]domain.ReconciliationMatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.matchesByRunLocked(runID), nil
}

func (r *reconciliations) matchesByRunLocked(runID string) []domain.ReconciliationMatch {
	out := []domain.ReconciliationMatch{}
	for _, m := range r.s.matches {
		if m.RunID == runID {
			out = append(out, m)
		}
	}
	return out
}

func copyRun(run domain.ReconciliationRun) domain.ReconciliationRun {
	c := run
	c.Matches = nil
	c.Pending = append([]domain.PendingEntry{}, run.Pending...)
	c.Failures = append([]domain.EntryFailure{}, run.Failures...)
	return c
}
