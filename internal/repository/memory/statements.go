package memory

import (
	"context"
	"sort"

	"payment-settlement/internal/domain"
)

type statements struct {
	s *Store
}

func (r *statements) BulkCreate(_ context.Context, entries []domain.BankStatementEntry) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	inserted := 0
	for _, e := range entries {
		if _, ok := r.s.entries[e.ID]; ok {
			continue
		}
		e.Date = domain.DateOnly(e.Date)
		e.Reconciled = false
		e.MatchedReceivableRef = nil
		e.Version = 1
		e.CreatedAt = now
		e.UpdatedAt = now
		r.s.entries[e.ID] = e
		inserted++
	}
	return inserted, nil
}

func (r *statements) GetByID(_ context.Context, id string) (*domain.BankStatementEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "bank statement entry", ID: id}
	}
	return &e, nil
}

func (r *statements) GetUnreconciled(_ context.Context, accountID string, period domain.Period) ([]domain.BankStatementEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.BankStatementEntry
	for _, e := range r.s.entries {
		if e.AccountID == accountID && !e.Reconciled && period.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
