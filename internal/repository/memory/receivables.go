package memory

import (
	"context"
	"sort"

	"payment-settlement/internal/domain"
)

type receivables struct {
	s *Store
}

func (r *receivables) BulkCreate(_ context.Context, recs []domain.Receivable) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	inserted := 0
	for _, rec := range recs {
		if _, ok := r.s.receivables[rec.ID]; ok {
			continue
		}
		rec.DueDate = domain.DateOnly(rec.DueDate)
		rec.Status = domain.ReceivablePending
		rec.SettledAt = nil
		rec.Version = 1
		rec.CreatedAt = now
		rec.UpdatedAt = now
		r.s.receivables[rec.ID] = rec
		inserted++
	}
	return inserted, nil
}

func (r *receivables) GetByID(_ context.Context, id string) (*domain.Receivable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.receivables[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "receivable", ID: id}
	}
	return &rec, nil
}

func (r *receivables) GetPendingByAccount(_ context.Context, accountID string) ([]domain.Receivable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Receivable
	for _, rec := range r.s.receivables {
		if rec.AccountID == accountID && rec.Status == domain.ReceivablePending {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Put overwrites a receivable as-is. Tests use it to seed SETTLED or EXPIRED records.
func (s *Store) Put(rec domain.Receivable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Version == 0 {
		rec.Version = 1
	}
	s.receivables[rec.ID] = rec
}
