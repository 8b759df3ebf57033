package memory

import (
	"context"
	"fmt"

	"payment-settlement/internal/domain"
)

type salePlans struct {
	s *Store
}

func (r *salePlans) Create(_ context.Context, plan *domain.SalePlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.plans[plan.SaleID]; ok {
		return fmt.Errorf("sale %s: %w", plan.SaleID, domain.ErrPlanExists)
	}
	plan.CreatedAt = r.s.now()
	r.s.plans[plan.SaleID] = copyPlan(*plan)
	return nil
}

func (r *salePlans) GetBySaleID(_ context.Context, saleID string) (*domain.SalePlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	plan, ok := r.s.plans[saleID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "sale plan", ID: saleID}
	}
	c := copyPlan(plan)
	return &c, nil
}

func (r *salePlans) UpdateInstallmentStatus(_ context.Context, saleID string, number int, from, to domain.InstallmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conflict := &domain.ConflictError{Entity: "installment", ID: fmt.Sprintf("%s/%d", saleID, number)}
	plan, ok := r.s.plans[saleID]
	if !ok {
		return conflict
	}
	for i := range plan.Installments {
		if plan.Installments[i].Number != number {
			continue
		}
		if plan.Installments[i].Status != from {
			return conflict
		}
		plan.Installments[i].Status = to
		return nil
	}
	return conflict
}

func copyPlan(p domain.SalePlan) domain.SalePlan {
	c := p
	c.Definition = p.Definition.Clone()
	c.Installments = make([]domain.GeneratedInstallment, len(p.Installments))
	copy(c.Installments, p.Installments)
	return c
}
