package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"payment-settlement/internal/domain"
)

type paymentConditions struct {
	s *Store
}

func (r *paymentConditions) Create(_ context.Context, def *domain.PaymentConditionDefinition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.conditions[def.ID]; ok {
		return &domain.ConflictError{Entity: "payment condition", ID: def.ID}
	}
	if r.nameTakenLocked(def.Name, def.ID) {
		return &domain.InvalidDefinitionError{Violations: []string{fmt.Sprintf("name %q is already in use", def.Name)}}
	}

	now := r.s.now()
	def.CreatedAt = now
	def.UpdatedAt = now
	r.s.conditions[def.ID] = def.Clone()
	return nil
}

func (r *paymentConditions) Update(_ context.Context, def *domain.PaymentConditionDefinition, expectedRevision int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.conditions[def.ID]
	if !ok || current.Revision != expectedRevision {
		return &domain.ConflictError{Entity: "payment condition", ID: def.ID}
	}
	if r.nameTakenLocked(def.Name, def.ID) {
		return &domain.InvalidDefinitionError{Violations: []string{fmt.Sprintf("name %q is already in use", def.Name)}}
	}

	def.CreatedAt = current.CreatedAt
	def.UpdatedAt = r.s.now()
	r.s.conditions[def.ID] = def.Clone()
	return nil
}

func (r *paymentConditions) GetByID(_ context.Context, id string) (*domain.PaymentConditionDefinition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	def, ok := r.s.conditions[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "payment condition", ID: id}
	}
	c := def.Clone()
	return &c, nil
}

func (r *paymentConditions) List(_ context.Context, activeOnly bool) ([]domain.PaymentConditionDefinition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var defs []domain.PaymentConditionDefinition
	for _, def := range r.s.conditions {
		if activeOnly && !def.IsActive() {
			continue
		}
		defs = append(defs, def.Clone())
	}
	sort.Slice(defs, func(i, j int) bool {
		return strings.ToLower(defs[i].Name) < strings.ToLower(defs[j].Name)
	})
	return defs, nil
}

func (r *paymentConditions) NameTaken(_ context.Context, name, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.nameTakenLocked(name, excludeID), nil
}

func (r *paymentConditions) nameTakenLocked(name, excludeID string) bool {
	for id, def := range r.s.conditions {
		if id != excludeID && strings.EqualFold(def.Name, name) {
			return true
		}
	}
	return false
}
