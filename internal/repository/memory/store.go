// Package memory provides in-memory repository implementations for tests and
// single-process deployments.
package memory

import (
	"sync"
	"time"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository"
)

// Store holds every collection behind a single lock so that ApplyMatch can update
// an entry and a receivable atomically, the same way the postgres transaction does.
type Store struct {
	mu          sync.RWMutex
	conditions  map[string]domain.PaymentConditionDefinition
	plans       map[string]domain.SalePlan
	entries     map[string]domain.BankStatementEntry
	receivables map[string]domain.Receivable
	runs        map[string]domain.ReconciliationRun
	matches     []domain.ReconciliationMatch
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		conditions:  make(map[string]domain.PaymentConditionDefinition),
		plans:       make(map[string]domain.SalePlan),
		entries:     make(map[string]domain.BankStatementEntry),
		receivables: make(map[string]domain.Receivable),
		runs:        make(map[string]domain.ReconciliationRun),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) PaymentConditions() repository.PaymentConditionRepository {
	return &paymentConditions{s: s}
}

func (s *Store) SalePlans() repository.SalePlanRepository {
	return &salePlans{s: s}
}

func (s *Store) Statements() repository.StatementRepository {
	return &statements{s: s}
}

func (s *Store) Receivables() repository.ReceivableRepository {
	return &receivables{s: s}
}

func (s *Store) Reconciliations() repository.ReconciliationRepository {
	return &reconciliations{s: s}
}
