package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository"
	"payment-settlement/pkg/logger"
)

// ManualResolution binds an entry to a receivable on an operator's decision. The
// versions are the ones the operator saw; when nil, the versions read here are used.
type ManualResolution struct {
	EntryID           string
	ReceivableID      string
	OperatorID        string
	EntryVersion      *int64
	ReceivableVersion *int64
}

type ManualResolver interface {
	ResolveManually(ctx context.Context, req ManualResolution) (*domain.ReconciliationMatch, error)
}

type manualResolver struct {
	statements  repository.StatementRepository
	receivables repository.ReceivableRepository
	reconRepo   repository.ReconciliationRepository
}

func NewManualResolver(
	statements repository.StatementRepository,
	receivables repository.ReceivableRepository,
	reconRepo repository.ReconciliationRepository,
) ManualResolver {
	return &manualResolver{statements: statements, receivables: receivables, reconRepo: reconRepo}
}

// ResolveManually records a MANUAL match with no tolerance rule applied. An EXPIRED
// receivable may be settled here. It fails with AlreadyReconciledError when either
// side is already settled and with ConflictError when either moved since it was read.
func (r *manualResolver) ResolveManually(ctx context.Context, req ManualResolution) (*domain.ReconciliationMatch, error) {
	if strings.TrimSpace(req.EntryID) == "" || strings.TrimSpace(req.ReceivableID) == "" {
		return nil, fmt.Errorf("entry id and receivable id are required: %w", domain.ErrInvalidRecord)
	}
	if strings.TrimSpace(req.OperatorID) == "" {
		return nil, fmt.Errorf("operator id is required: %w", domain.ErrInvalidRecord)
	}

	entry, err := r.statements.GetByID(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}
	receivable, err := r.receivables.GetByID(ctx, req.ReceivableID)
	if err != nil {
		return nil, err
	}

	if entry.Reconciled {
		return nil, &domain.AlreadyReconciledError{Entity: "bank statement entry", ID: entry.ID}
	}
	if receivable.Status == domain.ReceivableSettled {
		return nil, &domain.AlreadyReconciledError{Entity: "receivable", ID: receivable.ID}
	}
	if req.EntryVersion != nil && *req.EntryVersion != entry.Version {
		return nil, &domain.ConflictError{Entity: "bank statement entry", ID: entry.ID}
	}
	if req.ReceivableVersion != nil && *req.ReceivableVersion != receivable.Version {
		return nil, &domain.ConflictError{Entity: "receivable", ID: receivable.ID}
	}

	match := domain.ReconciliationMatch{
		ID:           uuid.New().String(),
		EntryID:      entry.ID,
		ReceivableID: receivable.ID,
		MatchType:    domain.MatchManual,
		Confidence:   decimal.NewFromInt(1),
		AmountDelta:  entry.Amount.Sub(receivable.Amount),
		DateDelta:    domain.DaysBetween(entry.Date, receivable.DueDate),
		OperatorID:   req.OperatorID,
		CreatedAt:    time.Now().UTC(),
	}

	err = r.reconRepo.ApplyMatch(ctx, domain.MatchCommit{
		Match:             match,
		EntryVersion:      entry.Version,
		ReceivableVersion: receivable.Version,
		AllowedStatuses:   domain.SettleableStatuses(true),
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"entry_id":      entry.ID,
		"receivable_id": receivable.ID,
		"operator_id":   req.OperatorID,
	}).Info("Manual reconciliation recorded")
	return &match, nil
}
