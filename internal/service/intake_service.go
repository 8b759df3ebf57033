package service

import (
	"context"
	"fmt"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository"
	"payment-settlement/pkg/logger"
)

// RecordRejection explains why one record of a bulk request was not stored.
type RecordRejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// IntakeResult summarizes a bulk intake. Received == Inserted + Duplicates + len(Rejected).
type IntakeResult struct {
	Received   int               `json:"received"`
	Inserted   int               `json:"inserted"`
	Duplicates int               `json:"duplicates"`
	Rejected   []RecordRejection `json:"rejected"`
}

// IntakeService accepts already-normalized records from the statement importer and
// the billing gateway.
type IntakeService interface {
	IngestEntries(ctx context.Context, entries []domain.BankStatementEntry) (*IntakeResult, error)
	IngestReceivables(ctx context.Context, receivables []domain.Receivable) (*IntakeResult, error)
}

type intakeService struct {
	statements  repository.StatementRepository
	receivables repository.ReceivableRepository
}

func NewIntakeService(statements repository.StatementRepository, receivables repository.ReceivableRepository) IntakeService {
	return &intakeService{statements: statements, receivables: receivables}
}

func (s *intakeService) IngestEntries(ctx context.Context, entries []domain.BankStatementEntry) (*IntakeResult, error) {
	result := &IntakeResult{Received: len(entries), Rejected: []RecordRejection{}}

	valid := make([]domain.BankStatementEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		e.Date = domain.DateOnly(e.Date)
		e.Reconciled = false
		e.MatchedReceivableRef = nil
		if err := e.Validate(); err != nil {
			logger.GetLogger().WithError(err).WithField("index", i).Warn("Invalid statement entry, skipping")
			result.Rejected = append(result.Rejected, RecordRejection{Index: i, ID: e.ID, Reason: err.Error()})
			continue
		}
		if seen[e.ID] {
			result.Rejected = append(result.Rejected, RecordRejection{Index: i, ID: e.ID, Reason: "duplicate id in request"})
			continue
		}
		seen[e.ID] = true
		valid = append(valid, e)
	}

	inserted, err := s.statements.BulkCreate(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("failed to store statement entries: %w", err)
	}
	result.Inserted = inserted
	result.Duplicates = len(valid) - inserted

	logger.GetLogger().WithFields(map[string]interface{}{
		"received": result.Received,
		"inserted": result.Inserted,
		"rejected": len(result.Rejected),
	}).Info("Statement entries ingested")
	return result, nil
}

func (s *intakeService) IngestReceivables(ctx context.Context, receivables []domain.Receivable) (*IntakeResult, error) {
	result := &IntakeResult{Received: len(receivables), Rejected: []RecordRejection{}}

	valid := make([]domain.Receivable, 0, len(receivables))
	seen := make(map[string]bool, len(receivables))
	for i, rec := range receivables {
		rec.DueDate = domain.DateOnly(rec.DueDate)
		rec.Status = domain.ReceivablePending
		rec.SettledAt = nil
		if err := rec.Validate(); err != nil {
			logger.GetLogger().WithError(err).WithField("index", i).Warn("Invalid receivable, skipping")
			result.Rejected = append(result.Rejected, RecordRejection{Index: i, ID: rec.ID, Reason: err.Error()})
			continue
		}
		if seen[rec.ID] {
			result.Rejected = append(result.Rejected, RecordRejection{Index: i, ID: rec.ID, Reason: "duplicate id in request"})
			continue
		}
		seen[rec.ID] = true
		valid = append(valid, rec)
	}

	inserted, err := s.receivables.BulkCreate(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("failed to store receivables: %w", err)
	}
	result.Inserted = inserted
	result.Duplicates = len(valid) - inserted

	logger.GetLogger().WithFields(map[string]interface{}{
		"received": result.Received,
		"inserted": result.Inserted,
		"rejected": len(result.Rejected),
	}).Info("Receivables ingested")
	return result, nil
}
