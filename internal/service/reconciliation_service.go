package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/matcher"
	"payment-settlement/internal/repository"
	"payment-settlement/pkg/logger"
)

type ReconciliationService interface {
	Reconcile(ctx context.Context, accountID string, period domain.Period) (*domain.ReconciliationRun, error)
	Preview(ctx context.Context, accountID string, period domain.Period) (*domain.ReconciliationRun, error)
	GetRun(ctx context.Context, runID string) (*domain.ReconciliationRun, error)
}

type reconciliationService struct {
	statements  repository.StatementRepository
	receivables repository.ReceivableRepository
	reconRepo   repository.ReconciliationRepository
	engine      *matcher.ReconciliationEngine
	locker      AccountLocker
}

func NewReconciliationService(
	statements repository.StatementRepository,
	receivables repository.ReceivableRepository,
	reconRepo repository.ReconciliationRepository,
	engine *matcher.ReconciliationEngine,
	locker AccountLocker,
) ReconciliationService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &reconciliationService{
		statements:  statements,
		receivables: receivables,
		reconRepo:   reconRepo,
		engine:      engine,
		locker:      locker,
	}
}

// Reconcile matches the account's unreconciled entries in period against its PENDING
// receivables, committing each match as soon as it is decided. Runs of one account
// are serialized. If ctx is cancelled mid-run the committed matches stay and the
// remaining entries are reported as NOT_PROCESSED.
func (s *reconciliationService) Reconcile(ctx context.Context, accountID string, period domain.Period) (*domain.ReconciliationRun, error) {
	if err := validateScope(accountID, period); err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	defer release()

	entries, receivables, err := s.loadScope(ctx, accountID, period)
	if err != nil {
		return nil, err
	}

	run := &domain.ReconciliationRun{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Period:    period,
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
		Matches:   []domain.ReconciliationMatch{},
		Pending:   []domain.PendingEntry{},
		Failures:  []domain.EntryFailure{},
	}
	if err := s.reconRepo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	log := logger.GetLogger().WithFields(map[string]interface{}{
		"run_id":     run.ID,
		"account_id": accountID,
	})
	log.WithField("entries", len(entries)).Info("Starting reconciliation run")

	// Commits and the final report must land even after ctx is cancelled.
	persistCtx := context.WithoutCancel(ctx)

	session := s.engine.NewSession(receivables)
	ordered := matcher.SortEntries(entries)
	open := ordered

	// One pass per strategy: exact-id matches are committed for the whole batch before
	// the tolerance pass sees the remaining pool.
passes:
	for pass := 0; pass < session.Passes() && len(open) > 0; pass++ {
		last := pass == session.Passes()-1
		next := make([]domain.BankStatementEntry, 0, len(open))

		for i, entry := range open {
			if ctx.Err() != nil {
				unprocessed := append(next, open[i:]...)
				for _, rest := range unprocessed {
					run.Pending = append(run.Pending, domain.PendingEntry{EntryID: rest.ID, Reason: domain.PendingNotProcessed})
				}
				run.Status = domain.RunCancelled
				log.WithField("unprocessed", len(unprocessed)).Warn("Reconciliation run cancelled")
				break passes
			}

			d := decide(session, pass, entry)
			switch {
			case d.Outcome == matcher.OutcomeMatched:
				match, err := s.commit(persistCtx, run.ID, d)
				// The receivable leaves the pool either way: on failure its state in the
				// store is no longer the one this run read.
				session.Consume(d.Receivable.ID)
				if err != nil {
					log.WithError(err).WithField("entry_id", entry.ID).Warn("Failed to commit match")
					run.Failures = append(run.Failures, domain.EntryFailure{EntryID: entry.ID, Reason: err.Error()})
					continue
				}
				run.Matches = append(run.Matches, *match)
			case d.Unresolved() && !last:
				next = append(next, entry)
			case d.Outcome == matcher.OutcomePending:
				run.Pending = append(run.Pending, domain.PendingEntry{EntryID: entry.ID, Reason: d.PendingReason})
			default:
				log.WithError(d.Err).WithField("entry_id", entry.ID).Warn("Entry failed")
				run.Failures = append(run.Failures, domain.EntryFailure{EntryID: entry.ID, Reason: d.Err.Error()})
			}
		}
		open = next
	}

	if run.Status == domain.RunRunning {
		run.Status = domain.RunCompleted
	}
	summarize(run, len(ordered))

	if err := s.reconRepo.UpdateRun(persistCtx, run); err != nil {
		log.WithError(err).Error("Failed to store run report")
		return nil, fmt.Errorf("failed to update run: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"matched": run.AutoMatchedCount,
		"pending": run.PendingCount,
		"failed":  run.FailedCount,
		"status":  run.Status,
	}).Info("Reconciliation run finished")

	return run, nil
}

// Preview runs the matcher without committing anything. The returned run has no id.
func (s *reconciliationService) Preview(ctx context.Context, accountID string, period domain.Period) (*domain.ReconciliationRun, error) {
	if err := validateScope(accountID, period); err != nil {
		return nil, err
	}

	entries, receivables, err := s.loadScope(ctx, accountID, period)
	if err != nil {
		return nil, err
	}

	run := &domain.ReconciliationRun{
		AccountID: accountID,
		Period:    period,
		Status:    domain.RunCompleted,
		StartedAt: time.Now().UTC(),
		Matches:   []domain.ReconciliationMatch{},
		Pending:   []domain.PendingEntry{},
		Failures:  []domain.EntryFailure{},
	}

	for _, d := range s.engine.Plan(entries, receivables) {
		switch d.Outcome {
		case matcher.OutcomeMatched:
			run.Matches = append(run.Matches, *d.Match)
		case matcher.OutcomePending:
			run.Pending = append(run.Pending, domain.PendingEntry{EntryID: d.Entry.ID, Reason: d.PendingReason})
		default:
			run.Failures = append(run.Failures, domain.EntryFailure{EntryID: d.Entry.ID, Reason: d.Err.Error()})
		}
	}
	summarize(run, len(entries))
	return run, nil
}

func (s *reconciliationService) GetRun(ctx context.Context, runID string) (*domain.ReconciliationRun, error) {
	return s.reconRepo.GetRun(ctx, runID)
}

func (s *reconciliationService) loadScope(ctx context.Context, accountID string, period domain.Period) ([]domain.BankStatementEntry, []domain.Receivable, error) {
	entries, err := s.statements.GetUnreconciled(ctx, accountID, period)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load statement entries: %w", err)
	}
	receivables, err := s.receivables.GetPendingByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load receivables: %w", err)
	}
	return entries, receivables, nil
}

func (s *reconciliationService) commit(ctx context.Context, runID string, d matcher.Decision) (*domain.ReconciliationMatch, error) {
	match := *d.Match
	match.ID = uuid.New().String()
	match.RunID = runID
	match.CreatedAt = time.Now().UTC()

	err := s.reconRepo.ApplyMatch(ctx, domain.MatchCommit{
		Match:             match,
		EntryVersion:      d.Entry.Version,
		ReceivableVersion: d.Receivable.Version,
		AllowedStatuses:   domain.SettleableStatuses(false),
	})
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// decide shields the run from a panic while evaluating a single entry.
func decide(session *matcher.Session, pass int, entry domain.BankStatementEntry) (d matcher.Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = matcher.Decision{
				Entry:   entry,
				Outcome: matcher.OutcomeFailed,
				Err:     fmt.Errorf("panic while matching entry %s: %v", entry.ID, r),
			}
		}
	}()
	return session.Decide(pass, entry)
}

func summarize(run *domain.ReconciliationRun, total int) {
	run.TotalEntries = total
	run.AutoMatchedCount = len(run.Matches)
	run.PendingCount = len(run.Pending)
	run.FailedCount = len(run.Failures)
	finished := time.Now().UTC()
	run.FinishedAt = &finished
}

func validateScope(accountID string, period domain.Period) error {
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("account id is required: %w", domain.ErrInvalidRecord)
	}
	if err := period.Validate(); err != nil {
		return err
	}
	return nil
}
