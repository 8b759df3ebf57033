package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
)

//go:generate mockgen -destination=mocks/mock_reconciliation_repository.go -package=mocks -source=reconciliation_repository.go ReconciliationRepository
type ReconciliationRepository interface {
	ApplyMatch(ctx context.Context, commit domain.MatchCommit) error
	CreateRun(ctx context.Context, run *domain.ReconciliationRun) error
	UpdateRun(ctx context.Context, run *domain.ReconciliationRun) error
	GetRun(ctx context.Context, id string) (*domain.ReconciliationRun, error)
	ListMatchesByRun(ctx context.Context, runID string) ([]domain.ReconciliationMatch, error)
}

type reconciliationRepository struct {
	db *sql.DB
}

func NewReconciliationRepository(db *sql.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

// ApplyMatch flips the entry to reconciled, settles the receivable and records the
// match in one transaction. Each side is guarded by its version; if either moved,
// nothing is written.
func (r *reconciliationRepository) ApplyMatch(ctx context.Context, commit domain.MatchCommit) error {
	m := commit.Match

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bank_statement_entries
		SET reconciled = TRUE, matched_receivable_ref = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3 AND reconciled = FALSE
	`, m.EntryID, m.ReceivableID, commit.EntryVersion)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("entry_id", m.EntryID).Error("Failed to update statement entry")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.entryRejection(ctx, tx, m.EntryID)
	}

	statuses := make(pq.StringArray, 0, len(commit.AllowedStatuses))
	for _, s := range commit.AllowedStatuses {
		statuses = append(statuses, string(s))
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE receivables
		SET status = $2, settled_at = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $4 AND status = ANY($5)
	`, m.ReceivableID, domain.ReceivableSettled, m.CreatedAt, commit.ReceivableVersion, statuses)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("receivable_id", m.ReceivableID).Error("Failed to settle receivable")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.receivableRejection(ctx, tx, m.ReceivableID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reconciliation_matches (
			id, run_id, entry_id, receivable_id, match_type, confidence,
			amount_delta, date_delta, operator_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		m.ID,
		nullString(m.RunID),
		m.EntryID,
		m.ReceivableID,
		m.MatchType,
		m.Confidence,
		m.AmountDelta,
		m.DateDelta,
		nullString(m.OperatorID),
		m.CreatedAt,
	)
	if isUniqueViolation(err) {
		return &domain.ConflictError{Entity: "reconciliation match", ID: m.EntryID}
	}
	if err != nil {
		logger.GetLogger().WithError(err).WithField("entry_id", m.EntryID).Error("Failed to insert reconciliation match")
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (r *reconciliationRepository) entryRejection(ctx context.Context, tx *sql.Tx, id string) error {
	var reconciled bool
	err := tx.QueryRowContext(ctx, `SELECT reconciled FROM bank_statement_entries WHERE id = $1`, id).Scan(&reconciled)
	switch {
	case err == sql.ErrNoRows:
		return &domain.NotFoundError{Entity: "bank statement entry", ID: id}
	case err != nil:
		return err
	case reconciled:
		return &domain.AlreadyReconciledError{Entity: "bank statement entry", ID: id}
	default:
		return &domain.ConflictError{Entity: "bank statement entry", ID: id}
	}
}

func (r *reconciliationRepository) receivableRejection(ctx context.Context, tx *sql.Tx, id string) error {
	var status domain.ReceivableStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM receivables WHERE id = $1`, id).Scan(&status)
	switch {
	case err == sql.ErrNoRows:
		return &domain.NotFoundError{Entity: "receivable", ID: id}
	case err != nil:
		return err
	case status == domain.ReceivableSettled:
		return &domain.AlreadyReconciledError{Entity: "receivable", ID: id}
	default:
		return &domain.ConflictError{Entity: "receivable", ID: id}
	}
}

func (r *reconciliationRepository) CreateRun(ctx context.Context, run *domain.ReconciliationRun) error {
	query := `
		INSERT INTO reconciliation_runs (id, account_id, period_start, period_end, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.AccountID,
		run.Period.Start,
		run.Period.End,
		run.Status,
		run.StartedAt,
	)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", run.ID).Error("Failed to create reconciliation run")
		return err
	}
	return nil
}

func (r *reconciliationRepository) UpdateRun(ctx context.Context, run *domain.ReconciliationRun) error {
	pending, err := json.Marshal(nonNilPending(run.Pending))
	if err != nil {
		return fmt.Errorf("failed to encode pending entries: %w", err)
	}
	failures, err := json.Marshal(nonNilFailures(run.Failures))
	if err != nil {
		return fmt.Errorf("failed to encode failures: %w", err)
	}

	query := `
		UPDATE reconciliation_runs
		SET status = $2, total_entries = $3, auto_matched_count = $4, pending_count = $5,
		    failed_count = $6, pending = $7, failures = $8, finished_at = $9
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Status,
		run.TotalEntries,
		run.AutoMatchedCount,
		run.PendingCount,
		run.FailedCount,
		pending,
		failures,
		run.FinishedAt,
	)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", run.ID).Error("Failed to update reconciliation run")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "reconciliation run", ID: run.ID}
	}
	return nil
}

func (r *reconciliationRepository) GetRun(ctx context.Context, id string) (*domain.ReconciliationRun, error) {
	query := `
		SELECT id, account_id, period_start, period_end, status, total_entries,
		       auto_matched_count, pending_count, failed_count, pending, failures,
		       started_at, finished_at
		FROM reconciliation_runs
		WHERE id = $1
	`

	var run domain.ReconciliationRun
	var pending, failures []byte
	var finishedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.AccountID,
		&run.Period.Start,
		&run.Period.End,
		&run.Status,
		&run.TotalEntries,
		&run.AutoMatchedCount,
		&run.PendingCount,
		&run.FailedCount,
		&pending,
		&failures,
		&run.StartedAt,
		&finishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "reconciliation run", ID: id}
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get reconciliation run")
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	if err := json.Unmarshal(pending, &run.Pending); err != nil {
		return nil, fmt.Errorf("failed to decode pending entries: %w", err)
	}
	if err := json.Unmarshal(failures, &run.Failures); err != nil {
		return nil, fmt.Errorf("failed to decode failures: %w", err)
	}

	run.Matches, err = r.ListMatchesByRun(ctx, id)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func (r *reconciliationRepository) ListMatchesByRun(ctx context.Context, runID string) ([]domain.ReconciliationMatch, error) {
	query := `
		SELECT id, run_id, entry_id, receivable_id, match_type, confidence,
		       amount_delta, date_delta, operator_id, created_at
		FROM reconciliation_matches
		WHERE run_id = $1
		ORDER BY created_at, entry_id
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query reconciliation matches")
		return nil, err
	}
	defer rows.Close()

	matches := []domain.ReconciliationMatch{}
	for rows.Next() {
		var m domain.ReconciliationMatch
		var run, operator sql.NullString
		err := rows.Scan(
			&m.ID,
			&run,
			&m.EntryID,
			&m.ReceivableID,
			&m.MatchType,
			&m.Confidence,
			&m.AmountDelta,
			&m.DateDelta,
			&operator,
			&m.CreatedAt,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan reconciliation match")
			return nil, err
		}
		m.RunID = run.String
		m.OperatorID = operator.String
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

func nonNilPending(p []domain.PendingEntry) []domain.PendingEntry {
	if p == nil {
		return []domain.PendingEntry{}
	}
	return p
}

func nonNilFailures(f []domain.EntryFailure) []domain.EntryFailure {
	if f == nil {
		return []domain.EntryFailure{}
	}
	return f
}
