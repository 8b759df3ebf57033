package repository

import (
	"context"
	"database/sql"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
)

type StatementRepository interface {
	BulkCreate(ctx context.Context, entries []domain.BankStatementEntry) (int, error)
	GetByID(ctx context.Context, id string) (*domain.BankStatementEntry, error)
	GetUnreconciled(ctx context.Context, accountID string, period domain.Period) ([]domain.BankStatementEntry, error)
}

type statementRepository struct {
	db *sql.DB
}

func NewStatementRepository(db *sql.DB) StatementRepository {
	return &statementRepository{db: db}
}

const entryColumns = `
	id, account_id, entry_date, description, document_reference, amount, direction,
	reconciled, matched_receivable_ref, version, created_at, updated_at`

// BulkCreate inserts new entries; ids already present are left untouched so a
// re-import never resets reconciliation state. It returns the number inserted.
func (r *statementRepository) BulkCreate(ctx context.Context, entries []domain.BankStatementEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bank_statement_entries (
			id, account_id, entry_date, description, document_reference, amount, direction
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		res, err := stmt.ExecContext(ctx, e.ID, e.AccountID, e.Date, e.Description, e.DocumentReference, e.Amount, e.Direction)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("entry_id", e.ID).Error("Failed to insert statement entry")
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return 0, err
	}

	return inserted, nil
}

func (r *statementRepository) GetByID(ctx context.Context, id string) (*domain.BankStatementEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM bank_statement_entries WHERE id = $1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "bank statement entry", ID: id}
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get statement entry")
		return nil, err
	}
	return entry, nil
}

func (r *statementRepository) GetUnreconciled(ctx context.Context, accountID string, period domain.Period) ([]domain.BankStatementEntry, error) {
	query := `SELECT ` + entryColumns + `
		FROM bank_statement_entries
		WHERE account_id = $1 AND reconciled = FALSE
		  AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date, id
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, domain.DateOnly(period.Start), domain.DateOnly(period.End))
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query statement entries")
		return nil, err
	}
	defer rows.Close()

	var entries []domain.BankStatementEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan statement entry")
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

func scanEntry(row rowScanner) (*domain.BankStatementEntry, error) {
	var e domain.BankStatementEntry
	var matched sql.NullString

	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.Date,
		&e.Description,
		&e.DocumentReference,
		&e.Amount,
		&e.Direction,
		&e.Reconciled,
		&matched,
		&e.Version,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if matched.Valid {
		e.MatchedReceivableRef = &matched.String
	}
	return &e, nil
}
