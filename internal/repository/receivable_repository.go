package repository

import (
	"context"
	"database/sql"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
)

type ReceivableRepository interface {
	BulkCreate(ctx context.Context, receivables []domain.Receivable) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Receivable, error)
	GetPendingByAccount(ctx context.Context, accountID string) ([]domain.Receivable, error)
}

type receivableRepository struct {
	db *sql.DB
}

func NewReceivableRepository(db *sql.DB) ReceivableRepository {
	return &receivableRepository{db: db}
}

const receivableColumns = `
	id, account_id, kind, external_reference, amount, due_date, status, version,
	settled_at, created_at, updated_at`

func (r *receivableRepository) BulkCreate(ctx context.Context, receivables []domain.Receivable) (int, error) {
	if len(receivables) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO receivables (id, account_id, kind, external_reference, amount, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range receivables {
		res, err := stmt.ExecContext(ctx, rec.ID, rec.AccountID, rec.Kind, rec.ExternalReference, rec.Amount, rec.DueDate, domain.ReceivablePending)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("receivable_id", rec.ID).Error("Failed to insert receivable")
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

func (r *receivableRepository) GetByID(ctx context.Context, id string) (*domain.Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM receivables WHERE id = $1`

	rec, err := scanReceivable(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "receivable", ID: id}
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get receivable")
		return nil, err
	}
	return rec, nil
}

func (r *receivableRepository) GetPendingByAccount(ctx context.Context, accountID string) ([]domain.Receivable, error) {
	query := `SELECT ` + receivableColumns + `
		FROM receivables
		WHERE account_id = $1 AND status = $2
		ORDER BY due_date, id
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, domain.ReceivablePending)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query receivables")
		return nil, err
	}
	defer rows.Close()

	var receivables []domain.Receivable
	for rows.Next() {
		rec, err := scanReceivable(rows)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan receivable")
			return nil, err
		}
		receivables = append(receivables, *rec)
	}

	return receivables, rows.Err()
}

func scanReceivable(row rowScanner) (*domain.Receivable, error) {
	var rec domain.Receivable
	var settledAt sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.AccountID,
		&rec.Kind,
		&rec.ExternalReference,
		&rec.Amount,
		&rec.DueDate,
		&rec.Status,
		&rec.Version,
		&settledAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if settledAt.Valid {
		rec.SettledAt = &settledAt.Time
	}
	return &rec, nil
}
