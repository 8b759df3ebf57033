package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
)

type SalePlanRepository interface {
	Create(ctx context.Context, plan *domain.SalePlan) error
	GetBySaleID(ctx context.Context, saleID string) (*domain.SalePlan, error)
	UpdateInstallmentStatus(ctx context.Context, saleID string, number int, from, to domain.InstallmentStatus) error
}

type salePlanRepository struct {
	db *sql.DB
}

func NewSalePlanRepository(db *sql.DB) SalePlanRepository {
	return &salePlanRepository{db: db}
}

// Create stores the plan and its installments in one transaction. A second plan for
// the same sale fails with ErrPlanExists.
func (r *salePlanRepository) Create(ctx context.Context, plan *domain.SalePlan) error {
	snapshot, err := json.Marshal(plan.Definition)
	if err != nil {
		return fmt.Errorf("failed to encode definition snapshot: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO sale_plans (
			sale_id, definition_id, definition_revision, definition_snapshot, total_amount, base_date
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`,
		plan.SaleID,
		plan.DefinitionID,
		plan.DefinitionRevision,
		snapshot,
		plan.TotalAmount,
		plan.BaseDate,
	).Scan(&plan.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("sale %s: %w", plan.SaleID, domain.ErrPlanExists)
	}
	if err != nil {
		logger.GetLogger().WithError(err).WithField("sale_id", plan.SaleID).Error("Failed to create sale plan")
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sale_installments (sale_id, number, due_date, amount, percent, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer stmt.Close()

	for _, inst := range plan.Installments {
		if _, err := stmt.ExecContext(ctx, plan.SaleID, inst.Number, inst.DueDate, inst.Amount, inst.Percent, inst.Status); err != nil {
			logger.GetLogger().WithError(err).WithField("sale_id", plan.SaleID).Error("Failed to insert installment")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (r *salePlanRepository) GetBySaleID(ctx context.Context, saleID string) (*domain.SalePlan, error) {
	var plan domain.SalePlan
	var snapshot []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT sale_id, definition_id, definition_revision, definition_snapshot,
			   total_amount, base_date, created_at
		FROM sale_plans
		WHERE sale_id = $1
	`, saleID).Scan(
		&plan.SaleID,
		&plan.DefinitionID,
		&plan.DefinitionRevision,
		&snapshot,
		&plan.TotalAmount,
		&plan.BaseDate,
		&plan.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "sale plan", ID: saleID}
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get sale plan")
		return nil, err
	}

	if err := json.Unmarshal(snapshot, &plan.Definition); err != nil {
		return nil, fmt.Errorf("failed to decode definition snapshot: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT number, due_date, amount, percent, status
		FROM sale_installments
		WHERE sale_id = $1
		ORDER BY number
	`, saleID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query installments")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var inst domain.GeneratedInstallment
		if err := rows.Scan(&inst.Number, &inst.DueDate, &inst.Amount, &inst.Percent, &inst.Status); err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan installment")
			return nil, err
		}
		plan.Installments = append(plan.Installments, inst)
	}

	return &plan, rows.Err()
}

func (r *salePlanRepository) UpdateInstallmentStatus(ctx context.Context, saleID string, number int, from, to domain.InstallmentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sale_installments SET status = $1
		WHERE sale_id = $2 AND number = $3 AND status = $4
	`, to, saleID, number, from)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to update installment status")
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ConflictError{Entity: "installment", ID: fmt.Sprintf("%s/%d", saleID, number)}
	}
	return nil
}
