package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
)

//go:generate mockgen -destination=mocks/mock_payment_condition_repository.go -package=mocks -source=payment_condition_repository.go PaymentConditionRepository
type PaymentConditionRepository interface {
	Create(ctx context.Context, def *domain.PaymentConditionDefinition) error
	Update(ctx context.Context, def *domain.PaymentConditionDefinition, expectedRevision int) error
	GetByID(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error)
	List(ctx context.Context, activeOnly bool) ([]domain.PaymentConditionDefinition, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
}

type paymentConditionRepository struct {
	db *sql.DB
}

func NewPaymentConditionRepository(db *sql.DB) PaymentConditionRepository {
	return &paymentConditionRepository{db: db}
}

const paymentConditionColumns = `
	id, name, type, installment_count, interval_days, down_payment_percent,
	status, revision, installments, created_at, updated_at`

func (r *paymentConditionRepository) Create(ctx context.Context, def *domain.PaymentConditionDefinition) error {
	lines, err := json.Marshal(def.Installments)
	if err != nil {
		return fmt.Errorf("failed to encode installments: %w", err)
	}

	query := `
		INSERT INTO payment_conditions (
			id, name, type, installment_count, interval_days, down_payment_percent,
			status, revision, installments
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		def.ID,
		def.Name,
		def.Type,
		def.InstallmentCount,
		def.IntervalDays,
		def.DownPaymentPercent,
		def.Status,
		def.Revision,
		lines,
	).Scan(&def.CreatedAt, &def.UpdatedAt)

	if isUniqueViolation(err) {
		return &domain.InvalidDefinitionError{Violations: []string{fmt.Sprintf("name %q is already in use", def.Name)}}
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create payment condition")
		return err
	}

	return nil
}

func (r *paymentConditionRepository) Update(ctx context.Context, def *domain.PaymentConditionDefinition, expectedRevision int) error {
	lines, err := json.Marshal(def.Installments)
	if err != nil {
		return fmt.Errorf("failed to encode installments: %w", err)
	}

	query := `
		UPDATE payment_conditions
		SET name = $1, type = $2, installment_count = $3, interval_days = $4,
			down_payment_percent = $5, status = $6, revision = $7, installments = $8,
			updated_at = NOW()
		WHERE id = $9 AND revision = $10
		RETURNING updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		def.Name,
		def.Type,
		def.InstallmentCount,
		def.IntervalDays,
		def.DownPaymentPercent,
		def.Status,
		def.Revision,
		lines,
		def.ID,
		expectedRevision,
	).Scan(&def.UpdatedAt)

	if err == sql.ErrNoRows {
		return &domain.ConflictError{Entity: "payment condition", ID: def.ID}
	}
	if isUniqueViolation(err) {
		return &domain.InvalidDefinitionError{Violations: []string{fmt.Sprintf("name %q is already in use", def.Name)}}
	}
	if err != nil {
		logger.GetLogger().WithError(err).WithField("definition_id", def.ID).Error("Failed to update payment condition")
		return err
	}

	return nil
}

func (r *paymentConditionRepository) GetByID(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error) {
	query := `SELECT ` + paymentConditionColumns + ` FROM payment_conditions WHERE id = $1`

	def, err := scanPaymentCondition(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "payment condition", ID: id}
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get payment condition")
		return nil, err
	}

	return def, nil
}

func (r *paymentConditionRepository) List(ctx context.Context, activeOnly bool) ([]domain.PaymentConditionDefinition, error) {
	query := `SELECT ` + paymentConditionColumns + ` FROM payment_conditions`
	var args []interface{}
	if activeOnly {
		query += ` WHERE status = $1`
		args = append(args, domain.DefinitionActive)
	}
	query += ` ORDER BY lower(name)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query payment conditions")
		return nil, err
	}
	defer rows.Close()

	var defs []domain.PaymentConditionDefinition
	for rows.Next() {
		def, err := scanPaymentCondition(rows)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan payment condition")
			return nil, err
		}
		defs = append(defs, *def)
	}

	return defs, rows.Err()
}

func (r *paymentConditionRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_conditions
			WHERE lower(name) = lower($1) AND ($2 = '' OR id::text <> $2)
		)
	`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&taken); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to check payment condition name")
		return false, err
	}
	return taken, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPaymentCondition(row rowScanner) (*domain.PaymentConditionDefinition, error) {
	var def domain.PaymentConditionDefinition
	var lines []byte

	err := row.Scan(
		&def.ID,
		&def.Name,
		&def.Type,
		&def.InstallmentCount,
		&def.IntervalDays,
		&def.DownPaymentPercent,
		&def.Status,
		&def.Revision,
		&lines,
		&def.CreatedAt,
		&def.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lines, &def.Installments); err != nil {
		return nil, fmt.Errorf("failed to decode installments of %s: %w", def.ID, err)
	}
	return &def, nil
}
