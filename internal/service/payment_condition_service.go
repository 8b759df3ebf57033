package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/installment"
	"payment-settlement/internal/repository"
	"payment-settlement/pkg/logger"
)

// PaymentConditionInput is the administrator-editable part of a definition. When
// Installments is empty the schedule is derived from the count, interval and down
// payment.
type PaymentConditionInput struct {
	Name               string
	Type               domain.ConditionType
	InstallmentCount   int
	IntervalDays       int
	DownPaymentPercent decimal.Decimal
	Installments       []domain.StandardInstallment
}

type PaymentConditionService interface {
	Create(ctx context.Context, input PaymentConditionInput) (*domain.PaymentConditionDefinition, error)
	Update(ctx context.Context, id string, input PaymentConditionInput) (*domain.PaymentConditionDefinition, error)
	Deactivate(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error)
	Reactivate(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error)
	Get(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error)
	List(ctx context.Context, activeOnly bool) ([]domain.PaymentConditionDefinition, error)
	Suggest(conditionType domain.ConditionType, count, intervalDays int, downPayment decimal.Decimal) ([]domain.StandardInstallment, error)
}

type paymentConditionService struct {
	repo      repository.PaymentConditionRepository
	validator *installment.Validator
}

func NewPaymentConditionService(repo repository.PaymentConditionRepository) PaymentConditionService {
	return &paymentConditionService{
		repo:      repo,
		validator: installment.NewValidator(repo),
	}
}

func (s *paymentConditionService) Create(ctx context.Context, input PaymentConditionInput) (*domain.PaymentConditionDefinition, error) {
	def := &domain.PaymentConditionDefinition{
		ID:       uuid.New().String(),
		Status:   domain.DefinitionActive,
		Revision: 1,
	}
	if err := s.apply(def, input); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(ctx, def); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to create payment condition: %w", err)
	}

	logger.GetLogger().WithField("definition_id", def.ID).Info("Payment condition created")
	return def, nil
}

// Update replaces the editable fields and bumps the revision. Plans already
// generated keep the snapshot they were calculated with.
func (s *paymentConditionService) Update(ctx context.Context, id string, input PaymentConditionInput) (*domain.PaymentConditionDefinition, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	def := current.Clone()
	if err := s.apply(&def, input); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(ctx, &def); err != nil {
		return nil, err
	}

	def.Revision = current.Revision + 1
	if err := s.repo.Update(ctx, &def, current.Revision); err != nil {
		return nil, fmt.Errorf("failed to update payment condition: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"definition_id": def.ID,
		"revision":      def.Revision,
	}).Info("Payment condition updated")
	return &def, nil
}

func (s *paymentConditionService) Deactivate(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error) {
	return s.setStatus(ctx, id, domain.DefinitionInactive)
}

func (s *paymentConditionService) Reactivate(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error) {
	return s.setStatus(ctx, id, domain.DefinitionActive)
}

func (s *paymentConditionService) setStatus(ctx context.Context, id string, status domain.DefinitionStatus) (*domain.PaymentConditionDefinition, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	def := current.Clone()
	if status == domain.DefinitionActive {
		def.Activate()
	} else {
		def.Deactivate()
	}
	def.Revision = current.Revision + 1

	if err := s.repo.Update(ctx, &def, current.Revision); err != nil {
		return nil, fmt.Errorf("failed to change payment condition status: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"definition_id": def.ID,
		"status":        def.Status,
	}).Info("Payment condition status changed")
	return &def, nil
}

func (s *paymentConditionService) Get(ctx context.Context, id string) (*domain.PaymentConditionDefinition, error) {
	if id == "" {
		return nil, &domain.NotFoundError{Entity: "payment condition", ID: id}
	}
	return s.repo.GetByID(ctx, id)
}

func (s *paymentConditionService) List(ctx context.Context, activeOnly bool) ([]domain.PaymentConditionDefinition, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *paymentConditionService) Suggest(conditionType domain.ConditionType, count, intervalDays int, downPayment decimal.Decimal) ([]domain.StandardInstallment, error) {
	return installment.SuggestInstallments(conditionType, count, intervalDays, downPayment)
}

func (s *paymentConditionService) apply(def *domain.PaymentConditionDefinition, input PaymentConditionInput) error {
	def.Name = strings.TrimSpace(input.Name)
	def.Type = input.Type
	def.InstallmentCount = input.InstallmentCount
	def.IntervalDays = input.IntervalDays
	def.DownPaymentPercent = input.DownPaymentPercent
	def.Installments = input.Installments

	if def.Type == domain.ConditionCash && def.InstallmentCount == 0 {
		def.InstallmentCount = 1
	}
	if len(def.Installments) == 0 {
		lines, err := installment.SuggestInstallments(def.Type, def.InstallmentCount, def.IntervalDays, def.DownPaymentPercent)
		if err != nil {
			return err
		}
		def.Installments = lines
	}
	return nil
}
