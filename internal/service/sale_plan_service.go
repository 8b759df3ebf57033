package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/installment"
	"payment-settlement/internal/repository"
	"payment-settlement/pkg/logger"
)

type SalePlanService interface {
	GeneratePlan(ctx context.Context, saleID, definitionID string, total decimal.Decimal, baseDate time.Time) (*domain.SalePlan, error)
	PreviewPlan(ctx context.Context, definitionID string, total decimal.Decimal, baseDate time.Time) ([]domain.GeneratedInstallment, error)
	GetPlan(ctx context.Context, saleID string) (*domain.SalePlan, error)
	UpdateInstallmentStatus(ctx context.Context, saleID string, number int, status domain.InstallmentStatus) (*domain.SalePlan, error)
}

type salePlanService struct {
	conditions repository.PaymentConditionRepository
	plans      repository.SalePlanRepository
}

func NewSalePlanService(conditions repository.PaymentConditionRepository, plans repository.SalePlanRepository) SalePlanService {
	return &salePlanService{conditions: conditions, plans: plans}
}

// GeneratePlan calculates and stores the installments of a sale together with a
// frozen copy of the definition revision used. A sale gets exactly one plan.
func (s *salePlanService) GeneratePlan(ctx context.Context, saleID, definitionID string, total decimal.Decimal, baseDate time.Time) (*domain.SalePlan, error) {
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return nil, fmt.Errorf("sale id is required: %w", domain.ErrInvalidRecord)
	}

	def, err := s.conditions.GetByID(ctx, definitionID)
	if err != nil {
		return nil, err
	}

	installments, err := installment.Calculate(def, total, baseDate)
	if err != nil {
		return nil, err
	}

	plan := &domain.SalePlan{
		SaleID:             saleID,
		DefinitionID:       def.ID,
		DefinitionRevision: def.Revision,
		Definition:         def.Clone(),
		TotalAmount:        total,
		BaseDate:           domain.DateOnly(baseDate),
		Installments:       installments,
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to store installment plan: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"sale_id":       saleID,
		"definition_id": def.ID,
		"installments":  len(installments),
	}).Info("Installment plan generated")
	return plan, nil
}

func (s *salePlanService) PreviewPlan(ctx context.Context, definitionID string, total decimal.Decimal, baseDate time.Time) ([]domain.GeneratedInstallment, error) {
	def, err := s.conditions.GetByID(ctx, definitionID)
	if err != nil {
		return nil, err
	}
	return installment.Calculate(def, total, baseDate)
}

func (s *salePlanService) GetPlan(ctx context.Context, saleID string) (*domain.SalePlan, error) {
	return s.plans.GetBySaleID(ctx, saleID)
}

// UpdateInstallmentStatus moves one OPEN installment to SETTLED or CANCELLED.
func (s *salePlanService) UpdateInstallmentStatus(ctx context.Context, saleID string, number int, status domain.InstallmentStatus) (*domain.SalePlan, error) {
	plan, err := s.plans.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	var target *domain.GeneratedInstallment
	for i := range plan.Installments {
		if plan.Installments[i].Number == number {
			target = &plan.Installments[i]
			break
		}
	}
	if target == nil {
		return nil, &domain.NotFoundError{Entity: "installment", ID: fmt.Sprintf("%s/%d", saleID, number)}
	}

	from := target.Status
	if err := target.TransitionTo(status); err != nil {
		return nil, err
	}

	if err := s.plans.UpdateInstallmentStatus(ctx, saleID, number, from, status); err != nil {
		return nil, fmt.Errorf("failed to update installment status: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"sale_id": saleID,
		"number":  number,
		"status":  status,
	}).Info("Installment status updated")
	return plan, nil
}
