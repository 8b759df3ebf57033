package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository/memory"
	"payment-settlement/internal/service"
)

func setupPlans(t *testing.T) (service.PaymentConditionService, service.SalePlanService, *domain.PaymentConditionDefinition) {
	t.Helper()
	store := memory.NewStore()
	conditions := service.NewPaymentConditionService(store.PaymentConditions())
	plans := service.NewSalePlanService(store.PaymentConditions(), store.SalePlans())

	def, err := conditions.Create(context.Background(), threeTimes())
	require.NoError(t, err)
	return conditions, plans, def
}

func TestSalePlanService_GeneratePlan(t *testing.T) {
	_, plans, def := setupPlans(t)

	plan, err := plans.GeneratePlan(context.Background(), "sale-1", def.ID, amount("1000.00"), date(2025, 1, 15))
	require.NoError(t, err)

	require.Len(t, plan.Installments, 3)
	want := []struct {
		due    string
		amount string
	}{
		{"2025-02-14", "333.33"},
		{"2025-03-16", "333.33"},
		{"2025-04-15", "333.34"},
	}
	sum := decimal.Zero
	for i, inst := range plan.Installments {
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, want[i].due, inst.DueDate.Format("2006-01-02"))
		assert.Equal(t, want[i].amount, inst.Amount.StringFixed(2))
		assert.Equal(t, domain.InstallmentOpen, inst.Status)
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(amount("1000.00")))
	assert.Equal(t, def.Revision, plan.DefinitionRevision)
}

func TestSalePlanService_OnePlanPerSale(t *testing.T) {
	_, plans, def := setupPlans(t)
	ctx := context.Background()

	_, err := plans.GeneratePlan(ctx, "sale-1", def.ID, amount("10.00"), date(2025, 1, 1))
	require.NoError(t, err)

	_, err = plans.GeneratePlan(ctx, "sale-1", def.ID, amount("10.00"), date(2025, 1, 1))
	assert.True(t, errors.Is(err, domain.ErrPlanExists))
}

func TestSalePlanService_PlanKeepsSnapshotAfterEdit(t *testing.T) {
	conditions, plans, def := setupPlans(t)
	ctx := context.Background()

	_, err := plans.GeneratePlan(ctx, "sale-1", def.ID, amount("300.00"), date(2025, 1, 1))
	require.NoError(t, err)

	edit := threeTimes()
	edit.IntervalDays = 15
	_, err = conditions.Update(ctx, def.ID, edit)
	require.NoError(t, err)
	_, err = conditions.Deactivate(ctx, def.ID)
	require.NoError(t, err)

	plan, err := plans.GetPlan(ctx, "sale-1")
	require.NoError(t, err)
	assert.Equal(t, 1, plan.DefinitionRevision)
	assert.Equal(t, 30, plan.Definition.IntervalDays)
	assert.Equal(t, "2025-01-31", plan.Installments[0].DueDate.Format("2006-01-02"))

	_, err = plans.GeneratePlan(ctx, "sale-2", def.ID, amount("300.00"), date(2025, 1, 1))
	assert.True(t, errors.Is(err, domain.ErrInvalidDefinition), "inactive definitions cannot be used for new sales")
}

func TestSalePlanService_InstallmentStatus(t *testing.T) {
	_, plans, def := setupPlans(t)
	ctx := context.Background()

	_, err := plans.GeneratePlan(ctx, "sale-1", def.ID, amount("90.00"), date(2025, 1, 1))
	require.NoError(t, err)

	plan, err := plans.UpdateInstallmentStatus(ctx, "sale-1", 2, domain.InstallmentSettled)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentSettled, plan.Installments[1].Status)

	_, err = plans.UpdateInstallmentStatus(ctx, "sale-1", 2, domain.InstallmentCancelled)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = plans.UpdateInstallmentStatus(ctx, "sale-1", 9, domain.InstallmentSettled)
	assert.True(t, domain.IsNotFound(err))

	stored, err := plans.GetPlan(ctx, "sale-1")
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentSettled, stored.Installments[1].Status)
}

func TestSalePlanService_PreviewRejectsBadTotal(t *testing.T) {
	_, plans, def := setupPlans(t)

	_, err := plans.PreviewPlan(context.Background(), def.ID, amount("0"), date(2025, 1, 1))
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))

	_, err = plans.PreviewPlan(context.Background(), def.ID, amount("10.005"), date(2025, 1, 1))
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
}
