package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/repository/mocks"
	"payment-settlement/internal/service"
)

func threeTimes() service.PaymentConditionInput {
	return service.PaymentConditionInput{
		Name:             "3x sem juros",
		Type:             domain.ConditionInstallment,
		InstallmentCount: 3,
		IntervalDays:     30,
	}
}

func TestPaymentConditionService_CreateSuggestsSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPaymentConditionRepository(ctrl)
	repo.EXPECT().NameTaken(gomock.Any(), "3x sem juros", gomock.Any()).Return(false, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	def, err := service.NewPaymentConditionService(repo).Create(context.Background(), threeTimes())
	require.NoError(t, err)

	assert.NotEmpty(t, def.ID)
	assert.Equal(t, domain.DefinitionActive, def.Status)
	assert.Equal(t, 1, def.Revision)
	require.Len(t, def.Installments, 3)
	assert.Equal(t, "33.33", def.Installments[0].PercentOfTotal.StringFixed(2))
	assert.Equal(t, "33.34", def.Installments[2].PercentOfTotal.StringFixed(2))
	assert.Equal(t, 90, def.Installments[2].DaysUntilDue)
}

func TestPaymentConditionService_CreateRejectsTakenName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPaymentConditionRepository(ctrl)
	repo.EXPECT().NameTaken(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

	_, err := service.NewPaymentConditionService(repo).Create(context.Background(), threeTimes())

	var invalid *domain.InvalidDefinitionError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Violations[0], "already in use")
}

func TestPaymentConditionService_CreateRejectsBadSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPaymentConditionRepository(ctrl)
	repo.EXPECT().NameTaken(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	input := threeTimes()
	input.Installments = []domain.StandardInstallment{
		{Number: 1, DaysUntilDue: 30, PercentOfTotal: decimal.NewFromInt(50)},
		{Number: 2, DaysUntilDue: 60, PercentOfTotal: decimal.NewFromInt(40)},
		{Number: 3, DaysUntilDue: 90, PercentOfTotal: decimal.NewFromInt(5)},
	}

	_, err := service.NewPaymentConditionService(repo).Create(context.Background(), input)
	assert.True(t, errors.Is(err, domain.ErrInvalidDefinition))
}

func TestPaymentConditionService_UpdateBumpsRevision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	current := &domain.PaymentConditionDefinition{
		ID: "def-1", Name: "30 dias", Type: domain.ConditionTerm, InstallmentCount: 1,
		Status: domain.DefinitionActive, Revision: 4,
		Installments: []domain.StandardInstallment{{Number: 1, DaysUntilDue: 30, PercentOfTotal: decimal.NewFromInt(100)}},
	}

	repo := mocks.NewMockPaymentConditionRepository(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "def-1").Return(current, nil)
	repo.EXPECT().NameTaken(gomock.Any(), "45 dias", "def-1").Return(false, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any(), 4).
		DoAndReturn(func(_ context.Context, def *domain.PaymentConditionDefinition, _ int) error {
			assert.Equal(t, 5, def.Revision)
			return nil
		})

	updated, err := service.NewPaymentConditionService(repo).Update(context.Background(), "def-1", service.PaymentConditionInput{
		Name:             "45 dias",
		Type:             domain.ConditionTerm,
		InstallmentCount: 1,
		Installments:     []domain.StandardInstallment{{Number: 1, DaysUntilDue: 45, PercentOfTotal: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Revision)
	assert.Equal(t, 45, updated.Installments[0].DaysUntilDue)
}

func TestPaymentConditionService_UpdateConflictPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	current := &domain.PaymentConditionDefinition{
		ID: "def-1", Name: "a vista", Type: domain.ConditionCash, InstallmentCount: 1,
		Status: domain.DefinitionActive, Revision: 1,
		Installments: []domain.StandardInstallment{{Number: 1, PercentOfTotal: decimal.NewFromInt(100)}},
	}

	repo := mocks.NewMockPaymentConditionRepository(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "def-1").Return(current, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any(), 1).Return(&domain.ConflictError{Entity: "payment condition", ID: "def-1"})

	_, err := service.NewPaymentConditionService(repo).Deactivate(context.Background(), "def-1")
	assert.True(t, domain.IsRetryable(err))
}

func TestPaymentConditionService_DeactivateIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	current := &domain.PaymentConditionDefinition{ID: "def-1", Status: domain.DefinitionInactive, Revision: 2}

	repo := mocks.NewMockPaymentConditionRepository(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "def-1").Return(current, nil)

	def, err := service.NewPaymentConditionService(repo).Deactivate(context.Background(), "def-1")
	require.NoError(t, err)
	assert.Equal(t, 2, def.Revision)
}

func TestPaymentConditionService_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPaymentConditionRepository(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, &domain.NotFoundError{Entity: "payment condition", ID: "nope"})

	_, err := service.NewPaymentConditionService(repo).Get(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))
}
