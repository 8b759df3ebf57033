package installment_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/installment"
)

type fakeNames map[string]string

func (f fakeNames) NameTaken(_ context.Context, name, excludeID string) (bool, error) {
	id, ok := f[strings.ToLower(name)]
	return ok && id != excludeID, nil
}

type failingNames struct{}

func (failingNames) NameTaken(context.Context, string, string) (bool, error) {
	return false, errors.New("db down")
}

func violationsOf(t *testing.T, err error) []string {
	t.Helper()
	var defErr *domain.InvalidDefinitionError
	require.True(t, errors.As(err, &defErr), "expected InvalidDefinitionError, got %v", err)
	return defErr.Violations
}

func TestValidateDefinition(t *testing.T) {
	line := func(n, days int, p string) domain.StandardInstallment {
		return domain.StandardInstallment{Number: n, DaysUntilDue: days, PercentOfTotal: pct(p)}
	}

	tests := []struct {
		name    string
		def     *domain.PaymentConditionDefinition
		wantErr string
	}{
		{
			name: "valid cash",
			def:  definition(domain.ConditionCash, line(1, 0, "100")),
		},
		{
			name: "valid term with single installment",
			def:  definition(domain.ConditionTerm, line(1, 28, "100")),
		},
		{
			name: "percent sum within tolerance",
			def:  definition(domain.ConditionInstallment, line(1, 30, "33.33"), line(2, 60, "33.33"), line(3, 90, "33.33")),
		},
		{
			name:    "percent sum off by more than tolerance",
			def:     definition(domain.ConditionInstallment, line(1, 30, "33.33"), line(2, 60, "33.33"), line(3, 90, "33.32")),
			wantErr: "sum to 99.98",
		},
		{
			name:    "repeated number",
			def:     definition(domain.ConditionInstallment, line(1, 30, "50"), line(1, 60, "50")),
			wantErr: "repeated",
		},
		{
			name:    "number out of range",
			def:     definition(domain.ConditionInstallment, line(1, 30, "50"), line(3, 60, "50")),
			wantErr: "out of range",
		},
		{
			name:    "cash with days",
			def:     definition(domain.ConditionCash, line(1, 5, "100")),
			wantErr: "due in 0 days",
		},
		{
			name:    "installment type with a single line",
			def:     definition(domain.ConditionInstallment, line(1, 30, "100")),
			wantErr: "at least 2",
		},
		{
			name:    "negative days",
			def:     definition(domain.ConditionTerm, line(1, -1, "100")),
			wantErr: "must not be negative",
		},
		{
			name:    "zero percent line",
			def:     definition(domain.ConditionTerm, line(1, 10, "100"), line(2, 20, "0")),
			wantErr: "percent must be positive",
		},
		{
			name:    "unknown type",
			def:     definition("WEEKLY", line(1, 10, "100")),
			wantErr: "unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := installment.ValidateDefinition(tt.def)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDefinition_CountMismatch(t *testing.T) {
	def := definition(domain.ConditionTerm, domain.StandardInstallment{Number: 1, DaysUntilDue: 30, PercentOfTotal: pct("100")})
	def.InstallmentCount = 2

	violations := violationsOf(t, installment.ValidateDefinition(def))

	assert.Contains(t, violations, "expected 2 installments, got 1")
}

func TestValidateDefinition_DownPaymentMustMatchFirstLine(t *testing.T) {
	line := func(n, days int, p string) domain.StandardInstallment {
		return domain.StandardInstallment{Number: n, DaysUntilDue: days, PercentOfTotal: pct(p)}
	}

	tests := []struct {
		name    string
		lines   []domain.StandardInstallment
		wantErr string
	}{
		{
			name:  "first line is the down payment",
			lines: []domain.StandardInstallment{line(2, 30, "25"), line(1, 0, "50"), line(3, 60, "25")},
		},
		{
			name:    "first line percent differs",
			lines:   []domain.StandardInstallment{line(1, 0, "33.33"), line(2, 30, "33.33"), line(3, 60, "33.34")},
			wantErr: "must carry the 50 percent down payment",
		},
		{
			name:    "first line not due at once",
			lines:   []domain.StandardInstallment{line(1, 30, "50"), line(2, 60, "25"), line(3, 90, "25")},
			wantErr: "down payment installment must be due in 0 days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := definition(domain.ConditionInstallment, tt.lines...)
			def.DownPaymentPercent = pct("50")

			err := installment.ValidateDefinition(def)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidator_NameCollisionIsCaseInsensitive(t *testing.T) {
	v := installment.NewValidator(fakeNames{"30/60/90": "other"})
	def := definition(domain.ConditionCash, domain.StandardInstallment{Number: 1, PercentOfTotal: pct("100")})
	def.Name = "30/60/90"

	err := v.Validate(context.Background(), def)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	def.Name = "À VISTA"
	v = installment.NewValidator(fakeNames{"à vista": "def-1"})
	assert.NoError(t, v.Validate(context.Background(), def), "a definition does not collide with itself")
}

func TestValidator_PropagatesLookupFailure(t *testing.T) {
	v := installment.NewValidator(failingNames{})
	def := definition(domain.ConditionCash, domain.StandardInstallment{Number: 1, PercentOfTotal: pct("100")})

	err := v.Validate(context.Background(), def)

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidDefinition))
}
