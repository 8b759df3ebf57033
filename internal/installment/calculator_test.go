package installment_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/installment"
)

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func definition(t domain.ConditionType, lines ...domain.StandardInstallment) *domain.PaymentConditionDefinition {
	return &domain.PaymentConditionDefinition{
		ID:               "def-1",
		Name:             "test",
		Type:             t,
		InstallmentCount: len(lines),
		Status:           domain.DefinitionActive,
		Installments:     lines,
	}
}

func TestCalculate_Cash(t *testing.T) {
	def := definition(domain.ConditionCash, domain.StandardInstallment{Number: 1, DaysUntilDue: 0, PercentOfTotal: pct("100")})
	base := date(2025, time.January, 15)

	got, err := installment.Calculate(def, pct("100.00"), base)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, base, got[0].DueDate)
	assert.True(t, got[0].Amount.Equal(pct("100.00")))
	assert.Equal(t, domain.InstallmentOpen, got[0].Status)
}

func TestCalculate_ThreeInstallmentsNoInterest(t *testing.T) {
	def := definition(domain.ConditionInstallment,
		domain.StandardInstallment{Number: 1, DaysUntilDue: 30, PercentOfTotal: pct("33.33")},
		domain.StandardInstallment{Number: 2, DaysUntilDue: 60, PercentOfTotal: pct("33.33")},
		domain.StandardInstallment{Number: 3, DaysUntilDue: 90, PercentOfTotal: pct("33.34")},
	)
	def.IntervalDays = 30

	got, err := installment.Calculate(def, pct("1000.00"), date(2025, time.January, 15))

	require.NoError(t, err)
	require.Len(t, got, 3)

	want := []struct {
		number int
		due    time.Time
		amount string
	}{
		{1, date(2025, time.February, 14), "333.33"},
		{2, date(2025, time.March, 16), "333.33"},
		{3, date(2025, time.April, 15), "333.34"},
	}
	sum := decimal.Zero
	for i, w := range want {
		assert.Equal(t, w.number, got[i].Number)
		assert.Equal(t, w.due, got[i].DueDate)
		assert.True(t, got[i].Amount.Equal(pct(w.amount)), "installment %d: got %s", w.number, got[i].Amount)
		sum = sum.Add(got[i].Amount)
	}
	assert.True(t, sum.Equal(pct("1000.00")))
}

func TestCalculate_DownPaymentPlusTwo(t *testing.T) {
	def := definition(domain.ConditionInstallment,
		domain.StandardInstallment{Number: 1, DaysUntilDue: 0, PercentOfTotal: pct("50")},
		domain.StandardInstallment{Number: 2, DaysUntilDue: 30, PercentOfTotal: pct("25")},
		domain.StandardInstallment{Number: 3, DaysUntilDue: 60, PercentOfTotal: pct("25")},
	)
	def.DownPaymentPercent = pct("50")
	base := date(2025, time.January, 15)

	got, err := installment.Calculate(def, pct("1000.00"), base)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, base, got[0].DueDate)
	assert.Equal(t, base.AddDate(0, 0, 30), got[1].DueDate)
	assert.Equal(t, base.AddDate(0, 0, 60), got[2].DueDate)
	assert.True(t, got[0].Amount.Equal(pct("500.00")))
	assert.True(t, got[1].Amount.Equal(pct("250.00")))
	assert.True(t, got[2].Amount.Equal(pct("250.00")))
}

func TestCalculate_OrdersByNumber(t *testing.T) {
	def := definition(domain.ConditionTerm,
		domain.StandardInstallment{Number: 2, DaysUntilDue: 60, PercentOfTotal: pct("40")},
		domain.StandardInstallment{Number: 1, DaysUntilDue: 30, PercentOfTotal: pct("60")},
	)

	got, err := installment.Calculate(def, pct("10.00"), date(2025, time.June, 1))

	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Number)
	assert.True(t, got[0].Amount.Equal(pct("6.00")))
	assert.Equal(t, 2, got[1].Number)
	assert.True(t, got[1].Amount.Equal(pct("4.00")))
}

func TestCalculate_SumIsExactAcrossTotals(t *testing.T) {
	def := definition(domain.ConditionInstallment,
		domain.StandardInstallment{Number: 1, DaysUntilDue: 0, PercentOfTotal: pct("14.29")},
		domain.StandardInstallment{Number: 2, DaysUntilDue: 30, PercentOfTotal: pct("14.29")},
		domain.StandardInstallment{Number: 3, DaysUntilDue: 60, PercentOfTotal: pct("14.29")},
		domain.StandardInstallment{Number: 4, DaysUntilDue: 90, PercentOfTotal: pct("14.29")},
		domain.StandardInstallment{Number: 5, DaysUntilDue: 120, PercentOfTotal: pct("14.28")},
		domain.StandardInstallment{Number: 6, DaysUntilDue: 150, PercentOfTotal: pct("14.28")},
		domain.StandardInstallment{Number: 7, DaysUntilDue: 180, PercentOfTotal: pct("14.28")},
	)

	for cents := int64(1); cents <= 100000; cents += 997 {
		total := decimal.New(cents, -2)
		t.Run(fmt.Sprintf("total=%s", total.StringFixed(2)), func(t *testing.T) {
			got, err := installment.Calculate(def, total, date(2025, time.March, 1))
			require.NoError(t, err)
			require.Len(t, got, def.InstallmentCount)

			sum := decimal.Zero
			for i, inst := range got {
				assert.Equal(t, i+1, inst.Number)
				sum = sum.Add(inst.Amount)
			}
			assert.True(t, sum.Equal(total), "sum %s != total %s", sum, total)
		})
	}
}

func TestCalculate_RoundsHalfUp(t *testing.T) {
	def := definition(domain.ConditionTerm,
		domain.StandardInstallment{Number: 1, DaysUntilDue: 10, PercentOfTotal: pct("50")},
		domain.StandardInstallment{Number: 2, DaysUntilDue: 20, PercentOfTotal: pct("50")},
	)

	got, err := installment.Calculate(def, pct("0.05"), date(2025, time.March, 1))

	require.NoError(t, err)
	assert.True(t, got[0].Amount.Equal(pct("0.03")))
	assert.True(t, got[1].Amount.Equal(pct("0.02")))
}

func TestCalculate_RejectsNonPositiveTotal(t *testing.T) {
	def := definition(domain.ConditionCash, domain.StandardInstallment{Number: 1, PercentOfTotal: pct("100")})

	for _, total := range []string{"0", "-10.00"} {
		_, err := installment.Calculate(def, pct(total), date(2025, time.March, 1))
		assert.True(t, errors.Is(err, domain.ErrInvalidAmount), "total %s", total)

		var amountErr *domain.InvalidAmountError
		assert.True(t, errors.As(err, &amountErr))
	}
}

func TestCalculate_RejectsSubCentTotal(t *testing.T) {
	def := definition(domain.ConditionCash, domain.StandardInstallment{Number: 1, PercentOfTotal: pct("100")})

	_, err := installment.Calculate(def, pct("10.005"), date(2025, time.March, 1))

	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCalculate_RejectsInactiveDefinition(t *testing.T) {
	def := definition(domain.ConditionCash, domain.StandardInstallment{Number: 1, PercentOfTotal: pct("100")})
	def.Deactivate()

	_, err := installment.Calculate(def, pct("10.00"), date(2025, time.March, 1))

	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}

func TestCalculate_RevalidatesDefinition(t *testing.T) {
	def := definition(domain.ConditionInstallment,
		domain.StandardInstallment{Number: 1, DaysUntilDue: 30, PercentOfTotal: pct("50")},
		domain.StandardInstallment{Number: 2, DaysUntilDue: 60, PercentOfTotal: pct("40")},
	)

	got, err := installment.Calculate(def, pct("10.00"), date(2025, time.March, 1))

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}
