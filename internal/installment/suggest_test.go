package installment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/installment"
)

func TestSuggestInstallments_Cash(t *testing.T) {
	lines, err := installment.SuggestInstallments(domain.ConditionCash, 1, 0, decimal.Zero)

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 0, lines[0].DaysUntilDue)
	assert.True(t, lines[0].PercentOfTotal.Equal(pct("100")))
}

func TestSuggestInstallments_EvenSplit(t *testing.T) {
	lines, err := installment.SuggestInstallments(domain.ConditionInstallment, 3, 30, decimal.Zero)

	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.True(t, lines[0].PercentOfTotal.Equal(pct("33.33")))
	assert.True(t, lines[1].PercentOfTotal.Equal(pct("33.33")))
	assert.True(t, lines[2].PercentOfTotal.Equal(pct("33.34")))
	assert.Equal(t, []int{30, 60, 90}, []int{lines[0].DaysUntilDue, lines[1].DaysUntilDue, lines[2].DaysUntilDue})
}

func TestSuggestInstallments_DownPayment(t *testing.T) {
	lines, err := installment.SuggestInstallments(domain.ConditionInstallment, 3, 30, pct("50"))

	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, 0, lines[0].DaysUntilDue)
	assert.True(t, lines[0].PercentOfTotal.Equal(pct("50")))
	assert.True(t, lines[1].PercentOfTotal.Equal(pct("25")))
	assert.True(t, lines[2].PercentOfTotal.Equal(pct("25")))
	assert.Equal(t, 60, lines[2].DaysUntilDue)
}

func TestSuggestInstallments_Rejects(t *testing.T) {
	_, err := installment.SuggestInstallments(domain.ConditionInstallment, 0, 30, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = installment.SuggestInstallments(domain.ConditionTerm, 1, 30, pct("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = installment.SuggestInstallments(domain.ConditionInstallment, 1, 30, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}
