package installment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
)

// SuggestInstallments builds the template lines for the common shapes an
// administrator configures: cash, an even split, or a down payment (entrada) due
// immediately followed by an even split of the rest. Shares are cut at two decimal
// places and the last line takes the remainder.
func SuggestInstallments(conditionType domain.ConditionType, count, intervalDays int, downPayment decimal.Decimal) ([]domain.StandardInstallment, error) {
	var lines []domain.StandardInstallment

	switch {
	case conditionType == domain.ConditionCash:
		lines = []domain.StandardInstallment{{Number: 1, DaysUntilDue: 0, PercentOfTotal: fullPercent}}
		count = 1
	case count < 1:
		return nil, &domain.InvalidDefinitionError{Violations: []string{"installment count must be at least 1"}}
	case downPayment.IsPositive():
		if count < 2 {
			return nil, &domain.InvalidDefinitionError{Violations: []string{"a down payment needs at least 2 installments"}}
		}
		lines = append(lines, domain.StandardInstallment{Number: 1, DaysUntilDue: 0, PercentOfTotal: downPayment})
		for i, share := range splitPercent(fullPercent.Sub(downPayment), count-1) {
			lines = append(lines, domain.StandardInstallment{
				Number:         i + 2,
				DaysUntilDue:   intervalDays * (i + 1),
				PercentOfTotal: share,
			})
		}
	default:
		for i, share := range splitPercent(fullPercent, count) {
			lines = append(lines, domain.StandardInstallment{
				Number:         i + 1,
				DaysUntilDue:   intervalDays * (i + 1),
				PercentOfTotal: share,
			})
		}
	}

	candidate := &domain.PaymentConditionDefinition{
		Name:               "suggestion",
		Type:               conditionType,
		InstallmentCount:   count,
		IntervalDays:       intervalDays,
		DownPaymentPercent: downPayment,
		Installments:       lines,
	}
	if err := ValidateDefinition(candidate); err != nil {
		return nil, fmt.Errorf("suggested schedule rejected: %w", err)
	}
	return lines, nil
}

func splitPercent(total decimal.Decimal, parts int) []decimal.Decimal {
	shares := make([]decimal.Decimal, parts)
	share := total.Div(decimal.NewFromInt(int64(parts))).Truncate(2)
	rest := total
	for i := 0; i < parts-1; i++ {
		shares[i] = share
		rest = rest.Sub(share)
	}
	shares[parts-1] = rest
	return shares
}
