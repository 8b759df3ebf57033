package installment

import (
	"time"

	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
)

// Calculate turns a payment condition template into the concrete installments of a
// sale. Amounts are computed in cents: every installment but the last is
// round_half_up(total * percent / 100) and the last absorbs the remainder, so the
// installments always add back to the total exactly.
//
// Calculate is pure and safe for concurrent use.
func Calculate(def *domain.PaymentConditionDefinition, total decimal.Decimal, baseDate time.Time) ([]domain.GeneratedInstallment, error) {
	if !total.IsPositive() {
		return nil, &domain.InvalidAmountError{Amount: total, Reason: "total must be greater than zero"}
	}
	totalCents, err := domain.ToCents(total)
	if err != nil {
		return nil, &domain.InvalidAmountError{Amount: total, Reason: err.Error()}
	}
	if def == nil {
		return nil, &domain.InvalidDefinitionError{Violations: []string{"definition is required"}}
	}
	if !def.IsActive() {
		return nil, &domain.InvalidDefinitionError{Violations: []string{"definition " + def.ID + " is not active"}}
	}
	// Stored definitions are re-validated rather than trusted.
	if err := ValidateDefinition(def); err != nil {
		return nil, err
	}

	lines := def.SortedInstallments()
	installments := make([]domain.GeneratedInstallment, len(lines))

	var allocated domain.Cents
	for i, line := range lines {
		var amount domain.Cents
		if i == len(lines)-1 {
			amount = totalCents - allocated
		} else {
			amount = totalCents.PercentOf(line.PercentOfTotal)
		}
		if amount < 0 {
			return nil, &domain.InvalidAmountError{Amount: total, Reason: "total is too small to split across the installments"}
		}
		allocated += amount

		installments[i] = domain.GeneratedInstallment{
			Number:  line.Number,
			DueDate: domain.AddCalendarDays(baseDate, line.DaysUntilDue),
			Amount:  amount.Decimal(),
			Percent: line.PercentOfTotal,
			Status:  domain.InstallmentOpen,
		}
	}

	return installments, nil
}
