package installment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
)

var (
	fullPercent      = decimal.NewFromInt(100)
	percentTolerance = decimal.RequireFromString("0.01")
)

// NameChecker reports whether a definition other than excludeID already uses name,
// compared case-insensitively.
type NameChecker interface {
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
}

// Validator enforces payment condition invariants before persistence
type Validator struct {
	names NameChecker
}

func NewValidator(names NameChecker) *Validator {
	return &Validator{names: names}
}

// Validate checks the structural invariants and the name collision rule.
func (v *Validator) Validate(ctx context.Context, def *domain.PaymentConditionDefinition) error {
	violations := collectViolations(def)

	if v.names != nil && strings.TrimSpace(def.Name) != "" {
		taken, err := v.names.NameTaken(ctx, strings.TrimSpace(def.Name), def.ID)
		if err != nil {
			return fmt.Errorf("failed to check name uniqueness: %w", err)
		}
		if taken {
			violations = append(violations, fmt.Sprintf("name %q is already in use", def.Name))
		}
	}

	if len(violations) > 0 {
		return &domain.InvalidDefinitionError{Violations: violations}
	}
	return nil
}

// ValidateDefinition checks the invariants that do not need the repository.
func ValidateDefinition(def *domain.PaymentConditionDefinition) error {
	if violations := collectViolations(def); len(violations) > 0 {
		return &domain.InvalidDefinitionError{Violations: violations}
	}
	return nil
}

func collectViolations(def *domain.PaymentConditionDefinition) []string {
	if def == nil {
		return []string{"definition is required"}
	}

	var violations []string
	add := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(def.Name) == "" {
		add("name is required")
	}
	if !def.Type.Valid() {
		add("unknown type %q", def.Type)
	}
	if def.InstallmentCount < 1 {
		add("installment count must be at least 1")
	}
	if def.IntervalDays < 0 {
		add("interval days must not be negative")
	}
	if def.DownPaymentPercent.IsNegative() || def.DownPaymentPercent.GreaterThanOrEqual(fullPercent) {
		add("down payment percent must be in [0, 100)")
	}

	switch def.Type {
	case domain.ConditionCash:
		if def.InstallmentCount != 1 {
			add("CASH requires exactly 1 installment")
		}
	case domain.ConditionInstallment:
		if def.InstallmentCount < 2 {
			add("INSTALLMENT requires at least 2 installments")
		}
	}

	if len(def.Installments) != def.InstallmentCount {
		add("expected %d installments, got %d", def.InstallmentCount, len(def.Installments))
	}

	seen := make(map[int]bool, len(def.Installments))
	sum := decimal.Zero
	for _, inst := range def.Installments {
		if inst.Number < 1 || inst.Number > len(def.Installments) {
			add("installment number %d out of range 1..%d", inst.Number, len(def.Installments))
		} else if seen[inst.Number] {
			add("installment number %d is repeated", inst.Number)
		}
		seen[inst.Number] = true

		if inst.DaysUntilDue < 0 {
			add("installment %d: days until due must not be negative", inst.Number)
		}
		if !inst.PercentOfTotal.IsPositive() {
			add("installment %d: percent must be positive", inst.Number)
		}
		sum = sum.Add(inst.PercentOfTotal)

		if def.Type == domain.ConditionCash {
			if inst.DaysUntilDue != 0 {
				add("CASH installment must be due in 0 days")
			}
			if !inst.PercentOfTotal.Equal(fullPercent) {
				add("CASH installment must be 100 percent")
			}
		}
	}

	if def.DownPaymentPercent.IsPositive() {
		if first, ok := lineNumber(def.Installments, 1); ok {
			if !first.PercentOfTotal.Equal(def.DownPaymentPercent) {
				add("installment 1 must carry the %s percent down payment, got %s", def.DownPaymentPercent.String(), first.PercentOfTotal.String())
			}
			if first.DaysUntilDue != 0 {
				add("down payment installment must be due in 0 days")
			}
		}
	}

	if len(def.Installments) > 0 && sum.Sub(fullPercent).Abs().GreaterThan(percentTolerance) {
		add("installment percentages sum to %s, expected 100", sum.String())
	}

	return violations
}

func lineNumber(lines []domain.StandardInstallment, number int) (domain.StandardInstallment, bool) {
	for _, l := range lines {
		if l.Number == number {
			return l, true
		}
	}
	return domain.StandardInstallment{}, false
}
