package matcher

import (
	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
)

// MatchingStrategy is one rule of the matching priority list. Find returns the single
// receivable the rule binds the entry to, or reports that several qualify.
type MatchingStrategy interface {
	Type() domain.MatchType
	Find(entry *entryView, pool *Pool) (found *candidate, ambiguous bool)
	Confidence(amountDelta domain.Cents, dateDelta int) decimal.Decimal
}

// ExactIDStrategy matches the document reference against the receivable's E2E id or
// nosso numero, with no amount deviation allowed.
type ExactIDStrategy struct{}

func (s *ExactIDStrategy) Type() domain.MatchType {
	return domain.MatchExactID
}

func (s *ExactIDStrategy) Find(entry *entryView, pool *Pool) (*candidate, bool) {
	if entry.reference == "" {
		return nil, false
	}

	var found *candidate
	for _, c := range pool.byReference(entry.reference) {
		if c.cents != entry.cents {
			continue
		}
		if found != nil {
			return nil, true
		}
		found = c
	}
	return found, false
}

func (s *ExactIDStrategy) Confidence(domain.Cents, int) decimal.Decimal {
	return decimal.NewFromInt(1)
}

// ToleranceStrategy accepts a receivable whose amount and due date are both inside the
// tolerance window, but only when exactly one receivable qualifies.
type ToleranceStrategy struct {
	amount      domain.Cents
	amountValue decimal.Decimal
	days        int
}

func NewToleranceStrategy(tol Tolerance) *ToleranceStrategy {
	return &ToleranceStrategy{
		amount:      domain.Cents(tol.Amount.Mul(decimal.NewFromInt(100)).Floor().IntPart()),
		amountValue: tol.Amount,
		days:        tol.Days,
	}
}

func (s *ToleranceStrategy) Type() domain.MatchType {
	return domain.MatchValueDateTolerance
}

func (s *ToleranceStrategy) Find(entry *entryView, pool *Pool) (*candidate, bool) {
	var found *candidate
	for _, c := range pool.open() {
		if (entry.cents - c.cents).Abs() > s.amount {
			continue
		}
		if abs(domain.DaysBetween(entry.entry.Date, c.receivable.DueDate)) > s.days {
			continue
		}
		if found != nil {
			return nil, true
		}
		found = c
	}
	return found, false
}

// Confidence is 1 / (1 + amountDeviation + dateDeviation), each deviation normalized
// by its tolerance, so an in-window match scores between 1/3 and 1.
func (s *ToleranceStrategy) Confidence(amountDelta domain.Cents, dateDelta int) decimal.Decimal {
	deviation := decimal.Zero
	if s.amount > 0 {
		deviation = deviation.Add(decimal.NewFromInt(int64(amountDelta.Abs())).Div(decimal.NewFromInt(int64(s.amount))))
	}
	if s.days > 0 {
		deviation = deviation.Add(decimal.NewFromInt(int64(abs(dateDelta))).Div(decimal.NewFromInt(int64(s.days))))
	}
	return decimal.NewFromInt(1).Div(deviation.Add(decimal.NewFromInt(1))).Round(4)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
