package matcher

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
)

// Tolerance is the window a VALUE_DATE_TOLERANCE match must fall into
type Tolerance struct {
	Amount decimal.Decimal
	Days   int
}

func DefaultTolerance() Tolerance {
	return Tolerance{Amount: decimal.RequireFromString("0.01"), Days: 1}
}

func (t Tolerance) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount tolerance must not be negative")
	}
	if t.Days < 0 {
		return fmt.Errorf("date tolerance must not be negative")
	}
	return nil
}

// Outcome of one entry within a run
type Outcome string

const (
	OutcomeMatched Outcome = "MATCHED"
	OutcomePending Outcome = "PENDING"
	OutcomeFailed  Outcome = "FAILED"
)

// Decision is the engine's verdict for a single entry. Match carries everything but
// the ids assigned at commit time.
type Decision struct {
	Entry         domain.BankStatementEntry
	Outcome       Outcome
	Receivable    *domain.Receivable
	Match         *domain.ReconciliationMatch
	PendingReason domain.PendingReason
	Err           error
}

type entryView struct {
	entry     domain.BankStatementEntry
	cents     domain.Cents
	reference string
}

// ReconciliationEngine applies the matching strategies in priority order, one pass per
// strategy over the whole batch: every entry gets its chance at the exact-id rule before
// any entry is offered the tolerance rule. Ambiguity in any pass leaves the entry pending.
type ReconciliationEngine struct {
	strategies []MatchingStrategy
	tolerance  Tolerance
}

// NewReconciliationEngine builds an engine with the default priority list: exact id,
// then value/date tolerance.
func NewReconciliationEngine(tol Tolerance, strategies ...MatchingStrategy) *ReconciliationEngine {
	if len(strategies) == 0 {
		strategies = []MatchingStrategy{&ExactIDStrategy{}, NewToleranceStrategy(tol)}
	}
	return &ReconciliationEngine{
		strategies: strategies,
		tolerance:  tol,
	}
}

func (e *ReconciliationEngine) Tolerance() Tolerance {
	return e.tolerance
}

// Session carries the open-receivable pool across the passes of one run.
type Session struct {
	engine *ReconciliationEngine
	pool   *Pool
}

func (e *ReconciliationEngine) NewSession(receivables []domain.Receivable) *Session {
	return &Session{engine: e, pool: NewPool(receivables)}
}

// Pool exposes the session's open receivables.
func (s *Session) Pool() *Pool {
	return s.pool
}

// Passes is the number of matching passes, one per strategy.
func (s *Session) Passes() int {
	return len(s.engine.strategies)
}

// Decide evaluates one entry with the strategy of the given pass against the receivables
// still open. It does not consume the chosen receivable; callers do so once the match is
// committed. A NO_CANDIDATE result before the last pass means the entry moves on to the
// next pass.
func (s *Session) Decide(pass int, entry domain.BankStatementEntry) Decision {
	if err := entry.Validate(); err != nil {
		return Decision{Entry: entry, Outcome: OutcomeFailed, Err: err}
	}
	if entry.Reconciled {
		return Decision{Entry: entry, Outcome: OutcomeFailed, Err: &domain.AlreadyReconciledError{Entity: "bank statement entry", ID: entry.ID}}
	}
	if entry.Direction != domain.Credit {
		return Decision{Entry: entry, Outcome: OutcomePending, PendingReason: domain.PendingDebitEntry}
	}
	if pass < 0 || pass >= len(s.engine.strategies) {
		return Decision{Entry: entry, Outcome: OutcomePending, PendingReason: domain.PendingNoCandidate}
	}

	cents, _ := domain.ToCents(entry.Amount)
	view := &entryView{entry: entry, cents: cents, reference: entry.DocumentReference}
	strategy := s.engine.strategies[pass]

	found, ambiguous := strategy.Find(view, s.pool)
	if ambiguous {
		logger.GetLogger().WithFields(map[string]interface{}{
			"entry_id": entry.ID,
			"rule":     strategy.Type(),
		}).Debug("Ambiguous candidates, leaving entry pending")
		return Decision{Entry: entry, Outcome: OutcomePending, PendingReason: domain.PendingAmbiguous}
	}
	if found == nil {
		return Decision{Entry: entry, Outcome: OutcomePending, PendingReason: domain.PendingNoCandidate}
	}

	amountDelta := cents - found.cents
	dateDelta := domain.DaysBetween(entry.Date, found.receivable.DueDate)
	receivable := found.receivable

	return Decision{
		Entry:      entry,
		Outcome:    OutcomeMatched,
		Receivable: &receivable,
		Match: &domain.ReconciliationMatch{
			EntryID:      entry.ID,
			ReceivableID: receivable.ID,
			MatchType:    strategy.Type(),
			Confidence:   strategy.Confidence(amountDelta, dateDelta),
			AmountDelta:  amountDelta.Decimal(),
			DateDelta:    dateDelta,
		},
	}
}

// Unresolved reports whether a later pass may still bind the entry.
func (d Decision) Unresolved() bool {
	return d.Outcome == OutcomePending && d.PendingReason == domain.PendingNoCandidate
}

// Consume takes a receivable out of the pool.
func (s *Session) Consume(receivableID string) {
	s.pool.Consume(receivableID)
}

// Plan runs the whole batch without committing anything, consuming receivables as
// they are matched. Decisions come back in (date, id) entry order.
func (e *ReconciliationEngine) Plan(entries []domain.BankStatementEntry, receivables []domain.Receivable) []Decision {
	session := e.NewSession(receivables)
	ordered := SortEntries(entries)

	decisions := make([]Decision, len(ordered))
	open := make([]int, len(ordered))
	for i := range ordered {
		open[i] = i
	}

	for pass := 0; pass < session.Passes() && len(open) > 0; pass++ {
		next := make([]int, 0, len(open))
		for _, i := range open {
			d := session.Decide(pass, ordered[i])
			decisions[i] = d
			switch {
			case d.Outcome == OutcomeMatched:
				session.Consume(d.Receivable.ID)
			case d.Unresolved():
				next = append(next, i)
			}
		}
		open = next
	}
	return decisions
}

// SortEntries returns the entries in deterministic processing order.
func SortEntries(entries []domain.BankStatementEntry) []domain.BankStatementEntry {
	out := make([]domain.BankStatementEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
