package matcher

import (
	"sort"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
)

type candidate struct {
	receivable domain.Receivable
	cents      domain.Cents
	consumed   bool
}

// Pool holds the open receivables of one run. Receivables leave the pool once bound
// to an entry and are never offered again within the run.
type Pool struct {
	ordered []*candidate
	byID    map[string]*candidate
	refs    map[string][]*candidate
}

// NewPool indexes the PENDING receivables in deterministic (due date, id) order.
// Receivables that cannot be matched safely are left out and logged.
func NewPool(receivables []domain.Receivable) *Pool {
	p := &Pool{
		ordered: make([]*candidate, 0, len(receivables)),
		byID:    make(map[string]*candidate, len(receivables)),
		refs:    make(map[string][]*candidate),
	}

	for _, r := range receivables {
		if r.Status != domain.ReceivablePending {
			continue
		}
		if err := r.Validate(); err != nil {
			logger.GetLogger().WithError(err).WithField("receivable_id", r.ID).Warn("Skipping malformed receivable")
			continue
		}
		if _, dup := p.byID[r.ID]; dup {
			continue
		}
		cents, _ := domain.ToCents(r.Amount)
		c := &candidate{receivable: r, cents: cents}
		p.ordered = append(p.ordered, c)
		p.byID[r.ID] = c
		if r.ExternalReference != "" {
			p.refs[r.ExternalReference] = append(p.refs[r.ExternalReference], c)
		}
	}

	sort.SliceStable(p.ordered, func(i, j int) bool {
		a, b := p.ordered[i].receivable, p.ordered[j].receivable
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})

	return p
}

// Consume removes a receivable from further consideration.
func (p *Pool) Consume(receivableID string) {
	if c, ok := p.byID[receivableID]; ok {
		c.consumed = true
	}
}

// Len returns the number of receivables still open.
func (p *Pool) Len() int {
	n := 0
	for _, c := range p.ordered {
		if !c.consumed {
			n++
		}
	}
	return n
}

func (p *Pool) open() []*candidate {
	out := make([]*candidate, 0, len(p.ordered))
	for _, c := range p.ordered {
		if !c.consumed {
			out = append(out, c)
		}
	}
	return out
}

func (p *Pool) byReference(ref string) []*candidate {
	var out []*candidate
	for _, c := range p.refs[ref] {
		if !c.consumed {
			out = append(out, c)
		}
	}
	return out
}
