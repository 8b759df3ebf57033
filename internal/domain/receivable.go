package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableKind identifies the collection channel
type ReceivableKind string

const (
	KindPix    ReceivableKind = "PIX"
	KindBoleto ReceivableKind = "BOLETO"
)

// ReceivableStatus represents the settlement status of a receivable
type ReceivableStatus string

const (
	ReceivablePending ReceivableStatus = "PENDING"
	ReceivableSettled ReceivableStatus = "SETTLED"
	ReceivableExpired ReceivableStatus = "EXPIRED"
)

// Receivable is an open PIX charge or Boleto installment. ExternalReference holds the
// E2E id (PIX) or the nosso numero (Boleto).
type Receivable struct {
	ID                string           `json:"id"`
	AccountID         string           `json:"account_id"`
	Kind              ReceivableKind   `json:"kind"`
	ExternalReference string           `json:"external_reference"`
	Amount            decimal.Decimal  `json:"amount"`
	DueDate           time.Time        `json:"due_date"`
	Status            ReceivableStatus `json:"status"`
	Version           int64            `json:"version"`
	SettledAt         *time.Time       `json:"settled_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// SettleableStatuses lists the states a receivable may be settled from.
// EXPIRED is only reachable through manual resolution.
func SettleableStatuses(manual bool) []ReceivableStatus {
	if manual {
		return []ReceivableStatus{ReceivablePending, ReceivableExpired}
	}
	return []ReceivableStatus{ReceivablePending}
}

// Settle applies PENDING -> SETTLED, or EXPIRED -> SETTLED when manual.
func (r *Receivable) Settle(manual bool, at time.Time) error {
	switch r.Status {
	case ReceivableSettled:
		return &AlreadyReconciledError{Entity: "receivable", ID: r.ID}
	case ReceivablePending:
	case ReceivableExpired:
		if !manual {
			return fmt.Errorf("receivable %s is expired: %w", r.ID, ErrInvalidTransition)
		}
	default:
		return fmt.Errorf("receivable %s has unknown status %q: %w", r.ID, r.Status, ErrInvalidTransition)
	}
	r.Status = ReceivableSettled
	r.SettledAt = &at
	r.Version++
	return nil
}

// Expire applies PENDING -> EXPIRED once the due date plus the grace window has
// elapsed. It reports whether the receivable changed.
func (r *Receivable) Expire(asOf time.Time, graceDays int) bool {
	if r.Status != ReceivablePending {
		return false
	}
	if DaysBetween(asOf, r.DueDate) <= graceDays {
		return false
	}
	r.Status = ReceivableExpired
	r.Version++
	return true
}

func (r *Receivable) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("receivable id is required: %w", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.AccountID) == "" {
		return fmt.Errorf("receivable %s: account id is required: %w", r.ID, ErrInvalidRecord)
	}
	if r.Kind != KindPix && r.Kind != KindBoleto {
		return fmt.Errorf("receivable %s: invalid kind %q: %w", r.ID, r.Kind, ErrInvalidRecord)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("receivable %s: due date is required: %w", r.ID, ErrInvalidRecord)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("receivable %s: amount must be positive: %w", r.ID, ErrInvalidRecord)
	}
	if _, err := ToCents(r.Amount); err != nil {
		return fmt.Errorf("receivable %s: %v: %w", r.ID, err, ErrInvalidRecord)
	}
	return nil
}
