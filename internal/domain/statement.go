package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a bank movement
type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

// BankStatementEntry is a normalized bank movement produced by the statement importer.
// Amount is always the non-negative magnitude; Direction carries the sign.
type BankStatementEntry struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"account_id"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	DocumentReference    string          `json:"document_reference"`
	Amount               decimal.Decimal `json:"amount"`
	Direction            Direction       `json:"direction"`
	Reconciled           bool            `json:"reconciled"`
	MatchedReceivableRef *string         `json:"matched_receivable_ref,omitempty"`
	Version              int64           `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Validate rejects malformed records.
func (e *BankStatementEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("entry id is required: %w", ErrInvalidRecord)
	}
	if strings.TrimSpace(e.AccountID) == "" {
		return fmt.Errorf("entry %s: account id is required: %w", e.ID, ErrInvalidRecord)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("entry %s: date is required: %w", e.ID, ErrInvalidRecord)
	}
	if e.Direction != Credit && e.Direction != Debit {
		return fmt.Errorf("entry %s: invalid direction %q: %w", e.ID, e.Direction, ErrInvalidRecord)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("entry %s: amount must be positive: %w", e.ID, ErrInvalidRecord)
	}
	if _, err := ToCents(e.Amount); err != nil {
		return fmt.Errorf("entry %s: %v: %w", e.ID, err, ErrInvalidRecord)
	}
	return nil
}
