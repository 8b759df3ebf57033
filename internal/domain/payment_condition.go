package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ConditionType represents the kind of payment condition
type ConditionType string

const (
	ConditionCash        ConditionType = "CASH"
	ConditionTerm        ConditionType = "TERM"
	ConditionInstallment ConditionType = "INSTALLMENT"
)

func (t ConditionType) Valid() bool {
	switch t {
	case ConditionCash, ConditionTerm, ConditionInstallment:
		return true
	}
	return false
}

// DefinitionStatus is the lifecycle status of a payment condition. Definitions are
// deactivated, never deleted.
type DefinitionStatus string

const (
	DefinitionActive   DefinitionStatus = "ACTIVE"
	DefinitionInactive DefinitionStatus = "INACTIVE"
)

// StandardInstallment is one line of a payment condition template
type StandardInstallment struct {
	Number         int             `json:"number"`
	DaysUntilDue   int             `json:"days_until_due"`
	PercentOfTotal decimal.Decimal `json:"percent_of_total"`
}

// PaymentConditionDefinition is the template a sale's installment plan is derived from
type PaymentConditionDefinition struct {
	ID                 string                `json:"id"`
	Name               string                `json:"name"`
	Type               ConditionType         `json:"type"`
	InstallmentCount   int                   `json:"installment_count"`
	IntervalDays       int                   `json:"interval_days"`
	DownPaymentPercent decimal.Decimal       `json:"down_payment_percent"`
	Status             DefinitionStatus      `json:"status"`
	Revision           int                   `json:"revision"`
	Installments       []StandardInstallment `json:"installments"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

func (d *PaymentConditionDefinition) IsActive() bool {
	return d.Status == DefinitionActive
}

func (d *PaymentConditionDefinition) Deactivate() {
	d.Status = DefinitionInactive
}

func (d *PaymentConditionDefinition) Activate() {
	d.Status = DefinitionActive
}

// SortedInstallments returns the template lines ordered by number.
func (d *PaymentConditionDefinition) SortedInstallments() []StandardInstallment {
	out := make([]StandardInstallment, len(d.Installments))
	copy(out, d.Installments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Clone returns a deep copy, used to freeze the template a sale was calculated with.
func (d PaymentConditionDefinition) Clone() PaymentConditionDefinition {
	c := d
	c.Installments = make([]StandardInstallment, len(d.Installments))
	copy(c.Installments, d.Installments)
	return c
}
