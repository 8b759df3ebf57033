package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the billing status of a generated installment
type InstallmentStatus string

const (
	InstallmentOpen      InstallmentStatus = "OPEN"
	InstallmentSettled   InstallmentStatus = "SETTLED"
	InstallmentCancelled InstallmentStatus = "CANCELLED"
)

// GeneratedInstallment is one concrete installment of a sale
type GeneratedInstallment struct {
	Number  int               `json:"number"`
	DueDate time.Time         `json:"due_date"`
	Amount  decimal.Decimal   `json:"amount"`
	Percent decimal.Decimal   `json:"percent"`
	Status  InstallmentStatus `json:"status"`
}

// TransitionTo moves an open installment to a terminal status.
func (i *GeneratedInstallment) TransitionTo(status InstallmentStatus) error {
	if i.Status != InstallmentOpen {
		return fmt.Errorf("installment %d is %s: %w", i.Number, i.Status, ErrInvalidTransition)
	}
	if status != InstallmentSettled && status != InstallmentCancelled {
		return fmt.Errorf("installment %d cannot move to %s: %w", i.Number, status, ErrInvalidTransition)
	}
	i.Status = status
	return nil
}

// SalePlan is the authoritative installment set of a sale together with the frozen
// template revision it was calculated from.
type SalePlan struct {
	SaleID             string                     `json:"sale_id"`
	DefinitionID       string                     `json:"definition_id"`
	DefinitionRevision int                        `json:"definition_revision"`
	Definition         PaymentConditionDefinition `json:"definition"`
	TotalAmount        decimal.Decimal            `json:"total_amount"`
	BaseDate           time.Time                  `json:"base_date"`
	Installments       []GeneratedInstallment     `json:"installments"`
	CreatedAt          time.Time                  `json:"created_at"`
}
