package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/service"
	"payment-settlement/pkg/response"
)

type IntakeHandler struct {
	service service.IntakeService
}

func NewIntakeHandler(service service.IntakeService) *IntakeHandler {
	return &IntakeHandler{service: service}
}

type StatementEntryRequest struct {
	ID                string          `json:"id"`
	AccountID         string          `json:"account_id"`
	Date              string          `json:"date" example:"2024-03-10"`
	Description       string          `json:"description"`
	DocumentReference string          `json:"document_reference"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string" example:"150.00"`
	Direction         string          `json:"direction" example:"CREDIT"`
}

type BulkStatementEntriesRequest struct {
	Entries []StatementEntryRequest `json:"entries" binding:"required,min=1"`
}

type ReceivableRequest struct {
	ID                string          `json:"id"`
	AccountID         string          `json:"account_id"`
	Kind              string          `json:"kind" example:"PIX"`
	ExternalReference string          `json:"external_reference"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string" example:"150.00"`
	DueDate           string          `json:"due_date" example:"2024-03-10"`
}

type BulkReceivablesRequest struct {
	Receivables []ReceivableRequest `json:"receivables" binding:"required,min=1"`
}

// BulkCreateStatementEntries godoc
// @Summary Ingest normalized bank statement entries
// @Description Invalid records are rejected individually; ids already stored are skipped
// @Tags intake
// @Accept json
// @Produce json
// @Param request body BulkStatementEntriesRequest true "Entries"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/statement-entries/bulk [post]
func (h *IntakeHandler) BulkCreateStatementEntries(c *gin.Context) {
	var req BulkStatementEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	entries := make([]domain.BankStatementEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		// An unparseable date is left zero and rejected by validation for this record only.
		on, _ := parseDate("date", e.Date)
		entries = append(entries, domain.BankStatementEntry{
			ID:                e.ID,
			AccountID:         e.AccountID,
			Date:              on,
			Description:       e.Description,
			DocumentReference: e.DocumentReference,
			Amount:            e.Amount,
			Direction:         domain.Direction(e.Direction),
		})
	}

	result, err := h.service.IngestEntries(c.Request.Context(), entries)
	if err != nil {
		fail(c, err, "Failed to ingest statement entries")
		return
	}

	response.Success(c, http.StatusCreated, "Statement entries ingested", result)
}

// BulkCreateReceivables godoc
// @Summary Ingest open PIX and Boleto receivables
// @Description Receivables always enter as PENDING
// @Tags intake
// @Accept json
// @Produce json
// @Param request body BulkReceivablesRequest true "Receivables"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/receivables/bulk [post]
func (h *IntakeHandler) BulkCreateReceivables(c *gin.Context) {
	var req BulkReceivablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	receivables := make([]domain.Receivable, 0, len(req.Receivables))
	for _, r := range req.Receivables {
		due, _ := parseDate("due_date", r.DueDate)
		receivables = append(receivables, domain.Receivable{
			ID:                r.ID,
			AccountID:         r.AccountID,
			Kind:              domain.ReceivableKind(r.Kind),
			ExternalReference: r.ExternalReference,
			Amount:            r.Amount,
			DueDate:           due,
		})
	}

	result, err := h.service.IngestReceivables(c.Request.Context(), receivables)
	if err != nil {
		fail(c, err, "Failed to ingest receivables")
		return
	}

	response.Success(c, http.StatusCreated, "Receivables ingested", result)
}
