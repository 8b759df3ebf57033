package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/service"
	"payment-settlement/pkg/response"
)

type PaymentConditionHandler struct {
	service service.PaymentConditionService
	plans   service.SalePlanService
}

func NewPaymentConditionHandler(service service.PaymentConditionService, plans service.SalePlanService) *PaymentConditionHandler {
	return &PaymentConditionHandler{service: service, plans: plans}
}

type StandardInstallmentRequest struct {
	Number         int             `json:"number" binding:"required"`
	DaysUntilDue   int             `json:"days_until_due"`
	PercentOfTotal decimal.Decimal `json:"percent_of_total" swaggertype:"string" example:"33.33"`
}

type PaymentConditionRequest struct {
	Name               string                       `json:"name" binding:"required"`
	Type               string                       `json:"type" binding:"required,oneof=CASH TERM INSTALLMENT"`
	InstallmentCount   int                          `json:"installment_count"`
	IntervalDays       int                          `json:"interval_days"`
	DownPaymentPercent decimal.Decimal              `json:"down_payment_percent" swaggertype:"string" example:"0"`
	Installments       []StandardInstallmentRequest `json:"installments"`
}

func (r PaymentConditionRequest) toInput() service.PaymentConditionInput {
	input := service.PaymentConditionInput{
		Name:               r.Name,
		Type:               domain.ConditionType(r.Type),
		InstallmentCount:   r.InstallmentCount,
		IntervalDays:       r.IntervalDays,
		DownPaymentPercent: r.DownPaymentPercent,
	}
	for _, line := range r.Installments {
		input.Installments = append(input.Installments, domain.StandardInstallment{
			Number:         line.Number,
			DaysUntilDue:   line.DaysUntilDue,
			PercentOfTotal: line.PercentOfTotal,
		})
	}
	return input
}

type SuggestRequest struct {
	Type               string          `json:"type" binding:"required,oneof=CASH TERM INSTALLMENT"`
	InstallmentCount   int             `json:"installment_count"`
	IntervalDays       int             `json:"interval_days"`
	DownPaymentPercent decimal.Decimal `json:"down_payment_percent" swaggertype:"string" example:"0"`
}

type PreviewRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"string" example:"1000.00"`
	BaseDate    string          `json:"base_date" binding:"required" example:"2025-01-15"`
}

// CreatePaymentCondition godoc
// @Summary Create a payment condition
// @Description Installments may be omitted, in which case the schedule is derived from count, interval and down payment
// @Tags payment-conditions
// @Accept json
// @Produce json
// @Param request body PaymentConditionRequest true "Payment condition"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/payment-conditions [post]
func (h *PaymentConditionHandler) CreatePaymentCondition(c *gin.Context) {
	var req PaymentConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	def, err := h.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		fail(c, err, "Failed to create payment condition")
		return
	}

	response.Success(c, http.StatusCreated, "Payment condition created successfully", def)
}

// ListPaymentConditions godoc
// @Summary List payment conditions
// @Tags payment-conditions
// @Produce json
// @Param active_only query bool false "Only ACTIVE definitions"
// @Success 200 {object} response.Response
// @Router /api/v1/payment-conditions [get]
func (h *PaymentConditionHandler) ListPaymentConditions(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))

	defs, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		fail(c, err, "Failed to list payment conditions")
		return
	}
	if defs == nil {
		defs = []domain.PaymentConditionDefinition{}
	}

	response.Success(c, http.StatusOK, "Payment conditions retrieved successfully", defs)
}

// GetPaymentCondition godoc
// @Summary Get a payment condition
// @Tags payment-conditions
// @Produce json
// @Param id path string true "Definition ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/payment-conditions/{id} [get]
func (h *PaymentConditionHandler) GetPaymentCondition(c *gin.Context) {
	def, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to get payment condition")
		return
	}

	response.Success(c, http.StatusOK, "Payment condition retrieved successfully", def)
}

// UpdatePaymentCondition godoc
// @Summary Update a payment condition
// @Description Bumps the revision; existing sale plans keep their snapshot
// @Tags payment-conditions
// @Accept json
// @Produce json
// @Param id path string true "Definition ID"
// @Param request body PaymentConditionRequest true "Payment condition"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/payment-conditions/{id} [put]
func (h *PaymentConditionHandler) UpdatePaymentCondition(c *gin.Context) {
	var req PaymentConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	def, err := h.service.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		fail(c, err, "Failed to update payment condition")
		return
	}

	response.Success(c, http.StatusOK, "Payment condition updated successfully", def)
}

// DeactivatePaymentCondition godoc
// @Summary Deactivate a payment condition
// @Tags payment-conditions
// @Produce json
// @Param id path string true "Definition ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/payment-conditions/{id}/deactivate [post]
func (h *PaymentConditionHandler) DeactivatePaymentCondition(c *gin.Context) {
	def, err := h.service.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to deactivate payment condition")
		return
	}

	response.Success(c, http.StatusOK, "Payment condition deactivated", def)
}

// ReactivatePaymentCondition godoc
// @Summary Reactivate a payment condition
// @Tags payment-conditions
// @Produce json
// @Param id path string true "Definition ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/payment-conditions/{id}/reactivate [post]
func (h *PaymentConditionHandler) ReactivatePaymentCondition(c *gin.Context) {
	def, err := h.service.Reactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to reactivate payment condition")
		return
	}

	response.Success(c, http.StatusOK, "Payment condition reactivated", def)
}

// SuggestInstallments godoc
// @Summary Suggest a standard installment schedule
// @Tags payment-conditions
// @Accept json
// @Produce json
// @Param request body SuggestRequest true "Schedule shape"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/payment-conditions/suggest [post]
func (h *PaymentConditionHandler) SuggestInstallments(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	lines, err := h.service.Suggest(domain.ConditionType(req.Type), req.InstallmentCount, req.IntervalDays, req.DownPaymentPercent)
	if err != nil {
		fail(c, err, "Failed to suggest installments")
		return
	}

	response.Success(c, http.StatusOK, "Installments suggested", lines)
}

// PreviewInstallments godoc
// @Summary Preview the installments of a sale
// @Description Runs the calculator without storing anything
// @Tags payment-conditions
// @Accept json
// @Produce json
// @Param id path string true "Definition ID"
// @Param request body PreviewRequest true "Total and base date"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/payment-conditions/{id}/preview [post]
func (h *PaymentConditionHandler) PreviewInstallments(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	baseDate, err := parseDate("base_date", req.BaseDate)
	if err != nil {
		response.BadRequest(c, "Invalid base_date", err.Error())
		return
	}

	installments, err := h.plans.PreviewPlan(c.Request.Context(), c.Param("id"), req.TotalAmount, baseDate)
	if err != nil {
		fail(c, err, "Failed to preview installments")
		return
	}

	response.Success(c, http.StatusOK, "Installments calculated", installments)
}
