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

type SalePlanHandler struct {
	service service.SalePlanService
}

func NewSalePlanHandler(service service.SalePlanService) *SalePlanHandler {
	return &SalePlanHandler{service: service}
}

type GeneratePlanRequest struct {
	DefinitionID string          `json:"definition_id" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" swaggertype:"string" example:"1000.00"`
	BaseDate     string          `json:"base_date" binding:"required" example:"2025-01-15"`
}

type InstallmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SETTLED CANCELLED"`
}

// GeneratePlan godoc
// @Summary Generate the installment plan of a sale
// @Tags sales
// @Accept json
// @Produce json
// @Param sale_id path string true "Sale ID"
// @Param request body GeneratePlanRequest true "Definition, total and base date"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/sales/{sale_id}/installments [post]
func (h *SalePlanHandler) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	baseDate, err := parseDate("base_date", req.BaseDate)
	if err != nil {
		response.BadRequest(c, "Invalid base_date", err.Error())
		return
	}

	plan, err := h.service.GeneratePlan(c.Request.Context(), c.Param("sale_id"), req.DefinitionID, req.TotalAmount, baseDate)
	if err != nil {
		fail(c, err, "Failed to generate installment plan")
		return
	}

	response.Success(c, http.StatusCreated, "Installment plan generated successfully", plan)
}

// GetPlan godoc
// @Summary Get the installment plan of a sale
// @Tags sales
// @Produce json
// @Param sale_id path string true "Sale ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/sales/{sale_id}/installments [get]
func (h *SalePlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), c.Param("sale_id"))
	if err != nil {
		fail(c, err, "Failed to get installment plan")
		return
	}

	response.Success(c, http.StatusOK, "Installment plan retrieved successfully", plan)
}

// UpdateInstallmentStatus godoc
// @Summary Settle or cancel an open installment
// @Tags sales
// @Accept json
// @Produce json
// @Param sale_id path string true "Sale ID"
// @Param number path int true "Installment number"
// @Param request body InstallmentStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/sales/{sale_id}/installments/{number} [patch]
func (h *SalePlanHandler) UpdateInstallmentStatus(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		response.BadRequest(c, "Invalid installment number", err.Error())
		return
	}

	var req InstallmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	plan, err := h.service.UpdateInstallmentStatus(c.Request.Context(), c.Param("sale_id"), number, domain.InstallmentStatus(req.Status))
	if err != nil {
		fail(c, err, "Failed to update installment status")
		return
	}

	response.Success(c, http.StatusOK, "Installment status updated", plan)
}
