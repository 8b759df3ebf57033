package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/service"
	"payment-settlement/pkg/logger"
	"payment-settlement/pkg/response"
)

type ReconciliationHandler struct {
	service  service.ReconciliationService
	resolver service.ManualResolver
}

func NewReconciliationHandler(service service.ReconciliationService, resolver service.ManualResolver) *ReconciliationHandler {
	return &ReconciliationHandler{service: service, resolver: resolver}
}

type ReconcileRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required" example:"2024-03-01"`
	EndDate   string `json:"end_date" binding:"required" example:"2024-03-31"`
	DryRun    bool   `json:"dry_run"`
}

type ManualResolutionRequest struct {
	EntryID           string `json:"entry_id" binding:"required"`
	ReceivableID      string `json:"receivable_id" binding:"required"`
	OperatorID        string `json:"operator_id" binding:"required"`
	EntryVersion      *int64 `json:"entry_version,omitempty"`
	ReceivableVersion *int64 `json:"receivable_version,omitempty"`
}

// Reconcile godoc
// @Summary Run the reconciliation matcher
// @Description Matches the account's unreconciled entries in the period against its pending receivables. With dry_run nothing is committed.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body ReconcileRequest true "Reconciliation request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/reconcile [post]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithError(err).Error("Invalid request")
		response.ValidationError(c, err.Error())
		return
	}

	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start_date format", err.Error())
		return
	}
	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end_date format", err.Error())
		return
	}
	period := domain.Period{Start: startDate, End: endDate}

	logger.GetLogger().WithFields(map[string]interface{}{
		"account_id": req.AccountID,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
		"dry_run":    req.DryRun,
	}).Info("Starting reconciliation")

	if req.DryRun {
		run, err := h.service.Preview(c.Request.Context(), req.AccountID, period)
		if err != nil {
			fail(c, err, "Reconciliation preview failed")
			return
		}
		response.Success(c, http.StatusOK, "Reconciliation preview completed", run)
		return
	}

	run, err := h.service.Reconcile(c.Request.Context(), req.AccountID, period)
	if err != nil {
		fail(c, err, "Reconciliation failed")
		return
	}

	message := "Reconciliation completed successfully"
	if run.Status == domain.RunCancelled {
		message = "Reconciliation cancelled"
	}
	response.Success(c, http.StatusOK, message, run)
}

// GetRun godoc
// @Summary Get a reconciliation run report
// @Tags reconciliation
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reconcile/runs/{run_id} [get]
func (h *ReconciliationHandler) GetRun(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.service.GetRun(c.Request.Context(), runID)
	if err != nil {
		fail(c, err, "Failed to get reconciliation run")
		return
	}

	response.Success(c, http.StatusOK, "Reconciliation run retrieved successfully", run)
}

// ResolveManually godoc
// @Summary Manually bind a statement entry to a receivable
// @Description No tolerance applies. Versions, when given, must match the stored ones.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body ManualResolutionRequest true "Manual resolution"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/reconcile/manual [post]
func (h *ReconciliationHandler) ResolveManually(c *gin.Context) {
	var req ManualResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	match, err := h.resolver.ResolveManually(c.Request.Context(), service.ManualResolution{
		EntryID:           req.EntryID,
		ReceivableID:      req.ReceivableID,
		OperatorID:        req.OperatorID,
		EntryVersion:      req.EntryVersion,
		ReceivableVersion: req.ReceivableVersion,
	})
	if err != nil {
		fail(c, err, "Manual reconciliation failed")
		return
	}

	response.Success(c, http.StatusCreated, "Manual reconciliation recorded", match)
}
