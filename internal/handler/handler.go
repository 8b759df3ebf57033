package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"payment-settlement/internal/domain"
	"payment-settlement/pkg/logger"
	"payment-settlement/pkg/response"
)

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, use YYYY-MM-DD format", field, value)
	}
	return t, nil
}

// fail logs err with the request id and renders it through the domain error mapping.
func fail(c *gin.Context, err error, message string) {
	entry := logger.GetLogger().WithError(err).WithField("request_id", c.GetString("request_id"))
	if domain.IsClientError(err) || domain.IsNotFound(err) || domain.IsRetryable(err) {
		entry.Warn(message)
	} else {
		entry.Error(message)
	}
	renderError(c, err)
}

// renderError maps a domain error onto the envelope and status code. Anything
// unrecognized is a 500 that does not leak the underlying message.
func renderError(c *gin.Context, err error) {
	var invalidDef *domain.InvalidDefinitionError

	switch {
	case errors.As(err, &invalidDef):
		response.Unprocessable(c, "INVALID_DEFINITION", "Invalid payment condition", invalidDef.Violations)
	case errors.Is(err, domain.ErrInvalidAmount):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_AMOUNT", "Invalid amount", err.Error())
	case domain.IsClientError(err):
		response.ValidationError(c, err.Error())
	case domain.IsNotFound(err):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyReconciled):
		response.Conflict(c, "ALREADY_RECONCILED", "Record already reconciled", err.Error())
	case errors.Is(err, domain.ErrPlanExists):
		response.Conflict(c, "PLAN_EXISTS", "Installment plan already exists", err.Error())
	case domain.IsRetryable(err):
		response.Conflict(c, "CONFLICT", "Record was modified concurrently, retry with fresh state", err.Error())
	default:
		response.InternalError(c, "Internal server error", "An unexpected error occurred")
	}
}
