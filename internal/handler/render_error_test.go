package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-settlement/internal/domain"
	"payment-settlement/internal/middleware"
	"payment-settlement/pkg/response"
)

func TestRenderError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid definition", &domain.InvalidDefinitionError{Violations: []string{"percent sum is 90"}}, http.StatusUnprocessableEntity, "INVALID_DEFINITION"},
		{"invalid amount", fmt.Errorf("plan: %w", &domain.InvalidAmountError{Reason: "must be positive"}), http.StatusUnprocessableEntity, "INVALID_AMOUNT"},
		{"invalid period", domain.ErrInvalidPeriod, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", &domain.NotFoundError{Entity: "receivable", ID: "r1"}, http.StatusNotFound, "NOT_FOUND"},
		{"already reconciled", &domain.AlreadyReconciledError{Entity: "receivable", ID: "r1"}, http.StatusConflict, "ALREADY_RECONCILED"},
		{"plan exists", domain.ErrPlanExists, http.StatusConflict, "PLAN_EXISTS"},
		{"conflict", &domain.ConflictError{Entity: "receivable", ID: "r1"}, http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			renderError(c, tt.err)

			var body response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestRenderError_KeepsViolationsAndHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	renderError(c, &domain.InvalidDefinitionError{Violations: []string{"a", "b"}})

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"a", "b"}, body.Error.Violations)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	renderError(c, errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
}

func TestErrorHandlerRendersAttachedError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.ErrorHandler(renderError))
	router.GET("/missing", func(c *gin.Context) {
		_ = c.Error(&domain.NotFoundError{Entity: "run", ID: "x"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
