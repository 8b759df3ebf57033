package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"payment-settlement/internal/middleware"
)

type Handlers struct {
	PaymentConditions *PaymentConditionHandler
	Sales             *SalePlanHandler
	Intake            *IntakeHandler
	Reconciliation    *ReconciliationHandler
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler(renderError))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		conditions := v1.Group("/payment-conditions")
		{
			conditions.POST("", h.PaymentConditions.CreatePaymentCondition)
			conditions.GET("", h.PaymentConditions.ListPaymentConditions)
			conditions.POST("/suggest", h.PaymentConditions.SuggestInstallments)
			conditions.GET("/:id", h.PaymentConditions.GetPaymentCondition)
			conditions.PUT("/:id", h.PaymentConditions.UpdatePaymentCondition)
			conditions.POST("/:id/deactivate", h.PaymentConditions.DeactivatePaymentCondition)
			conditions.POST("/:id/reactivate", h.PaymentConditions.ReactivatePaymentCondition)
			conditions.POST("/:id/preview", h.PaymentConditions.PreviewInstallments)
		}

		sales := v1.Group("/sales/:sale_id/installments")
		{
			sales.POST("", h.Sales.GeneratePlan)
			sales.GET("", h.Sales.GetPlan)
			sales.PATCH("/:number", h.Sales.UpdateInstallmentStatus)
		}

		v1.POST("/statement-entries/bulk", h.Intake.BulkCreateStatementEntries)
		v1.POST("/receivables/bulk", h.Intake.BulkCreateReceivables)

		reconciliation := v1.Group("/reconcile")
		{
			reconciliation.POST("", h.Reconciliation.Reconcile)
			reconciliation.GET("/runs/:run_id", h.Reconciliation.GetRun)
			reconciliation.POST("/manual", h.Reconciliation.ResolveManually)
		}
	}

	return router
}
