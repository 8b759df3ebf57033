package middleware

import (
	"github.com/gin-gonic/gin"

	"payment-settlement/pkg/logger"
	"payment-settlement/pkg/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.GetLogger().WithFields(map[string]interface{}{
					"error":      err,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString("request_id"),
				}).Error("Panic recovered")
				response.InternalError(c, "Internal server error", "An unexpected error occurred")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler renders the last error attached with c.Error through render when the
// handler did not write a response itself.
func ErrorHandler(render func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			logger.GetLogger().WithError(err.Err).Error("Request error")
			render(c, err.Err)
		}
	}
}
