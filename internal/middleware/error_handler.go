package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskly-be/internal/apperrors"
	"taskly-be/internal/models"
)

// ErrorHandler turns the last error attached to the context into the JSON
// error envelope. It must be registered before any handler that calls c.Error.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperrors.As(c.Errors.Last().Err)
		status := appErr.Status()
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(appErr),
			)
		}

		c.JSON(status, models.ErrorResponse{Success: false, Message: appErr.Message})
	}
}

// Recovery converts panics into a generic 500
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Server Error",
		})
	})
}

// NotFound answers routes that are not registered
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Route not found"})
}
