package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/stockroom/gateway/pkg/errors"
	"github.com/stockroom/gateway/pkg/response"
	"go.uber.org/zap"
)

var errInternal = apperrors.NewAppError(apperrors.ErrCodeInternalError, "Internal server error", http.StatusInternalServerError)

// Recovery creates a panic recovery middleware
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("request_id", c.GetString("request_id")),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Stack("stack"),
				)

				response.Abort(c, errInternal)
			}
		}()

		c.Next()
	}
}
