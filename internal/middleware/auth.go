package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stockroom/gateway/internal/auth"
	"github.com/stockroom/gateway/internal/token"
	apperrors "github.com/stockroom/gateway/pkg/errors"
	"github.com/stockroom/gateway/pkg/response"
)

const bearerPrefix = "Bearer "

// Auth verifies the bearer access token and stores its payload in the context
func Auth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if tokenString == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		payload, err := authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		c.Set(auth.ContextPayload, payload)
		c.Next()
	}
}

// RequireRole allows the request only when the current user holds one of roles.
// The role is read from the user store on every request.
func RequireRole(authService *auth.Service, roles ...token.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := auth.PayloadFrom(c)
		if !ok {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		usr, err := authService.CurrentUser(c.Request.Context(), payload)
		if err != nil {
			_ = c.Error(err)
			response.Error(c, err)
			c.Abort()
			return
		}

		for _, role := range roles {
			if token.Role(usr.Role) == role {
				c.Set(auth.ContextUser, usr)
				c.Next()
				return
			}
		}

		response.Abort(c, apperrors.ErrForbidden)
	}
}
