package auth

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stockroom/gateway/internal/token"
	apperrors "github.com/stockroom/gateway/pkg/errors"
	"github.com/stockroom/gateway/pkg/response"
)

// Context keys set by the auth middleware
const (
	ContextPayload = "payload"
	ContextUser    = "user"
)

// HealthChecker is implemented by backing stores
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles authentication HTTP requests
type Handler struct {
	service *Service
	checks  map[string]HealthChecker
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service, checks map[string]HealthChecker) *Handler {
	return &Handler{service: service, checks: checks}
}

// Login handles email/password login
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "email and password are required")
		return
	}
	if err := ValidateLoginRequest(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Refresh exchanges a refresh token for a new access token
// POST /auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "refresh_token is required")
		return
	}
	if err := ValidateRefreshRequest(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	renewal, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, renewal)
}

// Me returns the authenticated user's information
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	payload, ok := PayloadFrom(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	usr, err := h.service.CurrentUser(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": usr,
	})
}

// GetUser returns a user by ID
// GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.ValidationError(c, "id must be a positive integer")
		return
	}

	usr, err := h.service.FindUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": usr,
	})
}

// Health returns health status
// GET /health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := gin.H{}
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			components[name] = "unhealthy"
			continue
		}
		components[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
	})
}

// PayloadFrom returns the verified payload stored by the auth middleware
func PayloadFrom(c *gin.Context) (token.Payload, bool) {
	v, exists := c.Get(ContextPayload)
	if !exists {
		return nil, false
	}
	payload, ok := v.(token.Payload)
	return payload, ok
}
