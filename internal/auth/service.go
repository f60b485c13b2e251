package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stockroom/gateway/internal/metrics"
	"github.com/stockroom/gateway/internal/ratelimit"
	"github.com/stockroom/gateway/internal/token"
	"github.com/stockroom/gateway/internal/user"
	apperrors "github.com/stockroom/gateway/pkg/errors"
	"go.uber.org/zap"
)

// UserStore is the read side of the user repository
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// RateLimiter guards the login endpoint against credential stuffing
type RateLimiter interface {
	Check(ctx context.Context, email, ipAddress string) (ratelimit.Decision, error)
	RecordFailure(ctx context.Context, email, ipAddress string) error
	RecordSuccess(ctx context.Context, email, ipAddress string) error
}

// Service handles authentication business logic
type Service struct {
	users       UserStore
	authority   *token.Authority
	rateLimiter RateLimiter
	logger      *zap.Logger
}

// NewService creates a new authentication service. rateLimiter may be nil.
func NewService(users UserStore, authority *token.Authority, rateLimiter RateLimiter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:       users,
		authority:   authority,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token being exchanged
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token *token.TokenPair `json:"token"`
	User  *user.User       `json:"user"`
}

// Login validates credentials and issues an access and refresh token
func (s *Service) Login(ctx context.Context, email, password, ipAddress string) (*LoginResponse, error) {
	start := time.Now()
	status := "failure"
	defer func() {
		metrics.RecordLoginAttempt(status, time.Since(start))
	}()

	email = SanitizeEmail(email)

	if s.rateLimiter != nil {
		decision, err := s.rateLimiter.Check(ctx, email, ipAddress)
		if err != nil {
			// Redis outages must not lock everyone out
			s.logger.Warn("rate limiter check failed", zap.Error(err))
		} else if !decision.Allowed {
			status = "blocked"
			metrics.RecordRateLimitHit()
			s.logger.Info("login blocked",
				zap.String("email", email),
				zap.String("ip", ipAddress),
				zap.Duration("lockout_remaining", decision.LockoutRemaining.Round(time.Second)),
			)
			return nil, apperrors.ErrRateLimitExceeded
		}
	}

	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if usr == nil || !usr.IsActive() || VerifyPassword(password, usr.PasswordDigest) != nil {
		s.recordFailure(ctx, email, ipAddress)
		return nil, apperrors.ErrInvalidCredentials
	}

	role := token.Role(usr.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("user %d has unknown role %q", usr.ID, usr.Role)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.RecordSuccess(ctx, email, ipAddress); err != nil {
			s.logger.Warn("failed to clear login attempts", zap.Error(err))
		}
	}

	pair, err := s.authority.GeneratePair(token.NewClaims(usr.Email, role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	status = "success"
	return &LoginResponse{
		Token: pair,
		User:  usr,
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, email, ipAddress string) {
	if s.rateLimiter == nil {
		return
	}
	if err := s.rateLimiter.RecordFailure(ctx, email, ipAddress); err != nil {
		s.logger.Warn("failed to record login failure", zap.Error(err))
	}
}

// Refresh exchanges a refresh token for a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*token.Renewal, error) {
	renewal, err := s.authority.Refresh(refreshToken)
	if errors.Is(err, token.ErrUnauthorized) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return renewal, nil
}

// Authenticate verifies an access token
func (s *Service) Authenticate(ctx context.Context, accessToken string) (token.Payload, error) {
	payload, err := s.authority.Payload(accessToken, token.Access)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return payload, nil
}

// CurrentUser loads the user behind a verified payload. Role comes from the
// store, not the token, since refreshed access tokens carry only the email.
func (s *Service) CurrentUser(ctx context.Context, payload token.Payload) (*user.User, error) {
	usr, err := s.users.FindByEmail(ctx, payload.Email())
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if usr == nil || !usr.IsActive() {
		return nil, apperrors.ErrUnauthorized
	}
	return usr, nil
}

// FindUser loads a user by ID
func (s *Service) FindUser(ctx context.Context, id int) (*user.User, error) {
	usr, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if usr == nil {
		return nil, apperrors.ErrNotFound
	}
	return usr, nil
}
