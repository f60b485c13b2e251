package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/stockroom/gateway/internal/config"
	"github.com/stockroom/gateway/internal/metrics"
	"go.uber.org/zap"
)

// ErrUnauthorized is the only error verification ever returns to callers.
// The specific cause is logged, never exposed.
var ErrUnauthorized = errors.New("unauthorized")

var (
	errBareString    = errors.New("decoded payload is a string, not a claims object")
	errMissingEmail  = errors.New("payload has no email")
	errMissingExpiry = errors.New("payload has no numeric exp")
)

type familyKey struct {
	secret    []byte
	expiresIn time.Duration
}

// Authority signs, verifies and renews access and refresh tokens.
// It is immutable after construction and safe for concurrent use.
type Authority struct {
	keys      map[Family]familyKey
	threshold time.Duration
	codec     Codec
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures an Authority
type Option func(*Authority)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		a.now = now
	}
}

// WithLogger sets the logger used for verification diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(a *Authority) {
		a.logger = logger
	}
}

// WithCodec replaces the HS256 signing primitive
func WithCodec(codec Codec) Option {
	return func(a *Authority) {
		a.codec = codec
	}
}

// NewAuthority creates a token authority from validated JWT configuration
func NewAuthority(cfg config.JWTConfig, opts ...Option) (*Authority, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Authority{
		keys: map[Family]familyKey{
			Access:  {secret: []byte(cfg.AccessSecret), expiresIn: cfg.AccessExpiresIn.Std()},
			Refresh: {secret: []byte(cfg.RefreshSecret), expiresIn: cfg.RefreshExpiresIn.Std()},
		},
		threshold: cfg.RenewalThreshold.Std(),
		codec:     hmacCodec{},
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Generate signs claims for the given family, stamping iat and exp
func (a *Authority) Generate(claims Claims, family Family) (string, error) {
	return a.generate(claims, family, a.now())
}

// GeneratePair signs an access and a refresh token from the same claims
func (a *Authority) GeneratePair(claims Claims) (*TokenPair, error) {
	now := a.now()

	accessToken, err := a.generate(claims, Access, now)
	if err != nil {
		return nil, err
	}

	refreshToken, err := a.generate(claims, Refresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(a.keys[Access].expiresIn),
		TokenType:    TokenTypeBearer,
	}, nil
}

// Payload verifies a token against the family secret and returns its claims.
// Every failure collapses to ErrUnauthorized.
func (a *Authority) Payload(tokenString string, family Family) (Payload, error) {
	return a.payload(tokenString, family, a.now())
}

// Refresh exchanges a refresh token for a new access token. When the refresh
// token has less than the renewal threshold left, a new refresh token is
// minted as well. Only the email is carried over; role is not.
func (a *Authority) Refresh(tokenString string) (*Renewal, error) {
	now := a.now()

	payload, err := a.payload(tokenString, Refresh, now)
	if err != nil {
		return nil, err
	}

	exp, ok := payload.ExpiresAt()
	if !ok {
		return nil, ErrUnauthorized
	}
	remaining := time.Duration(exp-now.Unix()) * time.Second

	claims := Claims{ClaimEmail: payload.Email()}

	accessToken, err := a.generate(claims, Access, now)
	if err != nil {
		return nil, err
	}
	renewal := &Renewal{AccessToken: accessToken}

	if remaining < a.threshold {
		renewal.RefreshToken, err = a.generate(claims, Refresh, now)
		if err != nil {
			return nil, err
		}
	}

	metrics.RecordTokenRenewal(renewal.Renewed())
	return renewal, nil
}

func (a *Authority) generate(claims Claims, family Family, now time.Time) (string, error) {
	key, ok := a.keys[family]
	if !ok {
		return "", fmt.Errorf("unknown token family %d", family)
	}

	signed := make(map[string]any, len(claims)+2)
	for k, v := range claims {
		signed[k] = v
	}
	signed[ClaimIssuedAt] = now.Unix()
	signed[ClaimExpiresAt] = now.Add(key.expiresIn).Unix()

	tokenString, err := a.codec.Sign(signed, key.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", family, err)
	}

	metrics.RecordTokenIssued(family.String())
	return tokenString, nil
}

func (a *Authority) payload(tokenString string, family Family, now time.Time) (Payload, error) {
	payload, err := a.verify(tokenString, family, now)
	metrics.RecordTokenVerification(family.String(), err == nil)
	if err != nil {
		a.logger.Debug("token verification failed",
			zap.Stringer("family", family),
			zap.Error(err),
		)
		return nil, ErrUnauthorized
	}
	return payload, nil
}

func (a *Authority) verify(tokenString string, family Family, now time.Time) (payload Payload, err error) {
	key, ok := a.keys[family]
	if !ok {
		return nil, fmt.Errorf("unknown token family %d", family)
	}

	// Panics from the codec count as verification failures.
	defer func() {
		if r := recover(); r != nil {
			payload, err = nil, fmt.Errorf("codec panic: %v", r)
		}
	}()

	decoded, err := a.codec.Verify(tokenString, key.secret, now)
	if err != nil {
		return nil, err
	}

	switch body := decoded.(type) {
	case map[string]any:
		payload = Payload(body)
	case Payload:
		payload = body
	case string:
		return nil, errBareString
	default:
		return nil, fmt.Errorf("unexpected payload type %T", decoded)
	}

	if payload.Email() == "" {
		return nil, errMissingEmail
	}
	if _, ok := payload.ExpiresAt(); !ok {
		return nil, errMissingExpiry
	}

	return payload, nil
}
