package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec is the signing primitive behind the authority.
// Verify returns the decoded body, normally a claims map.
type Codec interface {
	Sign(claims map[string]any, secret []byte) (string, error)
	Verify(tokenString string, secret []byte, now time.Time) (any, error)
}

// hmacCodec signs compact JWTs with HS256
type hmacCodec struct{}

func (hmacCodec) Sign(claims map[string]any, secret []byte) (string, error) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := tkn.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (hmacCodec) Verify(tokenString string, secret []byte, now time.Time) (any, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !tkn.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return map[string]any(claims), nil
}
