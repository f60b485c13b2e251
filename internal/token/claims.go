package token

import (
	"encoding/json"
	"math"
	"time"
)

// Claim names understood by the authority
const (
	ClaimEmail     = "email"
	ClaimRole      = "role"
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
)

// Role is the authorization tier carried in access tokens
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleEmployee
}

// Family selects the secret and lifetime used to sign or verify a token
type Family int

const (
	Access Family = iota
	Refresh
)

func (f Family) String() string {
	switch f {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Claims is the application content handed to the signer.
// exp and iat are always set by the authority and override caller values.
type Claims map[string]any

// NewClaims builds the login claims for a user
func NewClaims(email string, role Role) Claims {
	return Claims{
		ClaimEmail: email,
		ClaimRole:  string(role),
	}
}

// Payload is a verified, decoded token body
type Payload map[string]any

// Email returns the subject email, or "" when missing or not a string
func (p Payload) Email() string {
	email, _ := p[ClaimEmail].(string)
	return email
}

// Role returns the embedded role, or "" when absent
func (p Payload) Role() Role {
	role, _ := p[ClaimRole].(string)
	return Role(role)
}

// ExpiresAt returns exp in unix seconds and whether it is present and numeric
func (p Payload) ExpiresAt() (int64, bool) {
	return numericClaim(p[ClaimExpiresAt])
}

// IssuedAt returns iat in unix seconds and whether it is present and numeric
func (p Payload) IssuedAt() (int64, bool) {
	return numericClaim(p[ClaimIssuedAt])
}

func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return i, true
	default:
		return 0, false
	}
}

// TokenPair is returned at login
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// Renewal is the result of presenting a refresh token.
// RefreshToken is empty unless the presented one was close to expiring.
type Renewal struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Renewed reports whether a new refresh token was minted
func (r *Renewal) Renewed() bool {
	return r.RefreshToken != ""
}

// TokenType constants
const (
	TokenTypeBearer = "Bearer"
)
