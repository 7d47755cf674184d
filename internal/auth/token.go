// Package auth issues and verifies access tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/core"
)

// Claims carried by an access token. Subject holds the user id.
type Claims struct {
	Email string    `json:"email"`
	Role  core.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() string { return c.Subject }

func (c Claims) IsAdmin() bool { return c.Role == core.RoleAdmin }

// Tokens signs HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

const issuer = "fintrack"

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for u.
func (t *Tokens) Issue(u core.User) (string, error) {
	now := t.now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry. Any failure is reported as
// core.ErrUnauthorized.
func (t *Tokens) Parse(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, core.Errorf(core.ErrUnauthorized, "Token expired")
		}
		return Claims{}, core.Errorf(core.ErrUnauthorized, "Request is not authorized")
	}
	if claims.Subject == "" {
		return Claims{}, core.Errorf(core.ErrUnauthorized, "Request is not authorized")
	}
	return claims, nil
}
