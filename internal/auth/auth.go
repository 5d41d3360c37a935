// Package auth issues and verifies HS256 bearer tokens whose subject is the
// author's username.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/content-publishing-api/internal/errs"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

const issuer = "content-publishing-api"

// Tokens signs and parses bearer tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token signer
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for username
func (t *Tokens) Issue(username string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies raw and returns its subject
func (t *Tokens) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errs.NewUnauthenticated("token expired")
		}
		return "", errs.NewUnauthenticated("invalid token")
	}
	if claims.Subject == "" {
		return "", errs.NewUnauthenticated("token has no subject")
	}
	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// principal for Principal.
func (t *Tokens) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, errs.NewUnauthenticated("missing bearer token"))
			return
		}

		principal, err := t.Parse(strings.TrimSpace(raw))
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Principal returns the authenticated username, empty when the request
// did not pass Middleware.
func Principal(c *gin.Context) string {
	return c.GetString(principalKey)
}

func abort(c *gin.Context, err error) {
	var e *errs.Error
	details := err.Error()
	if errors.As(err, &e) {
		details = e.Details
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   errs.ErrUnauthenticated.Error(),
		"status":  http.StatusUnauthorized,
		"details": details,
	})
}
