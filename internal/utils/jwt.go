package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoTokenClaims is returned when a token carries neither sub nor exp.
var ErrNoTokenClaims = errors.New("token has no usable claims")

// TokenClaims holds the claims the SDK reads from a session token.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// ParseUnverifiedClaims reads sub and exp from a JWT without checking its
// signature. The server is the only party able to verify the token; the
// client only uses the claims to fill gaps in the login response.
//
// Returns an error if the token is not a JWT or has neither claim.
func ParseUnverifiedClaims(tokenString string) (TokenClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errors.New("invalid token claims")
	}

	var out TokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	if out.Subject == "" && out.ExpiresAt.IsZero() {
		return TokenClaims{}, ErrNoTokenClaims
	}

	return out, nil
}
