package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the console reads out of the backend's bearer token.
// The signature is never checked here: the backend is the only verifier.
type TokenClaims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// backendClaims mirrors the claims the retail backend puts in its tokens
type backendClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ErrNotJWT is returned for opaque tokens that are not JWTs
var ErrNotJWT = errors.New("token is not a JWT")

// InspectToken decodes the claims of a bearer token without verifying it.
func InspectToken(token string) (*TokenClaims, error) {
	claims := &backendClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrNotJWT
	}

	out := &TokenClaims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if out.Subject == "" {
		out.Subject = claims.ID
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// TokenExpiry returns the expiry of a bearer token, or the zero time when the token is
// opaque or carries no exp claim.
func TokenExpiry(token string) time.Time {
	claims, err := InspectToken(token)
	if err != nil {
		return time.Time{}
	}
	return claims.ExpiresAt
}
