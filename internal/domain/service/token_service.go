package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by a session token.
type Claims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating session tokens.
// A session is a signed, self-contained credential; validity is purely a
// function of the signature and the embedded expiry.
type TokenService interface {
	// Issue creates a new signed session token bound to the given user.
	Issue(userID uuid.UUID) (string, error)

	// Validate checks a token string and returns its claims. Expired tokens
	// and bad signatures fail with distinct domain errors.
	Validate(tokenString string) (*Claims, error)
}
