// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"enroll/config"
	domainerrors "enroll/internal/domain/errors"
	"enroll/internal/domain/service"
)

// sessionTTL is the fixed session lifetime: one day from issuance.
const sessionTTL = 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // Process-wide signing secret, loaded once at startup.
	ttl    time.Duration // Time-to-live for session tokens.
}

// NewJWTService is the constructor for jwtService.
// A missing signing secret is a startup error.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.New("token signing secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Token),
		ttl:    sessionTTL,
	}, nil
}

// Issue creates a new signed session token bound to the given user.
func (s *jwtService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// Validate checks a token string and returns its claims. Validity is purely a
// function of the signature and the embedded expiry; there is no revocation list.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token validation failed")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token validation failed")
	}

	registered, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token validation failed")
	}

	userID, err := uuid.Parse(registered.Subject)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("invalid subject claim")
	}

	return &service.Claims{
		UserID:           userID,
		RegisteredClaims: *registered,
	}, nil
}
