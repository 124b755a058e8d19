// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"enroll/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create a new account. It is the
// entire wizard draft, re-submitted in full at the final step.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ValidateStepInput defines a single stateless step-validation request.
// Only the fields relevant to Step are expected to be populated.
type ValidateStepInput struct {
	Step            int
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AgreeToTerms    bool
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the issued session token after a successful login.
type LoginOutput struct {
	Token string
	User  *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// ValidateStep checks one wizard step's payload. Stateless: nothing is
	// retained server-side between calls.
	ValidateStep(ctx context.Context, input *ValidateStepInput) error

	// Register re-validates the full draft, hashes the password and creates
	// the account. The only operation in the sign-up flow with a side effect.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// GetProfile returns the account bound to an authenticated session.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
