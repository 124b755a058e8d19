// Package signup implements the per-step validation rules of the staged
// registration flow. Each step of the client wizard is validated remotely
// before the client may advance; the rules here are pure and stateless, so
// every call is independent and nothing is retained between steps. The one
// rule that needs the user store (the step-0 duplicate-email check) lives in
// the use case layer, next to the repository it queries.
package signup

import (
	domainerrors "enroll/internal/domain/errors"
)

// TotalSteps is the number of ordered stages in the registration wizard.
const TotalSteps = 3

// DefaultMinPasswordLength is the password length floor when none is configured.
const DefaultMinPasswordLength = 6

// Wizard step indices. The client's local step index is advisory UI state;
// the server validates whatever step number arrives with the payload.
const (
	StepIdentity     = 0 // name + email
	StepContact      = 1 // phone + password
	StepConfirmation = 2 // confirm password + terms
)

// StepPayload carries the union of fields a client may submit for validation.
// Only the fields relevant to the requested step are inspected.
type StepPayload struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AgreeToTerms    bool
}

// Validator evaluates step payloads against the registration rules.
type Validator struct {
	minPasswordLength int
}

// NewValidator creates a Validator. A non-positive minPasswordLength falls
// back to DefaultMinPasswordLength.
func NewValidator(minPasswordLength int) *Validator {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}

	return &Validator{minPasswordLength: minPasswordLength}
}

// ValidateStep checks the payload fields relevant to the given step and
// returns nil on acceptance or the step-local rejection reason. Step numbers
// outside [0, TotalSteps) fail with ErrInvalidStep.
func (v *Validator) ValidateStep(step int, payload StepPayload) error {
	switch step {
	case StepIdentity:
		return v.validateIdentity(payload)
	case StepContact:
		return v.validateContact(payload)
	case StepConfirmation:
		return v.validateConfirmation(payload)
	default:
		return domainerrors.ErrInvalidStep
	}
}

// ValidateRegistration re-runs every step rule over the full payload. This is
// the server-authoritative step gate at final submission: the client's own
// step bookkeeping is never trusted, so a registration request must satisfy
// all step rules at once. The terms checkbox is client-side UI and is not
// part of the registration body, so it is not re-checked here.
func (v *Validator) ValidateRegistration(payload StepPayload) error {
	if err := v.validateIdentity(payload); err != nil {
		return err
	}
	if err := v.validateContact(payload); err != nil {
		return err
	}
	if payload.Password != payload.ConfirmPassword {
		return domainerrors.ErrPasswordMismatch
	}

	return nil
}

func (v *Validator) validateIdentity(payload StepPayload) error {
	if payload.Name == "" {
		return domainerrors.ErrNameRequired
	}
	if payload.Email == "" {
		return domainerrors.ErrEmailRequired
	}

	return nil
}

func (v *Validator) validateContact(payload StepPayload) error {
	if payload.Phone == "" {
		return domainerrors.ErrPhoneRequired
	}
	if len(payload.Password) < v.minPasswordLength {
		return domainerrors.ErrWeakPassword
	}

	return nil
}

func (v *Validator) validateConfirmation(payload StepPayload) error {
	if payload.Password != payload.ConfirmPassword {
		return domainerrors.ErrPasswordMismatch
	}
	if !payload.AgreeToTerms {
		return domainerrors.ErrTermsNotAccepted
	}

	return nil
}
