package signup

import (
	"testing"

	domainerrors "enroll/internal/domain/errors"

	"github.com/stretchr/testify/assert"
)

func validPayload() StepPayload {
	return StepPayload{
		Name:            "Alice",
		Email:           "a@x.com",
		Phone:           "123",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AgreeToTerms:    true,
	}
}

func TestValidator_ValidateStep(t *testing.T) {
	v := NewValidator(0)

	tests := []struct {
		name    string
		step    int
		mutate  func(*StepPayload)
		wantErr error
	}{
		{name: "step 0 valid", step: StepIdentity},
		{name: "step 0 missing name", step: StepIdentity, mutate: func(p *StepPayload) { p.Name = "" }, wantErr: domainerrors.ErrNameRequired},
		{name: "step 0 missing email", step: StepIdentity, mutate: func(p *StepPayload) { p.Email = "" }, wantErr: domainerrors.ErrEmailRequired},
		{name: "step 1 valid", step: StepContact},
		{name: "step 1 missing phone", step: StepContact, mutate: func(p *StepPayload) { p.Phone = "" }, wantErr: domainerrors.ErrPhoneRequired},
		{name: "step 1 short password", step: StepContact, mutate: func(p *StepPayload) { p.Password = "abc" }, wantErr: domainerrors.ErrWeakPassword},
		{name: "step 1 empty password", step: StepContact, mutate: func(p *StepPayload) { p.Password = "" }, wantErr: domainerrors.ErrWeakPassword},
		{name: "step 2 valid", step: StepConfirmation},
		{name: "step 2 mismatch", step: StepConfirmation, mutate: func(p *StepPayload) { p.ConfirmPassword = "other12" }, wantErr: domainerrors.ErrPasswordMismatch},
		{name: "step 2 terms not accepted", step: StepConfirmation, mutate: func(p *StepPayload) { p.AgreeToTerms = false }, wantErr: domainerrors.ErrTermsNotAccepted},
		{name: "negative step", step: -1, wantErr: domainerrors.ErrInvalidStep},
		{name: "step beyond total", step: TotalSteps, wantErr: domainerrors.ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			if tt.mutate != nil {
				tt.mutate(&payload)
			}

			err := v.ValidateStep(tt.step, payload)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ValidateStep_PasswordLengthBoundary(t *testing.T) {
	v := NewValidator(6)

	payload := validPayload()
	payload.Password = "abcde"
	assert.ErrorIs(t, v.ValidateStep(StepContact, payload), domainerrors.ErrWeakPassword)

	payload.Password = "abcdef"
	assert.NoError(t, v.ValidateStep(StepContact, payload))
}

func TestValidator_ValidateStep_MismatchWinsOverOtherFields(t *testing.T) {
	// Step 2 rejects a mismatch regardless of the validity of other fields.
	v := NewValidator(0)

	payload := StepPayload{
		Password:        "secret1",
		ConfirmPassword: "secret2",
		AgreeToTerms:    true,
	}
	assert.ErrorIs(t, v.ValidateStep(StepConfirmation, payload), domainerrors.ErrPasswordMismatch)
}

func TestValidator_ValidateRegistration(t *testing.T) {
	v := NewValidator(0)

	assert.NoError(t, v.ValidateRegistration(validPayload()))

	missingName := validPayload()
	missingName.Name = ""
	assert.ErrorIs(t, v.ValidateRegistration(missingName), domainerrors.ErrNameRequired)

	weak := validPayload()
	weak.Password = "abc"
	weak.ConfirmPassword = "abc"
	assert.ErrorIs(t, v.ValidateRegistration(weak), domainerrors.ErrWeakPassword)

	mismatch := validPayload()
	mismatch.ConfirmPassword = "secret2"
	assert.ErrorIs(t, v.ValidateRegistration(mismatch), domainerrors.ErrPasswordMismatch)

	// Terms are not part of the registration body and must not be re-checked.
	noTerms := validPayload()
	noTerms.AgreeToTerms = false
	assert.NoError(t, v.ValidateRegistration(noTerms))
}

func TestNewValidator_DefaultMinLength(t *testing.T) {
	v := NewValidator(-1)

	payload := validPayload()
	payload.Password = "12345"
	payload.ConfirmPassword = "12345"
	assert.ErrorIs(t, v.ValidateStep(StepContact, payload), domainerrors.ErrWeakPassword)
}
