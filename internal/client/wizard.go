package client

import (
	"context"
	"sync"

	"enroll/internal/domain/signup"

	"github.com/pkg/errors"
)

var (
	// ErrBusy is returned when Next is called while a previous submission is
	// still in flight. The caller keeps its state; nothing was sent.
	ErrBusy = errors.New("a submission is already in flight")

	// ErrDone is returned when Next is called after registration completed.
	ErrDone = errors.New("registration already completed")
)

// Draft is the wizard's working copy of the sign-up form. It lives only for
// the duration of the flow and is submitted in full at the final step.
type Draft struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AgreeToTerms    bool
}

// Wizard drives the staged registration flow against a Client. Advancing a
// step requires the server to accept it; going back is always local. All
// methods are safe for concurrent use.
type Wizard struct {
	client *Client

	mu    sync.Mutex
	step  int
	busy  bool
	done  bool
	draft Draft
}

// NewWizard creates a wizard at the first step with an empty draft.
func NewWizard(client *Client) *Wizard {
	return &Wizard{client: client}
}

// Step returns the current step index.
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.step
}

// Done reports whether registration has completed.
func (w *Wizard) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.done
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.draft
}

// SetIdentity fills the first step's fields.
func (w *Wizard) SetIdentity(fullName, email string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft.FullName = fullName
	w.draft.Email = email
}

// SetContact fills the second step's fields.
func (w *Wizard) SetContact(phone, password string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft.Phone = phone
	w.draft.Password = password
}

// SetConfirmation fills the final step's fields.
func (w *Wizard) SetConfirmation(confirmPassword string, agreeToTerms bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft.ConfirmPassword = confirmPassword
	w.draft.AgreeToTerms = agreeToTerms
}

// Back moves one step backwards. At the first step it returns false, which
// the caller treats as leaving the flow.
func (w *Wizard) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == 0 {
		return false
	}
	w.step--

	return true
}

// Next validates the current step with the server. On acceptance it advances;
// on the final step it submits the full draft and marks the flow done. On
// rejection the step does not change and the server's reason is returned.
// While a call is in flight, further Next calls fail with ErrBusy.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()

		return ErrDone
	}
	if w.busy {
		w.mu.Unlock()

		return ErrBusy
	}
	w.busy = true
	step := w.step
	draft := w.draft
	w.mu.Unlock()

	advanced, err := w.submit(ctx, step, draft)

	w.mu.Lock()
	w.busy = false
	if advanced {
		if step == signup.TotalSteps-1 {
			w.done = true
		} else {
			w.step = step + 1
		}
	}
	w.mu.Unlock()

	return err
}

// submit performs the network calls for one Next invocation. It runs without
// the wizard lock held so the busy flag stays observable.
func (w *Wizard) submit(ctx context.Context, step int, draft Draft) (bool, error) {
	if err := w.client.ValidateStep(ctx, stepPayload(step, draft)); err != nil {
		return false, err
	}

	if step == signup.TotalSteps-1 {
		if err := w.client.Register(ctx, registerRequest{
			Name:            draft.FullName,
			Email:           draft.Email,
			Phone:           draft.Phone,
			Password:        draft.Password,
			ConfirmPassword: draft.ConfirmPassword,
		}); err != nil {
			return false, err
		}
	}

	return true, nil
}

// stepPayload packages only the fields the given step owns.
func stepPayload(step int, draft Draft) stepRequest {
	req := stepRequest{Step: step}
	switch step {
	case signup.StepIdentity:
		req.Name = draft.FullName
		req.Email = draft.Email
	case signup.StepContact:
		req.Phone = draft.Phone
		req.Password = draft.Password
	case signup.StepConfirmation:
		req.Password = draft.Password
		req.ConfirmPassword = draft.ConfirmPassword
		req.AgreeToTerms = draft.AgreeToTerms
	}

	return req
}
