package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer is a scripted API endpoint recording what the wizard sends.
type stubServer struct {
	mu            sync.Mutex
	stepRequests  []map[string]any
	registerBody  map[string]any
	rejectStep    int    // step to reject, -1 accepts everything
	rejectMessage string // message returned on rejection
	gate          chan struct{}
}

func newStubServer() *stubServer {
	return &stubServer{rejectStep: -1}
}

func (s *stubServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/user/validate-step", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		s.mu.Lock()
		s.stepRequests = append(s.stepRequests, body)
		s.mu.Unlock()

		if s.gate != nil {
			<-s.gate
		}

		step := int(body["step"].(float64))
		if step == s.rejectStep {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": s.rejectMessage})

			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	mux.HandleFunc("/api/user/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		s.mu.Lock()
		s.registerBody = body
		s.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Registration successfully. Please log in!"})
	})

	mux.HandleFunc("/api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body["email"] != "alice@example.com" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "User not found"})

			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Login successfully",
			"token":   "stub-token",
			"user": map[string]any{
				"id":    "00000000-0000-0000-0000-000000000001",
				"name":  "Alice Liang",
				"email": "alice@example.com",
				"phone": "0912345678",
			},
		})
	})

	return mux
}

func newWizardAgainstStub(t *testing.T, stub *stubServer) *Wizard {
	t.Helper()

	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	return NewWizard(New(server.URL))
}

func fillDraft(w *Wizard) {
	w.SetIdentity("Alice Liang", "alice@example.com")
	w.SetContact("0912345678", "secret1")
	w.SetConfirmation("secret1", true)
}

func TestWizard_FullFlow(t *testing.T) {
	stub := newStubServer()
	wizard := newWizardAgainstStub(t, stub)
	ctx := context.Background()

	fillDraft(wizard)

	require.NoError(t, wizard.Next(ctx))
	assert.Equal(t, 1, wizard.Step())

	require.NoError(t, wizard.Next(ctx))
	assert.Equal(t, 2, wizard.Step())

	require.NoError(t, wizard.Next(ctx))
	assert.True(t, wizard.Done())

	// The final submission carries the entire draft, not just step fields.
	require.NotNil(t, stub.registerBody)
	assert.Equal(t, "Alice Liang", stub.registerBody["name"])
	assert.Equal(t, "alice@example.com", stub.registerBody["email"])
	assert.Equal(t, "0912345678", stub.registerBody["phone"])
	assert.Equal(t, "secret1", stub.registerBody["password"])
	assert.Equal(t, "secret1", stub.registerBody["confirmPassword"])

	// Each step call only carried its own fields.
	require.Len(t, stub.stepRequests, 3)
	assert.NotContains(t, stub.stepRequests[0], "phone")
	assert.NotContains(t, stub.stepRequests[1], "name")

	// No further submissions after completion.
	assert.ErrorIs(t, wizard.Next(ctx), ErrDone)
}

func TestWizard_StaysOnRejectedStep(t *testing.T) {
	stub := newStubServer()
	stub.rejectStep = 1
	stub.rejectMessage = "Password must be at least 6 characters"
	wizard := newWizardAgainstStub(t, stub)
	ctx := context.Background()

	wizard.SetIdentity("Alice Liang", "alice@example.com")
	wizard.SetContact("0912345678", "12345")

	require.NoError(t, wizard.Next(ctx))
	require.Equal(t, 1, wizard.Step())

	err := wizard.Next(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, wizard.Step())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Password must be at least 6 characters", apiErr.Message)

	// Fixing the field allows the same step to pass.
	stub.rejectStep = -1
	wizard.SetContact("0912345678", "secret1")
	require.NoError(t, wizard.Next(ctx))
	assert.Equal(t, 2, wizard.Step())
}

func TestWizard_Back(t *testing.T) {
	stub := newStubServer()
	wizard := newWizardAgainstStub(t, stub)
	ctx := context.Background()

	// Back at the first step signals exit.
	assert.False(t, wizard.Back())

	fillDraft(wizard)
	require.NoError(t, wizard.Next(ctx))
	require.Equal(t, 1, wizard.Step())

	assert.True(t, wizard.Back())
	assert.Equal(t, 0, wizard.Step())
}

func TestWizard_BusyLockout(t *testing.T) {
	stub := newStubServer()
	stub.gate = make(chan struct{})
	wizard := newWizardAgainstStub(t, stub)
	ctx := context.Background()

	fillDraft(wizard)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- wizard.Next(ctx)
	}()

	// Wait until the first call reaches the stub and is parked on the gate.
	for {
		stub.mu.Lock()
		inFlight := len(stub.stepRequests) > 0
		stub.mu.Unlock()
		if inFlight {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// A second submission while the first is in flight is refused locally.
	assert.ErrorIs(t, wizard.Next(ctx), ErrBusy)

	close(stub.gate)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, wizard.Step())

	// The lockout releases once the call completes.
	require.NoError(t, wizard.Next(ctx))
	assert.Equal(t, 2, wizard.Step())
}

func TestClient_Login(t *testing.T) {
	stub := newStubServer()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	apiClient := New(server.URL)
	ctx := context.Background()

	session, err := apiClient.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "stub-token", session.Token)
	require.NotNil(t, session.User)
	assert.Equal(t, "alice@example.com", session.User.Email)

	_, err = apiClient.Login(ctx, "ghost@example.com", "secret1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "User not found", apiErr.Message)
}
