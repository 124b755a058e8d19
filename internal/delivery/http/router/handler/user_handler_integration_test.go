package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"enroll/config"
	deliverymiddleware "enroll/internal/delivery/http/middleware"
	"enroll/internal/delivery/http/validator"
	"enroll/internal/infra/auth"
	"enroll/internal/infra/persistence/memory"
	"enroll/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestServer wires an echo instance with the real usecase over the
// in-memory store, the same way the production server is assembled.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{MinPasswordLength: 6},
	}
	cfg.SecretKey.Token = "test_secret_key_very_long_for_testing"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userRepo := memory.NewUserRepository()
	logger := slog.Default()

	uc := impl.NewUserService(impl.UserServiceParams{
		TxManager:    memory.NewTransactionManager(userRepo),
		UserRepo:     userRepo,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenSvc,
		Config:       cfg,
		Logger:       logger,
	})

	userHandler := NewUserHandler(uc, logger)
	authMiddleware := deliverymiddleware.NewAuthMiddleware(tokenSvc)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = deliverymiddleware.NewErrorMiddleware(logger).HandleHTTPError

	userGroup := e.Group("/api/user")
	userGroup.POST("/register", userHandler.Register)
	userGroup.POST("/login", userHandler.Login)
	userGroup.POST("/validate-step", userHandler.ValidateStep)
	userGroup.GET("/profile", userHandler.GetProfile, authMiddleware.Authenticate)

	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

const aliceDraft = `{
	"name": "Alice Liang",
	"email": "alice@example.com",
	"phone": "0912345678",
	"password": "secret1",
	"confirmPassword": "secret1"
}`

func TestFullSignUpAndLoginFlow(t *testing.T) {
	e := newTestServer(t)

	// Step 0: identity.
	rec := postJSON(e, "/api/user/validate-step",
		`{"step":0,"name":"Alice Liang","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// Step 1: contact and password.
	rec = postJSON(e, "/api/user/validate-step",
		`{"step":1,"phone":"0912345678","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Step 2: confirmation and terms.
	rec = postJSON(e, "/api/user/validate-step",
		`{"step":2,"password":"secret1","confirmPassword":"secret1","agreeToTerms":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Final submission.
	rec = postJSON(e, "/api/user/register", aliceDraft)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Registration successfully. Please log in!"}`, rec.Body.String())

	// Login returns a token and a password-free user payload.
	rec = postJSON(e, "/api/user/login", `{"email":"alice@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Login successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice Liang", user["name"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "0912345678", user["phone"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestLogin_UnknownUser(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/login", `{"email":"ghost@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"User not found"}`, rec.Body.String())
}

func TestLogin_MissingFields(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/login", `{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"All fields are required"}`, rec.Body.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/register", aliceDraft)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, "/api/user/login", `{"email":"alice@example.com","password":"nope123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestValidateStep_WeakPassword(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/validate-step", `{"step":1,"phone":"0912345678","password":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Password must be at least 6 characters"}`, rec.Body.String())
}

func TestValidateStep_DuplicateEmail(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/register", aliceDraft)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, "/api/user/validate-step",
		`{"step":0,"name":"Another Alice","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"User already register with this email"}`, rec.Body.String())
}

func TestValidateStep_InvalidStep(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/validate-step", `{"step":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid step"}`, rec.Body.String())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/register", aliceDraft)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, "/api/user/register", aliceDraft)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"User already register with this email"}`, rec.Body.String())
}

func TestRegister_MismatchedConfirmation(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/register", `{
		"name": "Alice Liang",
		"email": "alice@example.com",
		"phone": "0912345678",
		"password": "secret1",
		"confirmPassword": "secret2"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Confirm password does not match"}`, rec.Body.String())
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	e := newTestServer(t)

	// 80 characters clears the domain minimum but exceeds bcrypt's 72-byte
	// input limit; the structural check must reject it before hashing turns
	// it into an internal error.
	long := strings.Repeat("a", 80)
	rec := postJSON(e, "/api/user/register", `{
		"name": "Alice Liang",
		"email": "alice@example.com",
		"phone": "0912345678",
		"password": "`+long+`",
		"confirmPassword": "`+long+`"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestValidateStep_MalformedEmail(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/validate-step",
		`{"step":0,"name":"Alice Liang","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	// An empty email still gets the domain's own message, not the
	// structural one.
	rec = postJSON(e, "/api/user/validate-step", `{"step":0,"name":"Alice Liang"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Email is required"}`, rec.Body.String())
}

func TestGetProfile_RequiresToken(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProfile_WithSessionToken(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/api/user/register", aliceDraft)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, "/api/user/login", `{"email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", user["email"])
}
