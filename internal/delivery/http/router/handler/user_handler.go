// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"enroll/internal/delivery/http/response"
	"enroll/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// The validate tags cover structural limits only: field presence and the
// step-rule messages stay with the domain validator, which owns the wording
// the mobile client displays. Length caps mirror the users table columns;
// the 72-byte password cap is bcrypt's input limit, which would otherwise
// surface as a hashing failure.

// registerRequest is the wire form of the full sign-up draft.
type registerRequest struct {
	Name            string `json:"name" validate:"max=100"`
	Email           string `json:"email" validate:"omitempty,email,max=255"`
	Phone           string `json:"phone" validate:"max=30"`
	Password        string `json:"password" validate:"max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"max=72"`
}

// loginRequest is the wire form of a login attempt.
type loginRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"max=72"`
}

// validateStepRequest carries one wizard step's fields. Only the fields that
// belong to the named step are expected to be set.
type validateStepRequest struct {
	Step            int    `json:"step"`
	Name            string `json:"name" validate:"max=100"`
	Email           string `json:"email" validate:"omitempty,email,max=255"`
	Phone           string `json:"phone" validate:"max=30"`
	Password        string `json:"password" validate:"max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"max=72"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the final sign-up submission.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// The created account is not echoed back; the client logs in afterwards.
	return response.OK(c, http.StatusCreated, "Registration successfully. Please log in!")
}

// Login handles the user login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Session(c, http.StatusOK, "Login successfully", output.Token, output.User)
}

// ValidateStep handles a single wizard-step validation request.
func (h *UserHandler) ValidateStep(c echo.Context) error {
	var req validateStepRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid step input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.uc.ValidateStep(c.Request().Context(), &usecase.ValidateStepInput{
		Step:            req.Step,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AgreeToTerms:    req.AgreeToTerms,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, http.StatusOK, "")
}

// GetProfile handles the request to get the current user's profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userIDVal := c.Get("userID")
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Invalid user ID in token")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Profile(c, http.StatusOK, user)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Welcome answers the root path so load balancer probes get a friendly body.
func Welcome(c echo.Context) error {
	return c.String(http.StatusOK, "Auth API is running")
}
