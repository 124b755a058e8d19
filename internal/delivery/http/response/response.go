// Package response defines the JSON bodies the mobile client parses. Field
// names and messages are a wire contract; renaming them breaks released
// client versions.
package response

import (
	"time"

	"enroll/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// Body is the envelope for every API response. Optional fields are omitted
// when empty, so a bare step-validation success serializes as {"success":true}.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// User is the public projection of an account. The password hash never
// appears here.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser maps a domain user to its public projection.
func NewUser(user *entity.User) *User {
	if user == nil {
		return nil
	}

	return &User{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

// OK writes a success body with an optional message.
func OK(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Body{
		Success: true,
		Message: message,
	})
}

// Session writes a successful login response carrying the token and user.
func Session(c echo.Context, statusCode int, message, token string, user *entity.User) error {
	return c.JSON(statusCode, Body{
		Success: true,
		Message: message,
		Token:   token,
		User:    NewUser(user),
	})
}

// Profile writes the current user payload for an authenticated request.
func Profile(c echo.Context, statusCode int, user *entity.User) error {
	return c.JSON(statusCode, Body{
		Success: true,
		User:    NewUser(user),
	})
}

// Fail writes an error body.
func Fail(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Body{
		Success: false,
		Message: message,
	})
}
