// Package client implements the Go client for the sign-up and login API: a
// typed HTTP client plus the wizard controller that drives the staged
// registration flow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultRequestTimeout = 15 * time.Second

// APIError is a rejection from the server, carrying the HTTP status and the
// user-facing message from the response body.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// User is the public account payload returned by login and profile calls.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  *User
}

// apiResponse mirrors the server's response envelope.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// stepRequest is the wire form of a single step-validation call.
type stepRequest struct {
	Step            int    `json:"step"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	AgreeToTerms    bool   `json:"agreeToTerms,omitempty"`
}

// registerRequest is the wire form of the final sign-up submission.
type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// loginRequest is the wire form of a login attempt.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Client is a typed HTTP client for the API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Client pointed at the given base URL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// post sends a JSON body and decodes the response envelope. A response with
// success=false becomes an *APIError.
func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response from %s", path)
	}

	if !decoded.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: decoded.Message}
	}

	return &decoded, nil
}

// ValidateStep asks the server to validate one wizard step.
func (c *Client) ValidateStep(ctx context.Context, req stepRequest) error {
	_, err := c.post(ctx, "/api/user/validate-step", req)

	return err
}

// Register submits the full sign-up draft.
func (c *Client) Register(ctx context.Context, req registerRequest) error {
	_, err := c.post(ctx, "/api/user/register", req)

	return err
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.post(ctx, "/api/user/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	return &Session{Token: resp.Token, User: resp.User}, nil
}

// Profile fetches the account bound to a session token.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user/profile", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "profile request failed")
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode profile response")
	}
	if !decoded.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: decoded.Message}
	}

	return decoded.User, nil
}
