// pkg/client/types.go
package client

import "fmt"

// User is the dashboard account as the API returns it.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile"`
	Role      string `json:"role"`
}

// Session describes one active login, as listed in a conflict response.
type Session struct {
	ID        string `json:"id"`
	UserAgent string `json:"user_agent"`
	CreatedAt string `json:"created_at"`
}

// LoginResponse is the POST /auth/login success body.
type LoginResponse struct {
	TokenType string `json:"token_type"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expires_in"`
	User      User   `json:"user"`
}

// Error codes the server emits.
const (
	CodeUnauthorized       = "unauthorized"
	CodeInvalidCredentials = "invalid_credentials"
	CodeSessionLimit       = "session_limit"
)

// ProcessUserAlreadyLoggedIn marks a login rejected by the session cap.
const ProcessUserAlreadyLoggedIn = "user_already_logged_in"

// ErrorDetails carries machine-readable context on an API error.
type ErrorDetails struct {
	ProcessCode string            `json:"process_code,omitempty"`
	Token       string            `json:"token,omitempty"`
	Sessions    []Session         `json:"sessions,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// APIError is a non-2xx server response body, returned unchanged to the
// caller.
type APIError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Details    *ErrorDetails `json:"details,omitempty"`
	StatusCode int           `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSessionConflict reports whether this error is the session-cap rejection.
func (e *APIError) IsSessionConflict() bool {
	return e.Details != nil && e.Details.ProcessCode == ProcessUserAlreadyLoggedIn
}

// ValidationError is returned by the controller before any network call when
// the submitted credentials are malformed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
