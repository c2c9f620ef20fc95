// Package apierror defines the wire error body shared by every endpoint.
// Clients branch on Code and Details.ProcessCode, so the set of values is
// closed and kept here rather than scattered through handlers.
package apierror

// Stable error codes carried in the top-level "code" field.
const (
	CodeUnauthorized       = "unauthorized"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeValidation         = "validation_failed"
	CodeConflict           = "conflict"
	CodeRateLimited        = "rate_limited"
	CodeSessionLimit       = "session_limit"
	CodeInternal           = "internal_error"
)

// Process codes carried in "details.process_code".
const (
	ProcessUserAlreadyLoggedIn = "user_already_logged_in"
)

// SessionInfo is the wire form of a remote device session, listed when a
// login attempt is rejected for exceeding the session cap.
type SessionInfo struct {
	ID        string `json:"id"`
	UserAgent string `json:"user_agent"`
	CreatedAt string `json:"created_at"`
}

// Details holds the structured portion of an error body. Token and Sessions
// are only populated together with ProcessUserAlreadyLoggedIn.
type Details struct {
	ProcessCode string            `json:"process_code,omitempty"`
	Token       string            `json:"token,omitempty"`
	Sessions    []SessionInfo     `json:"sessions,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// Error is the body returned on every non-2xx response.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details *Details `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// New builds a plain error body without details.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}
