// pkg/client/controller.go
package client

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State of the auth controller.
type State string

const (
	StateAnonymous       State = "anonymous"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateSessionConflict State = "session_conflict"
)

// userFreshness is how long a fetched user is served without hitting the
// network again.
const userFreshness = 5 * time.Minute

var mobilePattern = regexp.MustCompile(`^[0-9]{10,15}$`)
var nonDigits = regexp.MustCompile(`[^0-9]`)

// ErrNotAuthenticated is returned when an operation needs a cached token and
// none is present.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoConflict is returned when a conflict operation runs outside the
// session-conflict state.
var ErrNoConflict = errors.New("no session conflict pending")

// ErrSessionConflict signals that login was rejected because the account is
// at its device cap. Inspect Conflict() for the pending sessions.
var ErrSessionConflict = errors.New("session limit reached on another device")

// Notifier receives user-facing messages, the way the dashboard shows
// toasts.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Conflict holds what the server revealed when it refused a login over the
// session cap, plus the credentials to retry with once a slot is free.
type Conflict struct {
	Token    string
	Sessions []Session

	mobile   string
	password string
}

// Controller drives the login/logout lifecycle over a Client. All methods
// are safe for concurrent use; the last writer wins on overlapping calls.
type Controller struct {
	client   *Client
	store    CredentialStore
	notifier Notifier
	logger   *zap.Logger

	mu        sync.Mutex
	state     State
	user      *User
	fetchedAt time.Time
	conflict  *Conflict

	now func() time.Time
}

func NewController(client *Client, store CredentialStore, notifier Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	state := StateAnonymous
	if store.Token() != "" {
		state = StateAuthenticated
	}

	return &Controller{
		client:   client,
		store:    store,
		notifier: notifier,
		logger:   logger,
		state:    state,
		now:      time.Now,
	}
}

// State returns the current controller state.
func (ctl *Controller) State() State {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.state
}

// Conflict returns the pending session conflict, if any.
func (ctl *Controller) Conflict() (*Conflict, bool) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if ctl.conflict == nil {
		return nil, false
	}
	return ctl.conflict, true
}

// ========== Login ==========

// Login validates the credentials locally, then authenticates. Validation
// failures return a *ValidationError without touching the network.
func (ctl *Controller) Login(ctx context.Context, mobile, password string) (*User, error) {
	mobile = nonDigits.ReplaceAllString(mobile, "")

	fields := map[string]string{}
	if !mobilePattern.MatchString(mobile) {
		fields["mobile"] = "enter a valid mobile number"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	ctl.setState(StateAuthenticating)
	return ctl.login(ctx, mobile, password)
}

func (ctl *Controller) login(ctx context.Context, mobile, password string) (*User, error) {
	var resp LoginResponse
	err := ctl.client.Do(ctx, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"mobile": mobile, "password": password}, &resp)

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsSessionConflict() {
			ctl.mu.Lock()
			ctl.state = StateSessionConflict
			ctl.conflict = &Conflict{
				Token:    apiErr.Details.Token,
				Sessions: apiErr.Details.Sessions,
				mobile:   mobile,
				password: password,
			}
			ctl.mu.Unlock()
			return nil, ErrSessionConflict
		}

		message := "Login failed. Please check your credentials."
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			message = apiErr.Message
		}
		ctl.notifier.Error(message)
		ctl.setState(StateAnonymous)
		return nil, err
	}

	if err := ctl.store.SetCredentials(resp.Token, &resp.User); err != nil {
		ctl.logger.Warn("failed to persist credentials", zap.Error(err))
	}

	ctl.mu.Lock()
	ctl.state = StateAuthenticated
	ctl.user = &resp.User
	ctl.fetchedAt = ctl.now()
	ctl.conflict = nil
	ctl.mu.Unlock()

	ctl.notifier.Success("Welcome back!")
	ctl.client.navigate(HomeRoute)
	return &resp.User, nil
}

// ========== Session conflict ==========

// LogoutSession revokes one of the sessions blocking a login, authorized by
// the conflict token the server handed out. On success the held credentials
// are retried exactly once.
func (ctl *Controller) LogoutSession(ctx context.Context, sessionID string) (*User, error) {
	ctl.mu.Lock()
	conflict := ctl.conflict
	ctl.mu.Unlock()
	if conflict == nil {
		return nil, ErrNoConflict
	}

	// The conflict token goes out raw, not Bearer-prefixed.
	err := ctl.client.DoWithAuth(ctx, http.MethodDelete,
		"/api/v1/auth/sessions/"+sessionID, conflict.Token, nil, nil)
	if err != nil {
		ctl.notifier.Error("Failed to terminate session")
		return nil, err
	}

	ctl.mu.Lock()
	ctl.conflict = nil
	ctl.state = StateAuthenticating
	ctl.mu.Unlock()

	ctl.notifier.Success("Session terminated")
	return ctl.login(ctx, conflict.mobile, conflict.password)
}

// ========== Logout ==========

// Logout ends the current session. Local credentials are dropped whether or
// not the server call succeeds; a dead token must never strand the user in a
// logged-in shell.
func (ctl *Controller) Logout(ctx context.Context) error {
	err := ctl.client.Do(ctx, http.MethodDelete, "/api/v1/auth/logout", nil, nil)
	if err != nil {
		ctl.logger.Warn("server logout failed", zap.Error(err))
	}

	if cerr := ctl.store.Clear(); cerr != nil {
		ctl.logger.Warn("failed to clear credentials", zap.Error(cerr))
	}

	ctl.mu.Lock()
	ctl.state = StateAnonymous
	ctl.user = nil
	ctl.fetchedAt = time.Time{}
	ctl.conflict = nil
	ctl.mu.Unlock()

	ctl.notifier.Success("Logged out")
	ctl.client.navigate(LoginRoute)
	return err
}

// ========== Current user ==========

// CurrentUser returns the authenticated user, served from cache for five
// minutes after a fetch. It requires a cached token and never retries.
func (ctl *Controller) CurrentUser(ctx context.Context) (*User, error) {
	if ctl.store.Token() == "" {
		return nil, ErrNotAuthenticated
	}

	ctl.mu.Lock()
	if ctl.user != nil && ctl.now().Sub(ctl.fetchedAt) < userFreshness {
		u := ctl.user
		ctl.mu.Unlock()
		return u, nil
	}
	ctl.mu.Unlock()

	var user User
	if err := ctl.client.Do(ctx, http.MethodGet, "/api/v1/auth/user", nil, &user); err != nil {
		return nil, err
	}

	ctl.mu.Lock()
	ctl.user = &user
	ctl.fetchedAt = ctl.now()
	ctl.state = StateAuthenticated
	ctl.mu.Unlock()

	return &user, nil
}

func (ctl *Controller) setState(s State) {
	ctl.mu.Lock()
	ctl.state = s
	ctl.mu.Unlock()
}
