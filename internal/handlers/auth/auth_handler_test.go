package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"greenwell-service/internal/domain/auth"
	"greenwell-service/internal/middleware"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/jwt"
	"greenwell-service/internal/pkg/session"
	authUsecase "greenwell-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ========== Fakes ==========

type fakeUserRepo struct {
	user *auth.User
}

func (f *fakeUserRepo) FindUserByMobile(_ context.Context, mobile string) (*auth.User, error) {
	if f.user != nil && f.user.Mobile == mobile {
		return f.user, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id int64) (*auth.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *auth.User) error { return nil }
func (f *fakeUserRepo) UpdateLastLogin(context.Context, int64) error        { return nil }
func (f *fakeUserRepo) ExistsByMobile(context.Context, string) (bool, error) {
	return true, nil
}

type fakeSessionStore struct {
	sessions    map[string]*session.Data
	blacklisted map[string]bool
}

func (f *fakeSessionStore) CreateSession(_ context.Context, data *session.Data) error {
	f.sessions[data.ID] = data
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, _ int64, id string) (*session.Data, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) TouchSession(context.Context, int64, string) error { return nil }

func (f *fakeSessionStore) InvalidateSession(_ context.Context, _ int64, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) ListUserSessions(_ context.Context, userID int64) ([]*session.Data, error) {
	var out []*session.Data
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) IsTokenBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.blacklisted[jti], nil
}

func (f *fakeSessionStore) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	f.blacklisted[jti] = true
	return nil
}

type openLimiter struct{}

func (openLimiter) CheckLoginAttempt(context.Context, string, string) (bool, int64, error) {
	return true, 5, nil
}
func (openLimiter) ResetLoginAttempts(context.Context, string, string) error { return nil }

type nopNotifier struct{}

func (nopNotifier) ForceLogout(int64, string, string) {}

// ========== Harness ==========

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	manager := jwt.Build(priv, &priv.PublicKey, jwt.Config{
		Issuer:   "greenwell",
		Audience: "greenwell-dashboard",
		TTL:      time.Hour,
		KID:      "test-key",
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	service := authUsecase.NewAuthService(
		&fakeUserRepo{user: &auth.User{
			ID:           7,
			FirstName:    "Asha",
			Mobile:       "9876543210",
			Role:         "admin",
			PasswordHash: string(hash),
			IsActive:     true,
		}},
		manager,
		&fakeSessionStore{sessions: map[string]*session.Data{}, blacklisted: map[string]bool{}},
		openLimiter{},
		nopNotifier{},
		3,
		zap.NewNop(),
	)

	handler := NewAuthHandler(service, zap.NewNop())
	authMW := middleware.NewAuthMiddleware(service)

	r := gin.New()
	r.POST("/auth/login", handler.Login)
	r.GET("/auth/user", authMW.Auth(), handler.GetUser)
	r.DELETE("/auth/logout", authMW.Auth(), handler.Logout)
	r.DELETE("/auth/sessions/:session_id", authMW.AuthOrConflict(), handler.RevokeSession)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, authorization string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func login(t *testing.T, r *gin.Engine, password string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return doJSON(t, r, http.MethodPost, "/auth/login",
		`{"mobile":"9876543210","password":"`+password+`"}`, "")
}

// ========== Tests ==========

func TestLoginWireFormat(t *testing.T) {
	r := newTestRouter(t)

	w, body := login(t, r, "secret")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "access", body["token_type"])
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "3600", body["expires_in"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "Asha", user["first_name"])
	assert.Equal(t, "9876543210", user["mobile"])
	assert.Equal(t, "admin", user["role"])
}

func TestLoginInvalidCredentialsCode(t *testing.T) {
	r := newTestRouter(t)

	w, body := login(t, r, "wrong")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Bad credentials are not the token-expiry code; the dashboard only
	// force-logs-out on "unauthorized".
	assert.Equal(t, "invalid_credentials", body["code"])
}

func TestSessionCapConflictPayload(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 3; i++ {
		w, _ := login(t, r, "secret")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := login(t, r, "secret")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "session_limit", body["code"])

	details := body["details"].(map[string]any)
	assert.Equal(t, "user_already_logged_in", details["process_code"])
	assert.NotEmpty(t, details["token"])

	sessions := details["sessions"].([]any)
	require.Len(t, sessions, 3)
	first := sessions[0].(map[string]any)
	assert.NotEmpty(t, first["id"])
	assert.Equal(t, "test-agent", first["user_agent"])
	assert.NotEmpty(t, first["created_at"])
}

func TestConflictTokenRevokesAndRetrySucceeds(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 3; i++ {
		w, _ := login(t, r, "secret")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := login(t, r, "secret")
	require.Equal(t, http.StatusForbidden, w.Code)
	details := body["details"].(map[string]any)
	conflictToken := details["token"].(string)
	sessions := details["sessions"].([]any)
	victim := sessions[0].(map[string]any)["id"].(string)

	// The dashboard sends the conflict token raw, without a Bearer prefix.
	w, _ = doJSON(t, r, http.MethodDelete, "/auth/sessions/"+victim, "", conflictToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = login(t, r, "secret")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConflictTokenCannotAccessData(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 3; i++ {
		w, _ := login(t, r, "secret")
		require.Equal(t, http.StatusOK, w.Code)
	}

	_, body := login(t, r, "secret")
	conflictToken := body["details"].(map[string]any)["token"].(string)

	w, errBody := doJSON(t, r, http.MethodGet, "/auth/user", "", "Bearer "+conflictToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errBody["code"])
}

func TestGetUserAndLogout(t *testing.T) {
	r := newTestRouter(t)

	w, body := login(t, r, "secret")
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	w, user := doJSON(t, r, http.MethodGet, "/auth/user", "", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha", user["first_name"])

	w, _ = doJSON(t, r, http.MethodDelete, "/auth/logout", "", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	// The token dies with its session.
	w, errBody := doJSON(t, r, http.MethodGet, "/auth/user", "", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errBody["code"])
}

func TestMissingTokenUnauthorized(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodGet, "/auth/user", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", body["code"])
}
