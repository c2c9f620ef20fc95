package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"greenwell-service/internal/domain/auth"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/jwt"
	"greenwell-service/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ========== Fakes ==========

type fakeUserRepo struct {
	users map[string]*auth.User
}

func (f *fakeUserRepo) FindUserByMobile(_ context.Context, mobile string) (*auth.User, error) {
	u, ok := f.users[mobile]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id int64) (*auth.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *auth.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users[user.Mobile] = user
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(context.Context, int64) error { return nil }

func (f *fakeUserRepo) ExistsByMobile(_ context.Context, mobile string) (bool, error) {
	_, ok := f.users[mobile]
	return ok, nil
}

type fakeSessionStore struct {
	sessions    map[string]*session.Data
	blacklisted map[string]bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions:    map[string]*session.Data{},
		blacklisted: map[string]bool{},
	}
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

type fakeLimiter struct {
	blocked bool
}

func (f *fakeLimiter) CheckLoginAttempt(context.Context, string, string) (bool, int64, error) {
	return !f.blocked, 4, nil
}

func (f *fakeLimiter) ResetLoginAttempts(context.Context, string, string) error { return nil }

type fakeNotifier struct {
	forcedOut []string
}

func (f *fakeNotifier) ForceLogout(_ int64, sessionID, _ string) {
	f.forcedOut = append(f.forcedOut, sessionID)
}

// ========== Helpers ==========

func testJWTManager(t *testing.T) *jwt.Manager {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return jwt.Build(priv, &priv.PublicKey, jwt.Config{
		Issuer:   "greenwell",
		Audience: "greenwell-dashboard",
		TTL:      time.Hour,
		KID:      "test-key",
	})
}

func testUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           7,
		FirstName:    "Asha",
		Mobile:       "9876543210",
		Role:         "admin",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

type fixture struct {
	service  *AuthService
	users    *fakeUserRepo
	sessions *fakeSessionStore
	limiter  *fakeLimiter
	notifier *fakeNotifier
	jwt      *jwt.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    &fakeUserRepo{users: map[string]*auth.User{}},
		sessions: newFakeSessionStore(),
		limiter:  &fakeLimiter{},
		notifier: &fakeNotifier{},
		jwt:      testJWTManager(t),
	}
	f.service = NewAuthService(f.users, f.jwt, f.sessions, f.limiter, f.notifier, 3, zap.NewNop())
	return f
}

func loginReq(password string) *auth.LoginRequest {
	return &auth.LoginRequest{
		Mobile:    "9876543210",
		Password:  password,
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
	}
}

// ========== Tests ==========

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	f.users.users["9876543210"] = testUser(t, "secret")

	resp, err := f.service.Login(context.Background(), loginReq("secret"))
	require.NoError(t, err)

	assert.Equal(t, "access", resp.TokenType)
	assert.Equal(t, "3600", resp.ExpiresIn)
	assert.Equal(t, "Asha", resp.User.FirstName)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Len(t, f.sessions.sessions, 1)

	// The issued token verifies and its JTI matches the stored session.
	claims, err := f.jwt.Verifier.VerifyAccessToken(resp.Token)
	require.NoError(t, err)
	_, ok := f.sessions.sessions[claims.ID]
	assert.True(t, ok, "session id doubles as the token jti")
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.users.users["9876543210"] = testUser(t, "secret")

	_, err := f.service.Login(context.Background(), loginReq("nope"))
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredential)
	assert.Empty(t, f.sessions.sessions)
}

func TestLoginUnknownMobile(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), loginReq("secret"))
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredential)
}

func TestLoginInactiveAccount(t *testing.T) {
	f := newFixture(t)
	u := testUser(t, "secret")
	u.IsActive = false
	f.users.users["9876543210"] = u

	_, err := f.service.Login(context.Background(), loginReq("secret"))
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestLoginRateLimited(t *testing.T) {
	f := newFixture(t)
	f.users.users["9876543210"] = testUser(t, "secret")
	f.limiter.blocked = true

	_, err := f.service.Login(context.Background(), loginReq("secret"))
	assert.ErrorIs(t, err, xerrors.ErrRateLimited)
}

func TestLoginSessionCap(t *testing.T) {
	f := newFixture(t)
	f.users.users["9876543210"] = testUser(t, "secret")

	// Fill all three slots.
	for i := 0; i < 3; i++ {
		_, err := f.service.Login(context.Background(), loginReq("secret"))
		require.NoError(t, err)
	}

	_, err := f.service.Login(context.Background(), loginReq("secret"))
	require.Error(t, err)

	var limitErr *SessionLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.ErrorIs(t, err, xerrors.ErrSessionLimit)
	assert.Len(t, limitErr.Sessions, 3)
	assert.Len(t, f.sessions.sessions, 3, "no fourth session opened")

	// The handed-out token is conflict-scoped, not an access token.
	claims, err := f.jwt.Verifier.VerifyConflictToken(limitErr.ConflictToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	_, err = f.jwt.Verifier.VerifyAccessToken(limitErr.ConflictToken)
	assert.Error(t, err, "conflict token must not pass as an access token")
}

func TestLoginSessionCapWithWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.users.users["9876543210"] = testUser(t, "secret")

	for i := 0; i < 3; i++ {
		_, err := f.service.Login(context.Background(), loginReq("secret"))
		require.NoError(t, err)
	}

	// The sessions list is only revealed to callers holding the password.
	_, err := f.service.Login(context.Background(), loginReq("wrong"))
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredential)
	var limitErr *SessionLimitError
	assert.False(t, errors.As(err, &limitErr))
}

func TestRevokeSessionFreesSlot(t *testing.T) {
	f := newFixture(t)
	f.users.users["9876543210"] = testUser(t, "secret")

	for i := 0; i < 3; i++ {
		_, err := f.service.Login(context.Background(), loginReq("secret"))
		require.NoError(t, err)
	}

	var victim string
	for id := range f.sessions.sessions {
		victim = id
		break
	}

	require.NoError(t, f.service.RevokeSession(context.Background(), 7, victim))

	assert.True(t, f.sessions.blacklisted[victim], "revoked jti is blacklisted")
	assert.Equal(t, []string{victim}, f.notifier.forcedOut)

	// The freed slot makes the next login succeed.
	_, err := f.service.Login(context.Background(), loginReq("secret"))
	require.NoError(t, err)
	assert.Len(t, f.sessions.sessions, 3)
}

func TestRevokeUnknownSession(t *testing.T) {
	f := newFixture(t)
	err := f.service.RevokeSession(context.Background(), 7, "ghost")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestValidateTokenRejectsBlacklisted(t *testing.T) {
	f := newFixture(t)
	f.users.users["9876543210"] = testUser(t, "secret")

	resp, err := f.service.Login(context.Background(), loginReq("secret"))
	require.NoError(t, err)

	claims, err := f.service.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), claims.UserID, claims.ID))

	_, err = f.service.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestEnsureAdminExists(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.service.EnsureAdminExists(context.Background(), "9876543210", "strongpass", "Asha"))

	u, ok := f.users.users["9876543210"]
	require.True(t, ok)
	assert.Equal(t, "admin", u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("strongpass")))

	// Idempotent on the second boot.
	require.NoError(t, f.service.EnsureAdminExists(context.Background(), "9876543210", "otherpass", "Asha"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("strongpass")))
}
