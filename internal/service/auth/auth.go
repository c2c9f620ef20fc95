// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"greenwell-service/internal/domain/auth"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/jwt"
	"greenwell-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the slice of the postgres auth repository this service
// needs.
type UserRepository interface {
	FindUserByMobile(ctx context.Context, mobile string) (*auth.User, error)
	FindUserByID(ctx context.Context, id int64) (*auth.User, error)
	CreateUser(ctx context.Context, user *auth.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)
}

// SessionStore is the slice of the redis session manager this service needs.
type SessionStore interface {
	CreateSession(ctx context.Context, data *session.Data) error
	GetSession(ctx context.Context, userID int64, id string) (*session.Data, error)
	TouchSession(ctx context.Context, userID int64, id string) error
	InvalidateSession(ctx context.Context, userID int64, id string) error
	ListUserSessions(ctx context.Context, userID int64) ([]*session.Data, error)
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// LoginLimiter throttles credential guessing.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, mobile string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, mobile string) error
}

// Notifier pushes session events to connected devices.
type Notifier interface {
	ForceLogout(userID int64, sessionID, reason string)
}

// SessionLimitError is returned by Login when the user already holds the
// maximum number of active sessions. It carries everything the client needs
// to resolve the conflict: a token scoped to session revocation and the list
// of sessions that can be revoked.
type SessionLimitError struct {
	ConflictToken string
	Sessions      []*session.Data
}

func (e *SessionLimitError) Error() string { return xerrors.ErrSessionLimit.Error() }

func (e *SessionLimitError) Unwrap() error { return xerrors.ErrSessionLimit }

type AuthService struct {
	userRepo    UserRepository
	jwtManager  *jwt.Manager
	sessions    SessionStore
	rateLimiter LoginLimiter
	notifier    Notifier
	sessionCap  int
	logger      *zap.Logger
}

func NewAuthService(
	userRepo UserRepository,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	rateLimiter LoginLimiter,
	notifier Notifier,
	sessionCap int,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		notifier:    notifier,
		sessionCap:  sessionCap,
		logger:      logger,
	}
}

// ========== Login ==========

// Login authenticates a user with mobile/password. When the session cap is
// already reached it fails with *SessionLimitError instead of opening a new
// session.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	// Rate limiting
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Mobile)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	user, err := s.userRepo.FindUserByMobile(ctx, req.Mobile)
	if err != nil {
		return nil, xerrors.ErrInvalidCredential
	}

	if !user.IsActive {
		return nil, xerrors.Wrap(xerrors.ErrForbidden, "account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login attempt",
			zap.String("mobile", req.Mobile),
			zap.Int64("attempts_remaining", remaining),
		)
		return nil, xerrors.ErrInvalidCredential
	}

	// Session cap check comes after the password check so the sessions list
	// is only ever revealed to the account owner.
	active, err := s.sessions.ListUserSessions(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(active) >= s.sessionCap {
		conflictToken, _, err := s.jwtManager.Generator.GenerateConflictToken(user.ID, user.Mobile)
		if err != nil {
			return nil, fmt.Errorf("failed to generate conflict token: %w", err)
		}
		return nil, &SessionLimitError{ConflictToken: conflictToken, Sessions: active}
	}

	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(user.ID, user.Mobile, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtManager.Generator.Ttl)

	data := &session.Data{
		ID:             jti,
		UserID:         user.ID,
		Mobile:         user.Mobile,
		UserAgent:      req.UserAgent,
		IPAddress:      req.IPAddress,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.sessions.CreateSession(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err))
	}
	s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Mobile)

	return &auth.LoginResponse{
		TokenType: "access",
		Token:     accessToken,
		ExpiresIn: strconv.FormatInt(int64(s.jwtManager.Generator.Ttl.Seconds()), 10),
		User:      userInfo(user),
	}, nil
}

// ========== Token validation ==========

// ValidateToken verifies an access token and confirms its session is still
// alive.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	blacklisted, err := s.sessions.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, xerrors.ErrSessionExpired
	}

	if _, err := s.sessions.GetSession(ctx, claims.UserID, claims.ID); err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	go s.sessions.TouchSession(context.Background(), claims.UserID, claims.ID)

	return claims, nil
}

// ValidateConflictToken verifies a conflict-scoped token.
func (s *AuthService) ValidateConflictToken(token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyConflictToken(token)
	if err != nil {
		return nil, xerrors.ErrSessionExpired
	}
	return claims, nil
}

// ========== Logout ==========

// Logout invalidates the caller's own session.
func (s *AuthService) Logout(ctx context.Context, userID int64, jti string) error {
	if err := s.sessions.InvalidateSession(ctx, userID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	if err := s.sessions.BlacklistToken(ctx, jti, s.jwtManager.Generator.Ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// RevokeSession terminates one specific session by id. Used both by a
// normally authenticated device managing its sessions and by a conflict
// token holder clearing room to log in.
func (s *AuthService) RevokeSession(ctx context.Context, userID int64, sessionID string) error {
	if _, err := s.sessions.GetSession(ctx, userID, sessionID); err != nil {
		return xerrors.ErrNotFound
	}

	if err := s.sessions.InvalidateSession(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	// Session IDs double as token JTIs
	if err := s.sessions.BlacklistToken(ctx, sessionID, s.jwtManager.Generator.Ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	s.notifier.ForceLogout(userID, sessionID, "Session revoked from another device")

	return nil
}

// ========== Current user ==========

// GetUser returns the wire form of a user.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*auth.UserInfo, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := userInfo(user)
	return &info, nil
}

// ========== Bootstrap ==========

// EnsureAdminExists creates the initial admin account if the mobile is not
// registered yet.
func (s *AuthService) EnsureAdminExists(ctx context.Context, mobile, password, firstName string) error {
	exists, err := s.userRepo.ExistsByMobile(ctx, mobile)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &auth.User{
		FirstName:    firstName,
		Mobile:       mobile,
		Role:         "admin",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin account created", zap.String("mobile", mobile))
	return nil
}

func userInfo(user *auth.User) auth.UserInfo {
	info := auth.UserInfo{
		ID:        user.ID,
		FirstName: user.FirstName,
		Mobile:    user.Mobile,
		Role:      user.Role,
	}
	if user.Email.Valid {
		info.Email = user.Email.String
	}
	return info
}
