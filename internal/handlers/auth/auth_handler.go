// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"
	"time"

	"greenwell-service/internal/domain/auth"
	"greenwell-service/internal/middleware"
	"greenwell-service/internal/pkg/apierror"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/response"
	"greenwell-service/internal/pkg/session"
	authUsecase "greenwell-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Login ==========

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "mobile and password are required", nil)
		return
	}

	// Set IP and User-Agent
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleLoginError(c, &req, err)
		return
	}

	h.logger.Info("user logged in",
		zap.Int64("user_id", loginResp.User.ID),
		zap.String("mobile", loginResp.User.Mobile),
	)

	response.OK(c, http.StatusOK, loginResp)
}

func (h *AuthHandler) handleLoginError(c *gin.Context, req *auth.LoginRequest, err error) {
	var limitErr *authUsecase.SessionLimitError
	if errors.As(err, &limitErr) {
		h.logger.Info("login rejected, session cap reached",
			zap.String("mobile", req.Mobile),
			zap.Int("active_sessions", len(limitErr.Sessions)),
		)
		response.Error(c, http.StatusForbidden, &apierror.Error{
			Code:    apierror.CodeSessionLimit,
			Message: "You are already logged in on the maximum number of devices",
			Details: &apierror.Details{
				ProcessCode: apierror.ProcessUserAlreadyLoggedIn,
				Token:       limitErr.ConflictToken,
				Sessions:    sessionInfos(limitErr.Sessions),
			},
		})
		return
	}

	switch {
	case errors.Is(err, xerrors.ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests,
			apierror.New(apierror.CodeRateLimited, "Too many login attempts, please try again later"))
	case errors.Is(err, xerrors.ErrInvalidCredential), errors.Is(err, xerrors.ErrForbidden):
		response.Error(c, http.StatusUnauthorized,
			apierror.New(apierror.CodeInvalidCredentials, "Invalid mobile number or password"))
	default:
		h.logger.Error("login failed",
			zap.String("mobile", req.Mobile),
			zap.Error(err),
		)
		response.Internal(c, "login failed")
	}
}

// ========== Current user ==========

// GetUser handles GET /auth/user (requires auth)
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Unauthorized(c, "account no longer exists")
			return
		}
		response.Internal(c, "failed to load user")
		return
	}

	response.OK(c, http.StatusOK, user)
}

// ========== Logout ==========

// Logout handles DELETE /auth/logout (requires auth)
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), userID, jti); err != nil {
		h.logger.Error("logout failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		response.Internal(c, "logout failed")
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "logged out"})
}

// RevokeSession handles DELETE /auth/sessions/:session_id. Accepts a
// conflict-scoped token so a locked-out device can clear room to log in.
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	sessionID := c.Param("session_id")

	if err := h.authService.RevokeSession(c.Request.Context(), userID, sessionID); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.logger.Error("session revocation failed",
			zap.Int64("user_id", userID),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		response.Internal(c, "failed to revoke session")
		return
	}

	h.logger.Info("session revoked",
		zap.Int64("user_id", userID),
		zap.String("session_id", sessionID),
		zap.Bool("via_conflict_token", middleware.IsConflictScoped(c)),
	)

	response.OK(c, http.StatusOK, gin.H{"message": "session revoked"})
}

func sessionInfos(sessions []*session.Data) []apierror.SessionInfo {
	infos := make([]apierror.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, apierror.SessionInfo{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			CreatedAt: s.LoginAt.Format(time.RFC3339),
		})
	}
	return infos
}
