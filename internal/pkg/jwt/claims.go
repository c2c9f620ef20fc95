// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Session purposes carried in tokens.
const (
	PurposeAccess          = "access"
	PurposeSessionConflict = "session_conflict"
)

// Claims represents the JWT claims
type Claims struct {
	UserID         int64  `json:"user_id"`
	Mobile         string `json:"mobile,omitempty"`
	Role           string `json:"role,omitempty"`
	SessionPurpose string `json:"session_purpose"` // access, session_conflict
	jwt.RegisteredClaims
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
