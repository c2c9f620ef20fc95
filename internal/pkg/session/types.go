// internal/pkg/session/types.go
package session

import "time"

// Data is one active device session. ID doubles as the JTI of the access
// token issued for it, so revoking the session kills the token.
type Data struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	Mobile         string    `json:"mobile"`
	UserAgent      string    `json:"user_agent"`
	IPAddress      string    `json:"ip_address"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}
