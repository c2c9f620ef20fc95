package auth

import (
	"database/sql"
	"time"
)

// User is a dashboard account. Mobile is the login identifier.
type User struct {
	ID           int64
	FirstName    string
	Email        sql.NullString
	Mobile       string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  sql.NullTime
}
