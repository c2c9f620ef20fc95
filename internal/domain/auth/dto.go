package auth

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`

	// Filled from the request, not the body
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// UserInfo is the wire form of a user.
type UserInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile"`
	Role      string `json:"role"`
}

// LoginResponse is the 200 body of POST /auth/login.
type LoginResponse struct {
	TokenType string   `json:"token_type"`
	Token     string   `json:"token"`
	ExpiresIn string   `json:"expires_in"`
	User      UserInfo `json:"user"`
}
