// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetUserID gets the user ID from context or panics
func MustGetUserID(c *gin.Context) int64 {
	userID, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return userID
}

// MustGetJTI gets the token JTI from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := v.(int64)
	return userID, ok
}

// GetJTI gets the token JTI from context
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}

// IsConflictScoped reports whether the request was authenticated with a
// conflict token rather than an access token.
func IsConflictScoped(c *gin.Context) bool {
	v, exists := c.Get("conflict_scoped")
	if !exists {
		return false
	}
	scoped, _ := v.(bool)
	return scoped
}
