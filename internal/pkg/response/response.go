// internal/pkg/response/response.go
package response

import (
	"net/http"

	"greenwell-service/internal/pkg/apierror"

	"github.com/gin-gonic/gin"
)

// OK writes the payload as-is. Callers consume the raw resource body, there
// is no success envelope.
func OK(c *gin.Context, status int, payload interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, payload)
}

// Error sends a standardized error body and aborts the chain.
func Error(c *gin.Context, status int, apiErr *apierror.Error) {
	// Abort FIRST before writing the response
	c.Abort()
	c.JSON(status, apiErr)
}

// ValidationError sends a 400 Bad Request with per-field messages.
func ValidationError(c *gin.Context, message string, fields map[string]string) {
	Error(c, http.StatusBadRequest, &apierror.Error{
		Code:    apierror.CodeValidation,
		Message: message,
		Details: &apierror.Details{Fields: fields},
	})
}

// Unauthorized sends a 401 with the "unauthorized" code that forces clients
// to drop their cached token.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, apierror.New(apierror.CodeUnauthorized, message))
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, apierror.New(apierror.CodeForbidden, message))
}

// Conflict sends a 409 Conflict response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, apierror.New(apierror.CodeConflict, message))
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, apierror.New(apierror.CodeNotFound, message))
}

// Internal sends a 500 Internal Server Error response.
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, apierror.New(apierror.CodeInternal, message))
}
