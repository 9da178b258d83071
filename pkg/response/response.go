// Package response writes the JSON shapes the storefront frontend expects.
// Error payloads follow the {"message": ...} / {"message", "errors"} convention.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidationErrors maps a field name to its list of failure reasons.
type ValidationErrors map[string][]string

// Add appends a failure reason for a field.
func (v ValidationErrors) Add(field, reason string) {
	v[field] = append(v[field], reason)
}

// Message writes a bare {"message": ...} payload.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// ValidationFailed writes a 422 with per-field errors.
func ValidationFailed(c *gin.Context, message string, errs ValidationErrors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": message,
		"errors":  errs,
	})
}

// Unauthenticated writes the 401 payload the session-aware frontend keys on.
func Unauthenticated(c *gin.Context) {
	Message(c, http.StatusUnauthorized, "Unauthenticated.")
}

// Forbidden writes a 403 for a valid token with an insufficient role.
func Forbidden(c *gin.Context) {
	Message(c, http.StatusForbidden, "Forbidden.")
}

// NotFound writes a 404 with a message.
func NotFound(c *gin.Context, message string) {
	Message(c, http.StatusNotFound, message)
}

// PayloadTooLarge writes a 413 for uploads over the size ceiling.
func PayloadTooLarge(c *gin.Context, message string) {
	Message(c, http.StatusRequestEntityTooLarge, message)
}

// UnsupportedMediaType writes a 415 for uploads of a non-image content type.
func UnsupportedMediaType(c *gin.Context, message string) {
	Message(c, http.StatusUnsupportedMediaType, message)
}

// InternalError writes a generic 500. The underlying error goes to the log,
// never to the client.
func InternalError(c *gin.Context) {
	Message(c, http.StatusInternalServerError, "Server Error")
}
