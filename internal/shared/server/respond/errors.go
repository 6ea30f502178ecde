package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"essay-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FlatError is the {"error": "..."} shape used by the feedback endpoint.
type FlatError struct {
	Error string `json:"error"`
}

// MessageResponse is the {"message": "..."} shape used by the auth endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	logError(c, status, code, message, nil)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Flat sends {"error": message}. cause is logged and never written to the client.
func Flat(c *gin.Context, status int, code, message string, cause error) {
	logError(c, status, code, message, cause)
	c.AbortWithStatusJSON(status, FlatError{Error: message})
}

// Message sends {"message": message}.
func Message(c *gin.Context, status int, code, message string) {
	logError(c, status, code, message, nil)
	c.AbortWithStatusJSON(status, MessageResponse{Message: message})
}

// Text sends a plain-text error body.
func Text(c *gin.Context, status int, code, message string, cause error) {
	logError(c, status, code, message, cause)
	c.Abort()
	c.String(status, message)
}

func logError(c *gin.Context, status int, code, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if cause != nil {
		fields["error"] = cause
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
		return
	}
	telemetry.Warn("http.error", fields)
}
