package apierrors

import (
	"time"

	"givehub-server/internal/observability"

	"github.com/gin-gonic/gin"
)

// Package-level logger that uses context for observability
var logger = observability.NewLogger()

// ErrorResponse is the JSON envelope returned to API clients for errors.
type ErrorResponse struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	ErrorCode  string   `json:"error_code"`
	Message    string   `json:"message"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Method     string   `json:"method"`
	Errors     []string `json:"errors,omitempty"`
}

// RespondWithError handles error logging and sends a sanitized JSON response
// to the client. This is the primary function handlers should use for error
// responses.
//
// It converts the error to an APIError (using MapError if necessary), logs
// the API response for correlation (the processor already logged the detailed
// error) and sends the sanitized envelope to the client.
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	ctx := c.Request.Context()
	apiErr := MapError(err)

	// Correlates with the processor's detailed log entry via request_id.
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "status_code", Value: apiErr.StatusCode},
		observability.Field{Key: "error_code", Value: apiErr.Code},
		observability.Field{Key: "error_message", Value: apiErr.Message},
	)
	logger.Info(ctx, "API error response")

	c.JSON(apiErr.StatusCode, ErrorResponse{
		Success:    false,
		StatusCode: apiErr.StatusCode,
		ErrorCode:  apiErr.Code,
		Message:    apiErr.Message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.Path,
		Method:     c.Request.Method,
		Errors:     apiErr.Details,
	})
}
