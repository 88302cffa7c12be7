package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RespondWithValidationError handles Gin binding/validation errors and returns
// a structured validation error response.
//
// This should be used when c.ShouldBindJSON or similar binding functions fail.
func RespondWithValidationError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	ctx := c.Request.Context()

	apiErr := &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidationError,
		Message:    "Invalid request format. Please check your JSON syntax.",
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		apiErr.Message = "Validation failed"
		for _, fieldErr := range validationErrs {
			apiErr.Details = append(apiErr.Details, validationMessage(fieldErr))
		}
		if len(apiErr.Details) == 1 {
			apiErr.Message = apiErr.Details[0]
		}
		logger.Error(ctx, "Validation failed", err)
	} else {
		// Not a validator error - a JSON parsing error or other binding issue.
		logger.Error(ctx, "Request binding failed", err)
	}

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

// validationMessage returns a human-readable message for a validation error.
func validationMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	tag := fieldErr.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fieldErr.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fieldErr.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fieldErr.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "datetime":
		return fmt.Sprintf("%s must be a valid timestamp", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, tag)
	}
}
