// Package response implements the JSON envelope every endpoint speaks:
// {success, message?, data?, errors?}.
package response

import (
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "spendwise/internal/errors"
)

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the standard response body.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Pagination describes a paginated listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes page metadata for a listing.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Success writes a success envelope.
func Success(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope with an explicit status.
func Error(c echo.Context, status int, message string, errs ...FieldError) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Errors: errs})
}

// Fail translates a domain error to its HTTP status. Internal errors get a
// generic message; the detail is logged server-side only.
func Fail(c echo.Context, err error) error {
	status := apperrors.StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		return Error(c, status, "internal server error")
	}
	return Error(c, status, err.Error())
}

// ValidationFailed translates validator errors into field-level messages.
func ValidationFailed(c echo.Context, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, http.StatusBadRequest, "validation failed")
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return Error(c, http.StatusBadRequest, "validation failed", fields...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "please provide a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " cannot exceed " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "alphanum", "alphanumunicode":
		return fe.Field() + " contains invalid characters"
	case "username":
		return fe.Field() + " can only contain letters, numbers, and underscores"
	case "uuid":
		return fe.Field() + " must be a valid id"
	case "hexcolor":
		return fe.Field() + " must be a valid hex color code"
	default:
		return fe.Field() + " is invalid"
	}
}
