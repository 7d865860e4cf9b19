package serrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BaseError is a coded error shared across the payroll console. Codes are
// stable identifiers the UI and tests can branch on; messages are for humans.
type BaseError struct {
	Code         string
	Message      string
	TemplateData map[string]string
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func (e *BaseError) Error() string {
	if len(e.TemplateData) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	parts := make([]string, 0, len(e.TemplateData))
	for k, v := range e.TemplateData {
		parts = append(parts, k+"="+v)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, " "))
}

// WithTemplateData returns a copy carrying contextual key/value details.
// The copy still matches the original sentinel via errors.Is.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	merged := make(map[string]string, len(e.TemplateData)+len(data))
	for k, v := range e.TemplateData {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	return &BaseError{Code: e.Code, Message: e.Message, TemplateData: merged}
}

// Is matches by code so enriched copies compare equal to their sentinel.
func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// CodeOf extracts the error code from err, if it carries one.
func CodeOf(err error) (string, bool) {
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code, true
	}
	return "", false
}

// ValidationErrors maps struct field names to human readable messages.
type ValidationErrors map[string]string

// FromValidator flattens go-playground validation errors into per-field
// messages.
func FromValidator(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fmt.Sprintf("%s is required", fe.Field())
		case "oneof":
			out[fe.Field()] = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		case "max":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		default:
			out[fe.Field()] = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return out
}

// First returns one representative message, for API responses that carry a
// single error string.
func (v ValidationErrors) First() string {
	for _, msg := range v {
		return msg
	}
	return ""
}
