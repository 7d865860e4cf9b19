package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/iota-uz/payroll-console/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteDomainError maps a coded domain error onto an HTTP response using
// statusFor. Uncoded errors become an opaque 500.
func WriteDomainError(w http.ResponseWriter, err error, statusFor func(code string) int) error {
	code, ok := serrors.CodeOf(err)
	if !ok {
		return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
	return WriteError(w, statusFor(code), code, err.Error(), nil)
}
