package controllers

import (
	"net/http"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/pkg/composables"
	"github.com/iota-uz/payroll-console/pkg/httpapi"
)

// statusForCode maps domain error codes onto HTTP statuses. Unknown codes
// fall through to 500.
func statusForCode(code string) int {
	switch code {
	case "PAYROLL_RUN_NOT_FOUND":
		return http.StatusNotFound
	case "PAYROLL_FORBIDDEN":
		return http.StatusForbidden
	case "PAYROLL_INVALID_TRANSITION":
		return http.StatusConflict
	case "PAYROLL_VALIDATION_FAILED":
		return http.StatusUnprocessableEntity
	case "PAYROLL_BULK_PARTIAL":
		return http.StatusMultiStatus
	case "PAYROLL_BULK_FAILED":
		return http.StatusBadGateway
	case "PAYROLL_UPSTREAM":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	_ = httpapi.WriteDomainError(w, err, statusForCode)
}

// requireActorRole extracts the role the middleware attached and rejects the
// request when it is missing or unknown.
func requireActorRole(w http.ResponseWriter, r *http.Request) (workflow.Role, bool) {
	role, err := composables.UseActorRole(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "PAYROLL_NO_ROLE", "actor role header is required", nil)
		return "", false
	}
	if !workflow.KnownRole(role) {
		_ = httpapi.WriteError(w, http.StatusForbidden, "PAYROLL_FORBIDDEN", "unknown actor role", map[string]string{
			"role": string(role),
		})
		return "", false
	}
	return role, true
}
