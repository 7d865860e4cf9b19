package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/pkg/composables"
	"github.com/iota-uz/payroll-console/pkg/configuration"
)

// ProvideActorRole reads the payroll role from the configured header and
// attaches it to the request context. Requests without the header pass
// through; role enforcement happens in the controllers.
func ProvideActorRole() mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(strings.ToLower(r.Header.Get(conf.ActorRoleHeader)))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := composables.WithActorRole(r.Context(), workflow.Role(raw))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
