package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/payroll-console/modules/payroll/presentation/mappers"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
	"github.com/iota-uz/payroll-console/pkg/application"
	"github.com/iota-uz/payroll-console/pkg/httpapi"
	"github.com/iota-uz/payroll-console/pkg/serrors"
)

type ExceptionsController struct {
	app        application.Application
	exceptions *services.ExceptionService
	basePath   string
}

func NewExceptionsController(app application.Application) application.Controller {
	return &ExceptionsController{
		app:        app,
		exceptions: app.Service(services.ExceptionService{}).(*services.ExceptionService),
		basePath:   "/payroll/api",
	}
}

func (c *ExceptionsController) Key() string {
	return c.basePath + "/exceptions"
}

func (c *ExceptionsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/exceptions", c.Aggregate).Methods(http.MethodGet)
	router.HandleFunc("/runs/{runId}/exceptions/{employeeId}/resolve", c.Resolve).Methods(http.MethodPost)
	router.HandleFunc("/exceptions/bulk-resolve", c.BulkResolve).Methods(http.MethodPost)
}

// Aggregate returns the reconciled cross-run exception snapshot. Pass
// refresh=false to serve the cached snapshot without hitting the backend.
func (c *ExceptionsController) Aggregate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActorRole(w, r); !ok {
		return
	}

	if r.URL.Query().Get("refresh") == "false" {
		if view := c.exceptions.Latest(); view != nil {
			_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AggregateToViewModel(view))
			return
		}
	}

	view, err := c.exceptions.Refresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AggregateToViewModel(view))
}

func (c *ExceptionsController) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActorRole(w, r); !ok {
		return
	}

	var dto ResolveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "PAYROLL_INVALID_JSON", "invalid json", nil)
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "PAYROLL_VALIDATION_FAILED", errs.First(), nil)
		return
	}

	vars := mux.Vars(r)
	err := c.exceptions.Resolve(r.Context(), services.ResolveRequest{
		RunID:      vars["runId"],
		EmployeeID: vars["employeeId"],
		Note:       dto.ResolutionNote,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *ExceptionsController) BulkResolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActorRole(w, r); !ok {
		return
	}

	var dto BulkResolveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "PAYROLL_INVALID_JSON", "invalid json", nil)
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "PAYROLL_VALIDATION_FAILED", errs.First(), nil)
		return
	}

	res, err := c.exceptions.BulkResolve(r.Context(), dto.Requests())
	if err != nil {
		code, _ := serrors.CodeOf(err)
		_ = httpapi.WriteJSON(w, statusForCode(code), map[string]any{
			"code":   code,
			"result": mappers.BulkResultToViewModel(res),
		})
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"result": mappers.BulkResultToViewModel(res),
	})
}
