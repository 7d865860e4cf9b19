package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/modules/payroll/presentation/mappers"
	"github.com/iota-uz/payroll-console/modules/payroll/presentation/viewmodels"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
	"github.com/iota-uz/payroll-console/pkg/application"
	"github.com/iota-uz/payroll-console/pkg/configuration"
	"github.com/iota-uz/payroll-console/pkg/httpapi"
)

type RunsController struct {
	app      application.Application
	runs     *services.RunService
	basePath string
}

func NewRunsController(app application.Application) application.Controller {
	return &RunsController{
		app:      app,
		runs:     app.Service(services.RunService{}).(*services.RunService),
		basePath: "/payroll/api",
	}
}

func (c *RunsController) Key() string {
	return c.basePath + "/runs"
}

func (c *RunsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/runs", c.List).Methods(http.MethodGet)
	router.HandleFunc("/runs/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/runs/{id}/actions", c.Transition).Methods(http.MethodPost)
	router.HandleFunc("/runs/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *RunsController) List(w http.ResponseWriter, r *http.Request) {
	role, ok := requireActorRole(w, r)
	if !ok {
		return
	}

	conf := configuration.Use()
	params := &payrollrun.FindParams{Limit: conf.PageSize}

	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		status := workflow.State(v)
		if !workflow.KnownState(status) {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "PAYROLL_VALIDATION_FAILED", "unknown status filter", map[string]string{
				"status": v,
			})
			return
		}
		params.Status = status
	}
	if v := strings.TrimSpace(r.URL.Query().Get("entity")); v != "" {
		params.Entity = v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			params.Limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			params.Offset = parsed
		}
	}

	runs, err := c.runs.GetPaginated(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]*viewmodels.PayrollRun, 0, len(runs))
	for _, run := range runs {
		items = append(items, mappers.PayrollRunToViewModel(run, role))
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

func (c *RunsController) GetByID(w http.ResponseWriter, r *http.Request) {
	role, ok := requireActorRole(w, r)
	if !ok {
		return
	}

	run, err := c.runs.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PayrollRunToViewModel(run, role))
}

func (c *RunsController) Transition(w http.ResponseWriter, r *http.Request) {
	role, ok := requireActorRole(w, r)
	if !ok {
		return
	}

	var dto TransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "PAYROLL_INVALID_JSON", "invalid json", nil)
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "PAYROLL_VALIDATION_FAILED", errs.First(), nil)
		return
	}

	run, err := c.runs.Transition(
		r.Context(),
		mux.Vars(r)["id"],
		workflow.Action(dto.Action),
		role,
		dto.Payload(),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PayrollRunToViewModel(run, role))
}

func (c *RunsController) Delete(w http.ResponseWriter, r *http.Request) {
	role, ok := requireActorRole(w, r)
	if !ok {
		return
	}

	if err := c.runs.Delete(r.Context(), mux.Vars(r)["id"], role); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
