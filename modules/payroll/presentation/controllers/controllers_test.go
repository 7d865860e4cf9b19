package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/exception"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/modules/payroll/presentation/controllers"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
	"github.com/iota-uz/payroll-console/pkg/application"
	"github.com/iota-uz/payroll-console/pkg/eventbus"
	"github.com/iota-uz/payroll-console/pkg/middleware"
)

type stubRepo struct {
	runs map[string]payrollrun.PayrollRun
}

func (s *stubRepo) GetAll(_ context.Context) ([]payrollrun.PayrollRun, error) {
	out := make([]payrollrun.PayrollRun, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRepo) GetPaginated(ctx context.Context, params *payrollrun.FindParams) ([]payrollrun.PayrollRun, error) {
	all, _ := s.GetAll(ctx)
	if params.Status == "" {
		return all, nil
	}
	out := make([]payrollrun.PayrollRun, 0, len(all))
	for _, r := range all {
		if r.Status() == workflow.Normalize(params.Status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (payrollrun.PayrollRun, error) {
	r, ok := s.runs[id]
	if !ok {
		return payrollrun.PayrollRun{}, payrollrun.ErrNotFound
	}
	return r, nil
}

func (s *stubRepo) Transition(
	_ context.Context,
	id string,
	_ workflow.Action,
	_ workflow.Payload,
	_ workflow.Patch,
) (payrollrun.PayrollRun, error) {
	return s.runs[id], nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	delete(s.runs, id)
	return nil
}

func (s *stubRepo) GeneratePayslips(_ context.Context, _ string) error   { return nil }
func (s *stubRepo) DistributePayslips(_ context.Context, _ string) error { return nil }
func (s *stubRepo) MarkPaid(_ context.Context, _ string) error           { return nil }

type stubGateway struct {
	mu       sync.Mutex
	byRun    map[string]exception.RunExceptions
	resolved []string
}

func (s *stubGateway) ListByRun(_ context.Context, runID string) (exception.RunExceptions, error) {
	return s.byRun[runID], nil
}

func (s *stubGateway) Resolve(_ context.Context, runID, employeeID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = append(s.resolved, runID+":"+employeeID+"="+note)
	return nil
}

func seedRun(id string, status workflow.State) payrollrun.PayrollRun {
	period, _ := time.Parse("2006-01-02", "2026-08-01")
	return payrollrun.Hydrate(
		id, "2026-08 Monthly", "ACME Tashkent",
		period, status,
		nil, nil, "", "", "",
		10, 1, decimal.NewFromInt(1_000_000),
		period, period,
	)
}

func newTestRouter(t *testing.T, repo *stubRepo, gw *stubGateway) *mux.Router {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	app.RegisterServices(
		services.NewRunService(repo, app.EventPublisher(), log),
		services.NewExceptionService(repo, gw, app.EventPublisher(), log),
	)

	router := mux.NewRouter()
	router.Use(middleware.ProvideActorRole())
	controllers.NewRunsController(app).Register(router)
	controllers.NewExceptionsController(app).Register(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path, role, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if role != "" {
		req.Header.Set("X-Actor-Role", role)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRunsController_List(t *testing.T) {
	repo := &stubRepo{runs: map[string]payrollrun.PayrollRun{
		"run-1": seedRun("run-1", workflow.StateDraft),
	}}
	router := newTestRouter(t, repo, &stubGateway{})

	rec := doJSON(t, router, http.MethodGet, "/payroll/api/runs", "manager", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			ID             string   `json:"id"`
			Status         string   `json:"status"`
			AllowedActions []string `json:"allowedActions"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, "draft", resp.Items[0].Status)
	require.Empty(t, resp.Items[0].AllowedActions)
}

func TestRunsController_List_MissingRole(t *testing.T) {
	router := newTestRouter(t, &stubRepo{runs: map[string]payrollrun.PayrollRun{}}, &stubGateway{})

	rec := doJSON(t, router, http.MethodGet, "/payroll/api/runs", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRunsController_List_UnknownStatusFilter(t *testing.T) {
	router := newTestRouter(t, &stubRepo{runs: map[string]payrollrun.PayrollRun{}}, &stubGateway{})

	rec := doJSON(t, router, http.MethodGet, "/payroll/api/runs?status=bogus", "manager", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsController_Transition(t *testing.T) {
	repo := &stubRepo{runs: map[string]payrollrun.PayrollRun{
		"run-1": seedRun("run-1", workflow.StateDraft),
	}}
	router := newTestRouter(t, repo, &stubGateway{})

	rec := doJSON(t, router, http.MethodPost, "/payroll/api/runs/run-1/actions", "specialist",
		`{"action":"publish"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// wrong role is rejected before the backend is consulted
	rec = doJSON(t, router, http.MethodPost, "/payroll/api/runs/run-1/actions", "finance",
		`{"action":"publish"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "PAYROLL_FORBIDDEN", envelope.Code)
}

func TestRunsController_Transition_MissingAction(t *testing.T) {
	repo := &stubRepo{runs: map[string]payrollrun.PayrollRun{
		"run-1": seedRun("run-1", workflow.StateDraft),
	}}
	router := newTestRouter(t, repo, &stubGateway{})

	rec := doJSON(t, router, http.MethodPost, "/payroll/api/runs/run-1/actions", "specialist", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRunsController_Delete(t *testing.T) {
	repo := &stubRepo{runs: map[string]payrollrun.PayrollRun{
		"run-1": seedRun("run-1", workflow.StateRejected),
		"run-2": seedRun("run-2", workflow.StateApproved),
	}}
	router := newTestRouter(t, repo, &stubGateway{})

	rec := doJSON(t, router, http.MethodDelete, "/payroll/api/runs/run-1", "manager", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/payroll/api/runs/run-2", "manager", "")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestExceptionsController_Aggregate(t *testing.T) {
	repo := &stubRepo{runs: map[string]payrollrun.PayrollRun{
		"run-1": seedRun("run-1", workflow.StateApproved),
	}}
	gw := &stubGateway{byRun: map[string]exception.RunExceptions{
		"run-1": {
			RunID: "run-1",
			Entries: []exception.Entry{
				{
					Employee:  exception.EmployeeRef{ID: "emp-1", Name: "Aziza Karimova"},
					Text:      "Missing bank details",
					CreatedAt: time.Now().UTC(),
				},
			},
		},
	}}
	router := newTestRouter(t, repo, gw)

	rec := doJSON(t, router, http.MethodGet, "/payroll/api/exceptions", "specialist", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Records []struct {
			Key    string `json:"key"`
			Type   string `json:"type"`
			Status string `json:"status"`
		} `json:"records"`
		CountByType map[string]int `json:"countByType"`
		TotalOpen   int            `json:"totalOpen"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 1)
	require.Equal(t, "run-1:emp-1", resp.Records[0].Key)
	require.Equal(t, "MISSING_BANK_DETAILS", resp.Records[0].Type)
	require.Equal(t, 1, resp.CountByType["MISSING_BANK_DETAILS"])
	require.Equal(t, 1, resp.TotalOpen)
}

func TestExceptionsController_Resolve(t *testing.T) {
	repo := &stubRepo{runs: map[string]payrollrun.PayrollRun{}}
	gw := &stubGateway{}
	router := newTestRouter(t, repo, gw)

	rec := doJSON(t, router, http.MethodPost,
		"/payroll/api/runs/run-1/exceptions/emp-1/resolve", "specialist",
		`{"resolutionNote":"updated bank account"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"run-1:emp-1=updated bank account"}, gw.resolved)

	rec = doJSON(t, router, http.MethodPost,
		"/payroll/api/runs/run-1/exceptions/emp-1/resolve", "specialist",
		`{"resolutionNote":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExceptionsController_BulkResolve(t *testing.T) {
	repo := &stubRepo{runs: map[string]payrollrun.PayrollRun{}}
	gw := &stubGateway{}
	router := newTestRouter(t, repo, gw)

	rec := doJSON(t, router, http.MethodPost, "/payroll/api/exceptions/bulk-resolve", "manager",
		`{"items":[{"runId":"run-1","employeeId":"emp-1"},{"runId":"run-1","employeeId":"emp-2"}],"resolutionNote":"fixed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result struct {
			Succeeded int `json:"succeeded"`
			Failed    int `json:"failed"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Result.Succeeded)
	require.Zero(t, resp.Result.Failed)
}
