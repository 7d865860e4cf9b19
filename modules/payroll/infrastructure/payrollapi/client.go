package payrollapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/exception"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/pkg/serrors"
)

// ErrUpstream marks any non-2xx answer from the payroll-execution backend.
var ErrUpstream = serrors.NewError("PAYROLL_UPSTREAM", "payroll backend request failed")

// UpstreamError carries the backend's status code and message when it
// provided one.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payroll backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payroll backend returned %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *logrus.Logger
}

// Client is the gateway to the payroll-execution backend. It implements
// payrollrun.Repository and exception.Gateway. Every request carries the
// bearer token when configured, reads included.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *logrus.Logger
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   strings.TrimSpace(opts.Token),
		http:    &http.Client{Timeout: timeout},
		logger:  opts.Logger,
	}
}

var actionEndpoints = map[workflow.Action]string{
	workflow.ActionPublish:        "publish",
	workflow.ActionManagerApprove: "manager-approve",
	workflow.ActionManagerReject:  "manager-reject",
	workflow.ActionFinanceApprove: "finance-approve",
	workflow.ActionFinanceReject:  "finance-reject",
	workflow.ActionFreeze:         "freeze",
	workflow.ActionUnfreeze:       "unfreeze",
}

func (c *Client) GetAll(ctx context.Context) ([]payrollrun.PayrollRun, error) {
	var dtos []runDTO
	if err := c.do(ctx, http.MethodGet, "/payroll-runs", nil, &dtos); err != nil {
		return nil, err
	}
	runs := make([]payrollrun.PayrollRun, 0, len(dtos))
	for _, d := range dtos {
		runs = append(runs, d.toDomain())
	}
	return runs, nil
}

func (c *Client) GetPaginated(ctx context.Context, params *payrollrun.FindParams) ([]payrollrun.PayrollRun, error) {
	if params == nil {
		params = &payrollrun.FindParams{}
	}
	// The backend only exposes a flat list; filtering and paging happen here.
	runs, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]payrollrun.PayrollRun, 0, len(runs))
	for _, run := range runs {
		if params.Status != "" && run.Status() != workflow.Normalize(params.Status) {
			continue
		}
		if params.Entity != "" && run.Entity() != params.Entity {
			continue
		}
		filtered = append(filtered, run)
	}

	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(filtered) {
		return []payrollrun.PayrollRun{}, nil
	}
	filtered = filtered[offset:]

	if params.Limit > 0 && params.Limit < len(filtered) {
		filtered = filtered[:params.Limit]
	}
	return filtered, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (payrollrun.PayrollRun, error) {
	var dto runDTO
	err := c.do(ctx, http.MethodGet, "/payroll-runs/"+url.PathEscape(id), nil, &dto)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
			return payrollrun.PayrollRun{}, payrollrun.ErrNotFound
		}
		return payrollrun.PayrollRun{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) Transition(
	ctx context.Context,
	id string,
	action workflow.Action,
	payload workflow.Payload,
	patch workflow.Patch,
) (payrollrun.PayrollRun, error) {
	endpoint, ok := actionEndpoints[action]
	if !ok {
		return payrollrun.PayrollRun{}, errors.Errorf("payrollapi: action %s has no backend endpoint", action)
	}

	body := transitionBody(action, payload, patch)
	var dto runDTO
	path := "/payroll-runs/" + url.PathEscape(id) + "/" + endpoint
	if err := c.do(ctx, http.MethodPatch, path, body, &dto); err != nil {
		return payrollrun.PayrollRun{}, err
	}
	return dto.toDomain(), nil
}

func transitionBody(action workflow.Action, payload workflow.Payload, patch workflow.Patch) map[string]any {
	body := map[string]any{}
	switch action {
	case workflow.ActionManagerApprove, workflow.ActionFinanceApprove:
		if payload.ApproverID != "" {
			body["approverId"] = payload.ApproverID
		}
	case workflow.ActionManagerReject, workflow.ActionFinanceReject:
		if patch.RejectionReason != nil {
			body["reason"] = *patch.RejectionReason
		}
	case workflow.ActionFreeze:
		if patch.FreezeReason != nil {
			body["reason"] = *patch.FreezeReason
		}
	case workflow.ActionUnfreeze:
		if patch.UnlockReason != nil {
			body["unlockReason"] = *patch.UnlockReason
		}
	}
	return body
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/payroll-runs/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GeneratePayslips(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/payroll-runs/"+url.PathEscape(id)+"/payslips/generate", map[string]any{}, nil)
}

func (c *Client) DistributePayslips(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/payroll-runs/"+url.PathEscape(id)+"/payslips/distribute", map[string]any{}, nil)
}

func (c *Client) MarkPaid(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/payroll-runs/"+url.PathEscape(id)+"/mark-paid", map[string]any{}, nil)
}

func (c *Client) ListByRun(ctx context.Context, runID string) (exception.RunExceptions, error) {
	var dto runExceptionsDTO
	path := "/payroll-runs/" + url.PathEscape(runID) + "/exceptions"
	if err := c.do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return exception.RunExceptions{}, err
	}
	if dto.RunID == "" {
		dto.RunID = runID
	}
	return dto.toDomain(), nil
}

func (c *Client) Resolve(ctx context.Context, runID, employeeID, note string) error {
	path := "/payroll-runs/" + url.PathEscape(runID) + "/exceptions/" + url.PathEscape(employeeID) + "/resolve"
	return c.do(ctx, http.MethodPatch, path, map[string]any{"resolutionNote": note}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "payrollapi: encode %s %s", method, path)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(err, "payrollapi: build %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "payrollapi: %s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream := &UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMessage(resp.Body)}
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{
				"method": method,
				"path":   path,
				"status": resp.StatusCode,
			}).Warn("payrollapi: upstream error")
		}
		return upstream
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "payrollapi: decode %s %s", method, path)
	}
	return nil
}

// upstreamMessage extracts the collaborator's error message when the body
// carries one in a known shape.
func upstreamMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}
