package payrollapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/exception"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
)

// flexTime tolerates the backend's two timestamp shapes: RFC3339 and bare
// dates.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: raw}
}

type runDTO struct {
	ID                  string          `json:"id"`
	RunID               string          `json:"runId"`
	Entity              string          `json:"entity"`
	PayrollPeriod       flexTime        `json:"payrollPeriod"`
	Status              string          `json:"status"`
	ManagerApprovalDate *flexTime       `json:"managerApprovalDate,omitempty"`
	FinanceApprovalDate *flexTime       `json:"financeApprovalDate,omitempty"`
	RejectionReason     string          `json:"rejectionReason,omitempty"`
	FreezeReason        string          `json:"freezeReason,omitempty"`
	UnlockReason        string          `json:"unlockReason,omitempty"`
	EmployeeCount       int             `json:"employeeCount"`
	ExceptionCount      int             `json:"exceptionCount"`
	TotalNetPay         decimal.Decimal `json:"totalNetPay"`
	CreatedAt           flexTime        `json:"createdAt"`
	UpdatedAt           flexTime        `json:"updatedAt"`
}

func (d runDTO) toDomain() payrollrun.PayrollRun {
	var managerDate, financeDate *time.Time
	if d.ManagerApprovalDate != nil && !d.ManagerApprovalDate.IsZero() {
		t := d.ManagerApprovalDate.Time
		managerDate = &t
	}
	if d.FinanceApprovalDate != nil && !d.FinanceApprovalDate.IsZero() {
		t := d.FinanceApprovalDate.Time
		financeDate = &t
	}
	return payrollrun.Hydrate(
		d.ID,
		d.RunID,
		d.Entity,
		d.PayrollPeriod.Time,
		workflow.State(d.Status),
		managerDate,
		financeDate,
		d.RejectionReason,
		d.FreezeReason,
		d.UnlockReason,
		d.EmployeeCount,
		d.ExceptionCount,
		d.TotalNetPay,
		d.CreatedAt.Time,
		d.UpdatedAt.Time,
	)
}

// employeeRefDTO absorbs the three shapes the backend sends for the employee
// field: a bare identifier string, an object with first/last name, or an
// object with only name or email.
type employeeRefDTO struct {
	exception.EmployeeRef
}

func (e *employeeRefDTO) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		e.EmployeeRef = exception.EmployeeRef{ID: id}
		return nil
	}

	var obj struct {
		ID         string `json:"id"`
		MongoID    string `json:"_id"`
		EmployeeID string `json:"employeeId"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		Name       string `json:"name"`
		Email      string `json:"email"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	ref := exception.EmployeeRef{
		ID:        obj.ID,
		FirstName: obj.FirstName,
		LastName:  obj.LastName,
		Name:      obj.Name,
		Email:     obj.Email,
	}
	if ref.ID == "" {
		ref.ID = obj.MongoID
	}
	if ref.ID == "" {
		ref.ID = obj.EmployeeID
	}
	e.EmployeeRef = ref
	return nil
}

type exceptionEntryDTO struct {
	Employee  employeeRefDTO `json:"employee"`
	Exception string         `json:"exception"`
	CreatedAt flexTime       `json:"createdAt"`
}

type runExceptionsDTO struct {
	RunID      string              `json:"runId"`
	Count      int                 `json:"count"`
	Exceptions []exceptionEntryDTO `json:"exceptions"`
}

func (d runExceptionsDTO) toDomain() exception.RunExceptions {
	entries := make([]exception.Entry, 0, len(d.Exceptions))
	for _, e := range d.Exceptions {
		entries = append(entries, exception.Entry{
			Employee:  e.Employee.EmployeeRef,
			Text:      e.Exception,
			CreatedAt: e.CreatedAt.Time,
		})
	}
	return exception.RunExceptions{
		RunID:   d.RunID,
		Count:   d.Count,
		Entries: entries,
	}
}
