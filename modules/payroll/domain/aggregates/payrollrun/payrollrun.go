package payrollrun

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
)

// PayrollRun is a read-model of one payroll-processing cycle, owned by the
// payroll-execution backend and mutated only through workflow transitions.
type PayrollRun struct {
	id                  string
	runLabel            string
	entity              string
	payrollPeriod       time.Time
	status              workflow.State
	managerApprovalDate *time.Time
	financeApprovalDate *time.Time
	rejectionReason     string
	freezeReason        string
	unlockReason        string
	employeeCount       int
	exceptionCount      int
	totalNetPay         decimal.Decimal
	createdAt           time.Time
	updatedAt           time.Time
}

func Hydrate(
	id string,
	runLabel string,
	entity string,
	payrollPeriod time.Time,
	status workflow.State,
	managerApprovalDate *time.Time,
	financeApprovalDate *time.Time,
	rejectionReason string,
	freezeReason string,
	unlockReason string,
	employeeCount int,
	exceptionCount int,
	totalNetPay decimal.Decimal,
	createdAt time.Time,
	updatedAt time.Time,
) PayrollRun {
	return PayrollRun{
		id:                  strings.TrimSpace(id),
		runLabel:            strings.TrimSpace(runLabel),
		entity:              strings.TrimSpace(entity),
		payrollPeriod:       payrollPeriod,
		status:              workflow.Normalize(status),
		managerApprovalDate: managerApprovalDate,
		financeApprovalDate: financeApprovalDate,
		rejectionReason:     strings.TrimSpace(rejectionReason),
		freezeReason:        strings.TrimSpace(freezeReason),
		unlockReason:        strings.TrimSpace(unlockReason),
		employeeCount:       employeeCount,
		exceptionCount:      exceptionCount,
		totalNetPay:         totalNetPay,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

func (r PayrollRun) ID() string                      { return r.id }
func (r PayrollRun) RunLabel() string                { return r.runLabel }
func (r PayrollRun) Entity() string                  { return r.entity }
func (r PayrollRun) PayrollPeriod() time.Time        { return r.payrollPeriod }
func (r PayrollRun) Status() workflow.State          { return r.status }
func (r PayrollRun) ManagerApprovalDate() *time.Time { return r.managerApprovalDate }
func (r PayrollRun) FinanceApprovalDate() *time.Time { return r.financeApprovalDate }
func (r PayrollRun) RejectionReason() string         { return r.rejectionReason }
func (r PayrollRun) FreezeReason() string            { return r.freezeReason }
func (r PayrollRun) UnlockReason() string            { return r.unlockReason }
func (r PayrollRun) EmployeeCount() int              { return r.employeeCount }
func (r PayrollRun) ExceptionCount() int             { return r.exceptionCount }
func (r PayrollRun) TotalNetPay() decimal.Decimal    { return r.totalNetPay }
func (r PayrollRun) CreatedAt() time.Time            { return r.createdAt }
func (r PayrollRun) UpdatedAt() time.Time            { return r.updatedAt }
func (r PayrollRun) IsZero() bool                    { return r.id == "" }

// DisplayStatus is the label the console shows. An approved run that went
// through an unfreeze reads "unlocked"; the machine state stays approved.
func (r PayrollRun) DisplayStatus() string {
	if r.status == workflow.StateApproved && r.unlockReason != "" {
		return workflow.DisplayUnlocked
	}
	return string(r.status)
}

// Deletable reports whether the backend would accept a delete for this run.
func (r PayrollRun) Deletable() bool {
	return workflow.CanDelete(r.status)
}
