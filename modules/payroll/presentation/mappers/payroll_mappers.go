package mappers

import (
	"time"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/exception"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/modules/payroll/presentation/viewmodels"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
)

func PayrollRunToViewModel(run payrollrun.PayrollRun, role workflow.Role) *viewmodels.PayrollRun {
	actions := workflow.AllowedActions(run.Status(), role)
	actionLabels := make([]string, 0, len(actions))
	for _, a := range actions {
		actionLabels = append(actionLabels, string(a))
	}

	return &viewmodels.PayrollRun{
		ID:                  run.ID(),
		RunLabel:            run.RunLabel(),
		Entity:              run.Entity(),
		PayrollPeriod:       run.PayrollPeriod().Format("2006-01-02"),
		Status:              run.DisplayStatus(),
		ManagerApprovalDate: formatOptionalTime(run.ManagerApprovalDate()),
		FinanceApprovalDate: formatOptionalTime(run.FinanceApprovalDate()),
		RejectionReason:     run.RejectionReason(),
		FreezeReason:        run.FreezeReason(),
		UnlockReason:        run.UnlockReason(),
		EmployeeCount:       run.EmployeeCount(),
		ExceptionCount:      run.ExceptionCount(),
		TotalNetPay:         run.TotalNetPay().StringFixed(2),
		AllowedActions:      actionLabels,
		Deletable:           run.Deletable(),
		CreatedAt:           run.CreatedAt().Format(time.RFC3339),
		UpdatedAt:           run.UpdatedAt().Format(time.RFC3339),
	}
}

func ExceptionRecordToViewModel(rec exception.Record) *viewmodels.ExceptionRecord {
	return &viewmodels.ExceptionRecord{
		Key:            rec.Key(),
		RunID:          rec.RunID(),
		RunLabel:       rec.RunLabel(),
		RunStatus:      rec.RunStatus(),
		EmployeeID:     rec.EmployeeID(),
		EmployeeName:   rec.EmployeeName(),
		Type:           string(rec.Type()),
		Status:         string(rec.Status()),
		ResolutionNote: rec.ResolutionNote(),
		RawText:        rec.RawText(),
		CreatedAt:      rec.CreatedAt().Format(time.RFC3339),
	}
}

func AggregateToViewModel(view *services.AggregateView) *viewmodels.ExceptionAggregate {
	records := make([]*viewmodels.ExceptionRecord, 0, len(view.Records))
	for _, rec := range view.Records {
		records = append(records, ExceptionRecordToViewModel(rec))
	}

	countByType := make(map[string]int, len(view.CountByType))
	for t, n := range view.CountByType {
		countByType[string(t)] = n
	}
	countByStatus := make(map[string]int, len(view.CountByStatus))
	for s, n := range view.CountByStatus {
		countByStatus[string(s)] = n
	}

	return &viewmodels.ExceptionAggregate{
		Records:       records,
		CountByType:   countByType,
		CountByStatus: countByStatus,
		TotalOpen:     view.TotalOpen(),
		FailedRuns:    services.FailedRunsSorted(view),
		FetchedAt:     view.FetchedAt.Format(time.RFC3339),
	}
}

func BulkResultToViewModel(res services.BulkResult) *viewmodels.BulkResolveOutcome {
	out := &viewmodels.BulkResolveOutcome{
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
	}
	if len(res.Failures) > 0 {
		out.Failures = res.Failures
	}
	return out
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
