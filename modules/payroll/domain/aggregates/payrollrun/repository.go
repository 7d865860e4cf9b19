package payrollrun

import (
	"context"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/pkg/serrors"
)

var (
	ErrNotFound = serrors.NewError("PAYROLL_RUN_NOT_FOUND", "payroll run not found")
)

type FindParams struct {
	Status workflow.State
	Entity string
	Limit  int
	Offset int
}

// Repository is the gateway to the payroll-execution backend. All writes are
// issued only after the workflow engine has validated the transition.
type Repository interface {
	GetAll(ctx context.Context) ([]PayrollRun, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]PayrollRun, error)
	GetByID(ctx context.Context, id string) (PayrollRun, error)
	Transition(ctx context.Context, id string, action workflow.Action, payload workflow.Payload, patch workflow.Patch) (PayrollRun, error)
	Delete(ctx context.Context, id string) error
	GeneratePayslips(ctx context.Context, id string) error
	DistributePayslips(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string) error
}
