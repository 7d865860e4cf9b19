package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/pkg/eventbus"
	"github.com/iota-uz/payroll-console/pkg/metrics"
	"github.com/iota-uz/payroll-console/pkg/serrors"
)

// RunService drives payroll runs through the approval workflow. Every
// mutation is validated by the workflow engine before the backend is
// touched; guard failures never cost a network write.
type RunService struct {
	repo      payrollrun.Repository
	publisher eventbus.EventBus
	logger    *logrus.Logger
}

func NewRunService(repo payrollrun.Repository, publisher eventbus.EventBus, logger *logrus.Logger) *RunService {
	return &RunService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *RunService) GetAll(ctx context.Context) ([]payrollrun.PayrollRun, error) {
	return s.repo.GetAll(ctx)
}

func (s *RunService) GetPaginated(ctx context.Context, params *payrollrun.FindParams) ([]payrollrun.PayrollRun, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *RunService) GetByID(ctx context.Context, id string) (payrollrun.PayrollRun, error) {
	return s.repo.GetByID(ctx, id)
}

// Transition applies a workflow action to a run. State-changing actions PATCH
// the backend; payslip operations trigger their side effect and leave the run
// untouched.
func (s *RunService) Transition(
	ctx context.Context,
	id string,
	action workflow.Action,
	role workflow.Role,
	payload workflow.Payload,
) (payrollrun.PayrollRun, error) {
	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return payrollrun.PayrollRun{}, err
	}

	res, err := workflow.Apply(run.Status(), action, role, payload, time.Now().UTC())
	if err != nil {
		metrics.RunTransitions.WithLabelValues(string(action), outcomeLabel(err)).Inc()
		s.logger.WithFields(logrus.Fields{
			"runId":  id,
			"action": action,
			"role":   role,
			"state":  run.Status(),
		}).WithError(err).Warn("transition rejected before backend call")
		return payrollrun.PayrollRun{}, err
	}

	if !res.Changed {
		if err := s.triggerPayslipOperation(ctx, id, action); err != nil {
			metrics.RunTransitions.WithLabelValues(string(action), outcomeLabel(err)).Inc()
			return payrollrun.PayrollRun{}, err
		}
		metrics.RunTransitions.WithLabelValues(string(action), "success").Inc()
		s.publisher.Publish(payrollrun.NewPayslipOperationEvent(id, action, role))
		return run, nil
	}

	updated, err := s.repo.Transition(ctx, id, action, payload, res.Patch)
	if err != nil {
		metrics.RunTransitions.WithLabelValues(string(action), outcomeLabel(err)).Inc()
		return payrollrun.PayrollRun{}, err
	}

	metrics.RunTransitions.WithLabelValues(string(action), "success").Inc()
	s.publisher.Publish(payrollrun.NewTransitionedEvent(updated, action, run.Status(), res.Next, role))
	return updated, nil
}

// AllowedActions lists what the given role may do to the run right now.
func (s *RunService) AllowedActions(run payrollrun.PayrollRun, role workflow.Role) []workflow.Action {
	return workflow.AllowedActions(run.Status(), role)
}

// Delete removes a run. Only draft and rejected runs are deletable.
func (s *RunService) Delete(ctx context.Context, id string, role workflow.Role) error {
	if !workflow.KnownRole(role) {
		return workflow.ErrForbidden.WithTemplateData(map[string]string{"role": string(role)})
	}

	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !run.Deletable() {
		return workflow.ErrInvalidTransition.WithTemplateData(map[string]string{
			"action": "delete",
			"state":  string(run.Status()),
		})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(payrollrun.NewDeletedEvent(id))
	return nil
}

func (s *RunService) triggerPayslipOperation(ctx context.Context, id string, action workflow.Action) error {
	switch action {
	case workflow.ActionGeneratePayslips:
		return s.repo.GeneratePayslips(ctx, id)
	case workflow.ActionDistributePayslips:
		return s.repo.DistributePayslips(ctx, id)
	case workflow.ActionMarkPaid:
		return s.repo.MarkPaid(ctx, id)
	default:
		return errors.Errorf("unexpected non-moving action %s", action)
	}
}

func outcomeLabel(err error) string {
	code, ok := serrors.CodeOf(err)
	if !ok {
		return "error"
	}
	switch code {
	case "PAYROLL_INVALID_TRANSITION":
		return "invalid_transition"
	case "PAYROLL_FORBIDDEN":
		return "forbidden"
	case "PAYROLL_VALIDATION_FAILED":
		return "validation_failed"
	case "PAYROLL_UPSTREAM":
		return "upstream_error"
	default:
		return "error"
	}
}
