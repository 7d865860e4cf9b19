package payrollrun

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
)

// TransitionedEvent is published after the backend confirmed a workflow
// transition.
type TransitionedEvent struct {
	EventID   uuid.UUID
	RunID     string
	RunLabel  string
	Action    workflow.Action
	From      workflow.State
	To        workflow.State
	ActorRole workflow.Role
	At        time.Time
}

func NewTransitionedEvent(run PayrollRun, action workflow.Action, from, to workflow.State, role workflow.Role) *TransitionedEvent {
	return &TransitionedEvent{
		EventID:   uuid.New(),
		RunID:     run.ID(),
		RunLabel:  run.RunLabel(),
		Action:    action,
		From:      from,
		To:        to,
		ActorRole: role,
		At:        time.Now().UTC(),
	}
}

// PayslipOperationEvent is published after a payslip side effect (generate,
// distribute, mark paid) was triggered on the backend.
type PayslipOperationEvent struct {
	EventID   uuid.UUID
	RunID     string
	Operation workflow.Action
	ActorRole workflow.Role
	At        time.Time
}

func NewPayslipOperationEvent(runID string, op workflow.Action, role workflow.Role) *PayslipOperationEvent {
	return &PayslipOperationEvent{
		EventID:   uuid.New(),
		RunID:     runID,
		Operation: op,
		ActorRole: role,
		At:        time.Now().UTC(),
	}
}

// DeletedEvent is published after a draft or rejected run was deleted.
type DeletedEvent struct {
	EventID uuid.UUID
	RunID   string
	At      time.Time
}

func NewDeletedEvent(runID string) *DeletedEvent {
	return &DeletedEvent{EventID: uuid.New(), RunID: runID, At: time.Now().UTC()}
}
