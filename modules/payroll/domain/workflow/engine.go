package workflow

import (
	"strings"
	"time"

	"github.com/iota-uz/payroll-console/pkg/serrors"
)

type State string

const (
	StateDraft                  State = "draft"
	StateUnderReview            State = "under_review"
	StatePendingFinanceApproval State = "pending_finance_approval"
	StateApproved               State = "approved"
	StateLocked                 State = "locked"
	StateRejected               State = "rejected"

	// DisplayUnlocked is a presentation alias for approved-after-unfreeze.
	// The backend occasionally reports it as a status; it is never a
	// distinct machine state here.
	DisplayUnlocked = "unlocked"
)

type Action string

const (
	ActionPublish            Action = "publish"
	ActionManagerApprove     Action = "manager_approve"
	ActionManagerReject      Action = "manager_reject"
	ActionFinanceApprove     Action = "finance_approve"
	ActionFinanceReject      Action = "finance_reject"
	ActionFreeze             Action = "freeze"
	ActionUnfreeze           Action = "unfreeze"
	ActionGeneratePayslips   Action = "generate_payslips"
	ActionDistributePayslips Action = "distribute_payslips"
	ActionMarkPaid           Action = "mark_paid"
)

type Role string

const (
	RoleSpecialist Role = "specialist"
	RoleManager    Role = "manager"
	RoleFinance    Role = "finance"
)

var (
	ErrInvalidTransition = serrors.NewError("PAYROLL_INVALID_TRANSITION", "action not allowed from current state")
	ErrForbidden         = serrors.NewError("PAYROLL_FORBIDDEN", "actor role may not perform this action")
	ErrValidation        = serrors.NewError("PAYROLL_VALIDATION_FAILED", "transition payload is invalid")
)

// Payload carries the action-specific inputs for a transition.
type Payload struct {
	Reason       string
	FreezeReason string
	UnlockReason string
	ApproverID   string
}

// Patch is the field set the caller persists alongside the new state. Nil
// fields are left untouched upstream.
type Patch struct {
	ManagerApprovalDate *time.Time
	FinanceApprovalDate *time.Time
	RejectionReason     *string
	FreezeReason        *string
	UnlockReason        *string
}

// Result of a legal transition. Changed is false for payslip operations,
// which are gated by the same table but leave the run state untouched.
type Result struct {
	Next    State
	Changed bool
	Patch   Patch
}

type rule struct {
	from  []State
	roles []Role
	guard func(Payload) error
	next  State
	moves bool
	apply func(*Patch, Payload, time.Time)
}

var anyAuthorized = []Role{RoleSpecialist, RoleManager, RoleFinance}

func requireReason(p Payload) error {
	if strings.TrimSpace(p.Reason) == "" {
		return ErrValidation.WithTemplateData(map[string]string{"field": "reason"})
	}
	return nil
}

var transitions = map[Action]rule{
	ActionPublish: {
		from:  []State{StateDraft},
		roles: []Role{RoleSpecialist},
		next:  StateUnderReview,
		moves: true,
	},
	ActionManagerApprove: {
		from:  []State{StateUnderReview},
		roles: []Role{RoleManager},
		next:  StatePendingFinanceApproval,
		moves: true,
		apply: func(patch *Patch, _ Payload, now time.Time) {
			patch.ManagerApprovalDate = &now
		},
	},
	ActionManagerReject: {
		from:  []State{StateUnderReview},
		roles: []Role{RoleManager},
		guard: requireReason,
		next:  StateRejected,
		moves: true,
		apply: func(patch *Patch, p Payload, _ time.Time) {
			reason := strings.TrimSpace(p.Reason)
			patch.RejectionReason = &reason
		},
	},
	ActionFinanceApprove: {
		from:  []State{StatePendingFinanceApproval},
		roles: []Role{RoleFinance},
		next:  StateApproved,
		moves: true,
		apply: func(patch *Patch, _ Payload, now time.Time) {
			patch.FinanceApprovalDate = &now
		},
	},
	ActionFinanceReject: {
		from:  []State{StatePendingFinanceApproval},
		roles: []Role{RoleFinance},
		guard: requireReason,
		next:  StateRejected,
		moves: true,
		apply: func(patch *Patch, p Payload, _ time.Time) {
			reason := strings.TrimSpace(p.Reason)
			patch.RejectionReason = &reason
		},
	},
	ActionFreeze: {
		from:  []State{StatePendingFinanceApproval, StateApproved},
		roles: []Role{RoleManager},
		next:  StateLocked,
		moves: true,
		apply: func(patch *Patch, p Payload, _ time.Time) {
			if reason := strings.TrimSpace(p.FreezeReason); reason != "" {
				patch.FreezeReason = &reason
			}
		},
	},
	ActionUnfreeze: {
		from:  []State{StateLocked},
		roles: []Role{RoleManager},
		next:  StateApproved,
		moves: true,
		apply: func(patch *Patch, p Payload, _ time.Time) {
			reason := strings.TrimSpace(p.UnlockReason)
			patch.UnlockReason = &reason
		},
	},
	ActionGeneratePayslips: {
		from:  []State{StateApproved, StateLocked},
		roles: anyAuthorized,
	},
	ActionDistributePayslips: {
		from:  []State{StateApproved, StateLocked},
		roles: anyAuthorized,
	},
	ActionMarkPaid: {
		from:  []State{StateApproved, StateLocked},
		roles: anyAuthorized,
	},
}

// actionOrder fixes the iteration order for AllowedActions.
var actionOrder = []Action{
	ActionPublish,
	ActionManagerApprove,
	ActionManagerReject,
	ActionFinanceApprove,
	ActionFinanceReject,
	ActionFreeze,
	ActionUnfreeze,
	ActionGeneratePayslips,
	ActionDistributePayslips,
	ActionMarkPaid,
}

// Normalize folds display aliases into machine states.
func Normalize(s State) State {
	if string(s) == DisplayUnlocked {
		return StateApproved
	}
	return s
}

// Apply validates a requested transition and returns the next state plus the
// patch to persist. It performs no I/O; the actual PATCH against the backend
// is the caller's responsibility, issued only on success.
//
// The role guard runs before the state guard, mirroring the server-side
// authorization, and payload validation runs last, so a forbidden actor
// never learns whether the transition would otherwise have been legal.
func Apply(current State, action Action, role Role, p Payload, now time.Time) (Result, error) {
	current = Normalize(current)

	r, ok := transitions[action]
	if !ok {
		return Result{}, ErrInvalidTransition.WithTemplateData(map[string]string{
			"action": string(action),
		})
	}

	if !roleAllowed(r.roles, role) {
		return Result{}, ErrForbidden.WithTemplateData(map[string]string{
			"action": string(action),
			"role":   string(role),
		})
	}

	if !stateListed(r.from, current) {
		return Result{}, ErrInvalidTransition.WithTemplateData(map[string]string{
			"action": string(action),
			"state":  string(current),
		})
	}

	if r.guard != nil {
		if err := r.guard(p); err != nil {
			return Result{}, err
		}
	}

	res := Result{Next: current, Changed: r.moves}
	if r.moves {
		res.Next = r.next
	}
	if r.apply != nil {
		r.apply(&res.Patch, p, now.UTC())
	}
	return res, nil
}

// AllowedActions lists every action the given role could legally perform from
// the given state, in fixed table order. UI layers render exactly this list.
func AllowedActions(current State, role Role) []Action {
	current = Normalize(current)
	var out []Action
	for _, action := range actionOrder {
		r := transitions[action]
		if roleAllowed(r.roles, role) && stateListed(r.from, current) {
			out = append(out, action)
		}
	}
	return out
}

// CanDelete reports whether a run in the given state may be deleted.
func CanDelete(current State) bool {
	current = Normalize(current)
	return current == StateDraft || current == StateRejected
}

// KnownState reports whether s is a recognized status label, display aliases
// included.
func KnownState(s State) bool {
	switch Normalize(s) {
	case StateDraft, StateUnderReview, StatePendingFinanceApproval, StateApproved, StateLocked, StateRejected:
		return true
	}
	return false
}

// KnownRole reports whether r is a payroll console role.
func KnownRole(r Role) bool {
	switch r {
	case RoleSpecialist, RoleManager, RoleFinance:
		return true
	}
	return false
}

func roleAllowed(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func stateListed(states []State, s State) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}
