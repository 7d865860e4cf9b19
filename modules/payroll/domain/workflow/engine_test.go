package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestApply_HappyPath(t *testing.T) {
	res, err := Apply(StateDraft, ActionPublish, RoleSpecialist, Payload{}, now)
	require.NoError(t, err)
	require.Equal(t, StateUnderReview, res.Next)
	require.True(t, res.Changed)
	require.Nil(t, res.Patch.ManagerApprovalDate)

	res, err = Apply(StateUnderReview, ActionManagerApprove, RoleManager, Payload{}, now)
	require.NoError(t, err)
	require.Equal(t, StatePendingFinanceApproval, res.Next)
	require.NotNil(t, res.Patch.ManagerApprovalDate)
	require.Equal(t, now, *res.Patch.ManagerApprovalDate)

	res, err = Apply(StatePendingFinanceApproval, ActionFinanceApprove, RoleFinance, Payload{}, now)
	require.NoError(t, err)
	require.Equal(t, StateApproved, res.Next)
	require.NotNil(t, res.Patch.FinanceApprovalDate)
}

func TestApply_RoleGuardPrecedesStateGuard(t *testing.T) {
	// publish from draft is a legal transition, but not for finance
	_, err := Apply(StateDraft, ActionPublish, RoleFinance, Payload{}, now)
	require.ErrorIs(t, err, ErrForbidden)

	// even from an illegal state, the role failure must win
	_, err = Apply(StateLocked, ActionPublish, RoleFinance, Payload{}, now)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestApply_RejectRequiresReason(t *testing.T) {
	for _, tc := range []struct {
		from   State
		action Action
		role   Role
	}{
		{StateUnderReview, ActionManagerReject, RoleManager},
		{StatePendingFinanceApproval, ActionFinanceReject, RoleFinance},
	} {
		_, err := Apply(tc.from, tc.action, tc.role, Payload{}, now)
		require.ErrorIs(t, err, ErrValidation, "empty reason for %s", tc.action)

		_, err = Apply(tc.from, tc.action, tc.role, Payload{Reason: "   "}, now)
		require.ErrorIs(t, err, ErrValidation, "whitespace reason for %s", tc.action)

		res, err := Apply(tc.from, tc.action, tc.role, Payload{Reason: "  totals mismatch "}, now)
		require.NoError(t, err)
		require.Equal(t, StateRejected, res.Next)
		require.NotNil(t, res.Patch.RejectionReason)
		require.Equal(t, "totals mismatch", *res.Patch.RejectionReason)
	}
}

func TestApply_LockedOnlyAllowsUnfreeze(t *testing.T) {
	_, err := Apply(StateLocked, ActionManagerApprove, RoleManager, Payload{}, now)
	require.ErrorIs(t, err, ErrInvalidTransition)

	res, err := Apply(StateLocked, ActionUnfreeze, RoleManager, Payload{UnlockReason: "audit cleared"}, now)
	require.NoError(t, err)
	require.Equal(t, StateApproved, res.Next)
	require.NotNil(t, res.Patch.UnlockReason)
	require.Equal(t, "audit cleared", *res.Patch.UnlockReason)
}

func TestApply_FreezeFromPendingAndApproved(t *testing.T) {
	for _, from := range []State{StatePendingFinanceApproval, StateApproved} {
		res, err := Apply(from, ActionFreeze, RoleManager, Payload{FreezeReason: "year-end audit"}, now)
		require.NoError(t, err)
		require.Equal(t, StateLocked, res.Next)
		require.NotNil(t, res.Patch.FreezeReason)
	}

	// freeze reason is optional
	res, err := Apply(StateApproved, ActionFreeze, RoleManager, Payload{}, now)
	require.NoError(t, err)
	require.Equal(t, StateLocked, res.Next)
	require.Nil(t, res.Patch.FreezeReason)
}

func TestApply_PayslipOperationsDoNotChangeState(t *testing.T) {
	for _, action := range []Action{ActionGeneratePayslips, ActionDistributePayslips, ActionMarkPaid} {
		for _, from := range []State{StateApproved, StateLocked} {
			res, err := Apply(from, action, RoleSpecialist, Payload{}, now)
			require.NoError(t, err)
			require.False(t, res.Changed)
			require.Equal(t, from, res.Next)
		}

		_, err := Apply(StateUnderReview, action, RoleManager, Payload{}, now)
		require.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestApply_UnlockedAliasBehavesAsApproved(t *testing.T) {
	res, err := Apply(State(DisplayUnlocked), ActionFreeze, RoleManager, Payload{}, now)
	require.NoError(t, err)
	require.Equal(t, StateLocked, res.Next)

	res, err = Apply(State(DisplayUnlocked), ActionGeneratePayslips, RoleFinance, Payload{}, now)
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Equal(t, StateApproved, res.Next)
}

func TestApply_UnknownAction(t *testing.T) {
	_, err := Apply(StateDraft, Action("recalculate"), RoleManager, Payload{}, now)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAllowedActions(t *testing.T) {
	require.Equal(t, []Action{ActionPublish}, AllowedActions(StateDraft, RoleSpecialist))
	require.Empty(t, AllowedActions(StateDraft, RoleManager))
	require.Equal(t,
		[]Action{ActionManagerApprove, ActionManagerReject},
		AllowedActions(StateUnderReview, RoleManager),
	)
	require.Equal(t,
		[]Action{ActionFinanceApprove, ActionFinanceReject},
		AllowedActions(StatePendingFinanceApproval, RoleFinance),
	)
	require.Equal(t,
		[]Action{ActionFreeze, ActionGeneratePayslips, ActionDistributePayslips, ActionMarkPaid},
		AllowedActions(StateApproved, RoleManager),
	)
	require.Equal(t,
		[]Action{ActionUnfreeze, ActionGeneratePayslips, ActionDistributePayslips, ActionMarkPaid},
		AllowedActions(StateLocked, RoleManager),
	)
	require.Equal(t,
		[]Action{ActionGeneratePayslips, ActionDistributePayslips, ActionMarkPaid},
		AllowedActions(StateLocked, RoleFinance),
	)

	// the alias lists the same actions as approved
	require.Equal(t,
		AllowedActions(StateApproved, RoleManager),
		AllowedActions(State(DisplayUnlocked), RoleManager),
	)
}

func TestCanDelete(t *testing.T) {
	require.True(t, CanDelete(StateDraft))
	require.True(t, CanDelete(StateRejected))
	for _, s := range []State{StateUnderReview, StatePendingFinanceApproval, StateApproved, StateLocked, State(DisplayUnlocked)} {
		require.False(t, CanDelete(s), "state %s must not be deletable", s)
	}
}

func TestKnownStateAndRole(t *testing.T) {
	for _, s := range []State{StateDraft, StateUnderReview, StatePendingFinanceApproval, StateApproved, StateLocked, StateRejected, State(DisplayUnlocked)} {
		require.True(t, KnownState(s))
	}
	require.False(t, KnownState(State("archived")))

	require.True(t, KnownRole(RoleSpecialist))
	require.False(t, KnownRole(Role("admin")))
}
