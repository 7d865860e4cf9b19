package exception

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_TypePriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Type
	}{
		{"bank details", "Missing bank details for employee", TypeMissingBankDetails},
		{"bank uppercase", "MISSING BANK ACCOUNT", TypeMissingBankDetails},
		{"bank wins over negative", "Negative net pay caused by bank rejection", TypeMissingBankDetails},
		{"negative", "Negative net pay after deductions", TypeNegativeNetPay},
		{"penalty", "Penalty deductions exceed 50% of gross", TypeExcessivePenalties},
		{"penalties plural", "Too many penalties this period", TypeExcessivePenalties},
		{"zero salary", "Employee has zero base salary this month", TypeZeroBaseSalary},
		{"zero without salary", "Zero hours recorded", TypeCalculationError},
		{"salary without zero", "Salary component missing", TypeCalculationError},
		{"catch-all", "Unexpected rounding discrepancy", TypeCalculationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.text).Type)
		})
	}
}

func TestClassify_StatusInference(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Status
	}{
		{"open by default", "Employee has zero base salary this month", StatusOpen},
		{"resolved", "Negative net pay - RESOLVED: adjusted tax bracket", StatusResolved},
		{"resolved lowercase", "bank issue resolved yesterday", StatusResolved},
		{"in progress", "Missing bank details, fix in progress", StatusInProgress},
		{"investigating", "Investigating calculation mismatch", StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.text).Status)
		})
	}
}

func TestClassify_ResolutionNote(t *testing.T) {
	c := Classify("Negative net pay - RESOLVED: adjusted tax bracket")
	require.Equal(t, TypeNegativeNetPay, c.Type)
	require.Equal(t, StatusResolved, c.Status)
	require.Equal(t, "adjusted tax bracket", c.ResolutionNote)

	c = Classify("bank details missing - resolved:   updated IBAN  ")
	require.Equal(t, "updated IBAN", c.ResolutionNote)

	// marker with no payload yields no note; status still reads resolved
	c = Classify("penalty issue RESOLVED:")
	require.Equal(t, StatusResolved, c.Status)
	require.Empty(t, c.ResolutionNote)

	// no marker, no note
	require.Empty(t, Classify("Negative net pay").ResolutionNote)
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{
		"Missing bank details",
		"Negative net pay - RESOLVED: adjusted tax bracket",
		"zero base salary, investigating",
		"",
	}
	for _, in := range inputs {
		require.Equal(t, Classify(in), Classify(in), "input %q", in)
	}
}

func TestRecord_DerivedFieldsConsistentWithRawText(t *testing.T) {
	raw := "Negative net pay - RESOLVED: adjusted tax bracket"
	rec := NewRecord("run-1", "2026-03", "approved", EmployeeRef{ID: "emp-9"}, raw, testTime)

	require.Equal(t, "run-1:emp-9", rec.Key())
	require.Equal(t, Classify(rec.RawText()).Type, rec.Type())
	require.Equal(t, Classify(rec.RawText()).Status, rec.Status())
	require.Equal(t, Classify(rec.RawText()).ResolutionNote, rec.ResolutionNote())
	require.False(t, rec.MissingResolutionNote())
}

func TestRecord_MissingResolutionNoteWarning(t *testing.T) {
	rec := NewRecord("run-1", "2026-03", "approved", EmployeeRef{ID: "emp-9"}, "issue was resolved", testTime)
	require.Equal(t, StatusResolved, rec.Status())
	require.True(t, rec.MissingResolutionNote())

	open := NewRecord("run-1", "2026-03", "approved", EmployeeRef{ID: "emp-9"}, "negative net pay", testTime)
	require.False(t, open.MissingResolutionNote())
}
