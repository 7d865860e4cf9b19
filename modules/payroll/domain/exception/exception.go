package exception

import (
	"context"
	"time"

	"github.com/iota-uz/payroll-console/pkg/serrors"
)

var (
	ErrValidation  = serrors.NewError("PAYROLL_VALIDATION_FAILED", "invalid exception request")
	ErrBulkTotal   = serrors.NewError("PAYROLL_BULK_FAILED", "all bulk resolution items failed")
	ErrBulkPartial = serrors.NewError("PAYROLL_BULK_PARTIAL", "some bulk resolution items failed")
)

// Record is one structured exception, derived entirely from the backend's
// raw text. Every derived field is a pure function of RawText; re-parsing
// RawText must reproduce the record exactly.
type Record struct {
	key          string
	runID        string
	runLabel     string
	runStatus    string
	employeeID   string
	employeeName string
	rawText      string
	derived      Classification
	createdAt    time.Time
}

// NewRecord classifies rawText and builds the derived record. The composite
// key is runID:employeeID, deterministic across re-fetches.
func NewRecord(runID, runLabel, runStatus string, employee EmployeeRef, rawText string, createdAt time.Time) Record {
	return Record{
		key:          runID + ":" + employee.Identifier(),
		runID:        runID,
		runLabel:     runLabel,
		runStatus:    runStatus,
		employeeID:   employee.Identifier(),
		employeeName: employee.DisplayName(),
		rawText:      rawText,
		derived:      Classify(rawText),
		createdAt:    createdAt,
	}
}

func (r Record) Key() string            { return r.key }
func (r Record) RunID() string          { return r.runID }
func (r Record) RunLabel() string       { return r.runLabel }
func (r Record) RunStatus() string      { return r.runStatus }
func (r Record) EmployeeID() string     { return r.employeeID }
func (r Record) EmployeeName() string   { return r.employeeName }
func (r Record) RawText() string        { return r.rawText }
func (r Record) Type() Type             { return r.derived.Type }
func (r Record) Status() Status         { return r.derived.Status }
func (r Record) ResolutionNote() string { return r.derived.ResolutionNote }
func (r Record) CreatedAt() time.Time   { return r.createdAt }

// MissingResolutionNote flags the data-quality case of a resolved record
// whose text carries no RESOLVED: marker payload. Upstream is expected to
// always append one; the absence is a warning, not an error.
func (r Record) MissingResolutionNote() bool {
	return r.derived.Status == StatusResolved && r.derived.ResolutionNote == ""
}

// RunExceptions is one run's raw exception payload as fetched from the
// backend.
type RunExceptions struct {
	RunID   string
	Count   int
	Entries []Entry
}

// Entry is a single raw exception line. Text may be empty; such entries are
// padding in the backend response, not exceptions, and are skipped during
// aggregation.
type Entry struct {
	Employee  EmployeeRef
	Text      string
	CreatedAt time.Time
}

// Gateway is the collaborator surface the reconciler consumes.
type Gateway interface {
	ListByRun(ctx context.Context, runID string) (RunExceptions, error)
	Resolve(ctx context.Context, runID, employeeID, note string) error
}
