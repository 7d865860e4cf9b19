package viewmodels

// PayrollRun is the run shape the console API returns. Status is the display
// label, so an unlocked run reads "unlocked" even though the machine state is
// approved.
type PayrollRun struct {
	ID                  string   `json:"id"`
	RunLabel            string   `json:"runLabel"`
	Entity              string   `json:"entity"`
	PayrollPeriod       string   `json:"payrollPeriod"`
	Status              string   `json:"status"`
	ManagerApprovalDate string   `json:"managerApprovalDate,omitempty"`
	FinanceApprovalDate string   `json:"financeApprovalDate,omitempty"`
	RejectionReason     string   `json:"rejectionReason,omitempty"`
	FreezeReason        string   `json:"freezeReason,omitempty"`
	UnlockReason        string   `json:"unlockReason,omitempty"`
	EmployeeCount       int      `json:"employeeCount"`
	ExceptionCount      int      `json:"exceptionCount"`
	TotalNetPay         string   `json:"totalNetPay"`
	AllowedActions      []string `json:"allowedActions"`
	Deletable           bool     `json:"deletable"`
	CreatedAt           string   `json:"createdAt"`
	UpdatedAt           string   `json:"updatedAt"`
}

// ExceptionRecord is one classified exception row.
type ExceptionRecord struct {
	Key            string `json:"key"`
	RunID          string `json:"runId"`
	RunLabel       string `json:"runLabel"`
	RunStatus      string `json:"runStatus"`
	EmployeeID     string `json:"employeeId"`
	EmployeeName   string `json:"employeeName"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	ResolutionNote string `json:"resolutionNote,omitempty"`
	RawText        string `json:"rawText"`
	CreatedAt      string `json:"createdAt"`
}

// ExceptionAggregate is the reconciled cross-run snapshot.
type ExceptionAggregate struct {
	Records       []*ExceptionRecord `json:"records"`
	CountByType   map[string]int     `json:"countByType"`
	CountByStatus map[string]int     `json:"countByStatus"`
	TotalOpen     int                `json:"totalOpen"`
	FailedRuns    []string           `json:"failedRuns"`
	FetchedAt     string             `json:"fetchedAt"`
}

// BulkResolveOutcome reports the per-item result of a bulk resolution.
type BulkResolveOutcome struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Failures  map[string]string `json:"failures,omitempty"`
}
