package exception

import (
	"time"

	"github.com/google/uuid"
)

// ResolvedEvent is published after the backend confirmed a resolution write.
// The next re-fetch re-derives the record from the updated raw text.
type ResolvedEvent struct {
	EventID    uuid.UUID
	RunID      string
	EmployeeID string
	Note       string
	At         time.Time
}

func NewResolvedEvent(runID, employeeID, note string) *ResolvedEvent {
	return &ResolvedEvent{
		EventID:    uuid.New(),
		RunID:      runID,
		EmployeeID: employeeID,
		Note:       note,
		At:         time.Now().UTC(),
	}
}
