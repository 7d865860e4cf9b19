package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/exception"
	"github.com/iota-uz/payroll-console/pkg/eventbus"
	"github.com/iota-uz/payroll-console/pkg/metrics"
)

// AggregateView is one reconciled snapshot of every exception across all
// payroll runs. Records keep the order runs were fetched in; within a run
// they keep the backend's entry order.
type AggregateView struct {
	Records       []exception.Record
	CountByType   map[exception.Type]int
	CountByStatus map[exception.Status]int
	FailedRuns    []string
	FetchedAt     time.Time
}

// TotalOpen counts records not yet resolved.
func (v *AggregateView) TotalOpen() int {
	return v.CountByStatus[exception.StatusOpen] + v.CountByStatus[exception.StatusInProgress]
}

// ResolveRequest identifies one exception to resolve and the note to attach.
type ResolveRequest struct {
	RunID      string
	EmployeeID string
	Note       string
}

// BulkResult reports the per-item outcome of a bulk resolution.
type BulkResult struct {
	Succeeded int
	Failed    int
	Failures  map[string]string
}

// ExceptionService aggregates raw exception texts from every run into
// classified records and pushes resolutions back to the backend. Snapshots
// are rebuilt from scratch on every refresh; nothing derived is ever stored
// upstream.
type ExceptionService struct {
	runs      payrollrun.Repository
	gateway   exception.Gateway
	publisher eventbus.EventBus
	logger    *logrus.Logger

	mu         sync.Mutex
	generation atomic.Uint64
	latest     *AggregateView
}

func NewExceptionService(
	runs payrollrun.Repository,
	gateway exception.Gateway,
	publisher eventbus.EventBus,
	logger *logrus.Logger,
) *ExceptionService {
	return &ExceptionService{
		runs:      runs,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
	}
}

// Latest returns the most recently stored snapshot, or nil before the first
// successful refresh.
func (s *ExceptionService) Latest() *AggregateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Refresh fetches every run's exceptions concurrently and reconciles them
// into a fresh snapshot. A run whose fetch fails degrades the view instead of
// aborting it: the run lands in FailedRuns and its records are simply absent.
// When refreshes overlap, only the newest one may store its result; stale
// snapshots are returned to their caller but never become Latest.
func (s *ExceptionService) Refresh(ctx context.Context) (*AggregateView, error) {
	gen := s.generation.Add(1)

	runs, err := s.runs.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	type fetched struct {
		payload exception.RunExceptions
		err     error
	}
	results := make([]fetched, len(runs))

	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			payload, err := s.gateway.ListByRun(ctx, id)
			results[i] = fetched{payload: payload, err: err}
		}(i, run.ID())
	}
	wg.Wait()

	view := &AggregateView{
		CountByType:   make(map[exception.Type]int),
		CountByStatus: make(map[exception.Status]int),
		FetchedAt:     time.Now().UTC(),
	}

	for i, run := range runs {
		res := results[i]
		if res.err != nil {
			metrics.ExceptionFetchFailures.Inc()
			s.logger.WithFields(logrus.Fields{
				"runId": run.ID(),
				"error": res.err.Error(),
			}).Warn("exception fetch failed, run excluded from aggregate")
			view.FailedRuns = append(view.FailedRuns, run.ID())
			continue
		}

		for _, entry := range res.payload.Entries {
			if strings.TrimSpace(entry.Text) == "" {
				continue
			}
			rec := exception.NewRecord(
				run.ID(),
				run.RunLabel(),
				run.DisplayStatus(),
				entry.Employee,
				entry.Text,
				entry.CreatedAt,
			)
			if rec.MissingResolutionNote() {
				s.logger.WithFields(logrus.Fields{
					"runId":      rec.RunID(),
					"employeeId": rec.EmployeeID(),
				}).Warn("resolved exception carries no resolution note")
			}
			metrics.ExceptionsClassified.WithLabelValues(string(rec.Type())).Inc()
			view.Records = append(view.Records, rec)
			view.CountByType[rec.Type()]++
			view.CountByStatus[rec.Status()]++
		}
	}

	s.store(gen, view)
	return view, nil
}

// Resolve marks one exception resolved on the backend. The note is mandatory;
// it becomes the RESOLVED: payload in the run's raw text.
func (s *ExceptionService) Resolve(ctx context.Context, req ResolveRequest) error {
	if err := validateResolve(req); err != nil {
		return err
	}

	note := strings.TrimSpace(req.Note)
	if err := s.gateway.Resolve(ctx, req.RunID, req.EmployeeID, note); err != nil {
		metrics.ExceptionResolutions.WithLabelValues("failure").Inc()
		return err
	}

	metrics.ExceptionResolutions.WithLabelValues("success").Inc()
	s.publisher.Publish(exception.NewResolvedEvent(req.RunID, req.EmployeeID, note))
	return nil
}

// BulkResolve resolves many exceptions concurrently, applying the same note
// to each. Items fail independently; the result maps each failed composite
// key (runId:employeeId) to its error message. All items failing is an
// error in total, a mix is a partial error, and full success is nil.
func (s *ExceptionService) BulkResolve(ctx context.Context, reqs []ResolveRequest) (BulkResult, error) {
	if len(reqs) == 0 {
		return BulkResult{}, exception.ErrValidation.WithTemplateData(map[string]string{"field": "items"})
	}

	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req ResolveRequest) {
			defer wg.Done()
			errs[i] = s.Resolve(ctx, req)
		}(i, req)
	}
	wg.Wait()

	res := BulkResult{Failures: make(map[string]string)}
	for i, err := range errs {
		if err == nil {
			res.Succeeded++
			continue
		}
		res.Failed++
		res.Failures[reqs[i].RunID+":"+reqs[i].EmployeeID] = err.Error()
	}

	switch {
	case res.Failed == 0:
		return res, nil
	case res.Succeeded == 0:
		return res, exception.ErrBulkTotal
	default:
		return res, exception.ErrBulkPartial
	}
}

// FailedRunsSorted returns the snapshot's failed run ids in stable order for
// display.
func FailedRunsSorted(view *AggregateView) []string {
	out := make([]string, len(view.FailedRuns))
	copy(out, view.FailedRuns)
	sort.Strings(out)
	return out
}

func (s *ExceptionService) store(gen uint64, view *AggregateView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation.Load() {
		return
	}
	s.latest = view
}

func validateResolve(req ResolveRequest) error {
	switch {
	case strings.TrimSpace(req.RunID) == "":
		return exception.ErrValidation.WithTemplateData(map[string]string{"field": "runId"})
	case strings.TrimSpace(req.EmployeeID) == "":
		return exception.ErrValidation.WithTemplateData(map[string]string{"field": "employeeId"})
	case strings.TrimSpace(req.Note) == "":
		return exception.ErrValidation.WithTemplateData(map[string]string{"field": "resolutionNote"})
	}
	return nil
}
