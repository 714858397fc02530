// Package attempt tracks in-flight job attempts and the failures they
// accumulate, turning them into failure summaries when the attempt ends.
package attempt

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/syncrunner/internal/core/domain"
	"github.com/vietddude/syncrunner/internal/failure"
)

// Tracker accumulates failure reasons for one in-flight attempt.
// Failures are kept in the order they were recorded, which is also the
// tie-break order in the final summary for records with equal trace
// rank and timestamp.
type Tracker struct {
	id        string
	jobID     int64
	number    int
	startedAt int64

	mu             sync.Mutex
	failures       []domain.FailureReason
	partialSuccess bool
}

// NewTracker starts tracking an attempt of the given job.
func NewTracker(jobID int64, attemptNumber int) *Tracker {
	attemptsInFlight.Inc()
	return &Tracker{
		id:        uuid.NewString(),
		jobID:     jobID,
		number:    attemptNumber,
		startedAt: time.Now().UnixMilli(),
	}
}

// ID returns the attempt's tracker id.
func (t *Tracker) ID() string { return t.id }

// JobID returns the job this attempt belongs to.
func (t *Tracker) JobID() int64 { return t.jobID }

// Number returns the attempt number within the job.
func (t *Tracker) Number() int { return t.number }

// Record adds an already-built failure reason to the attempt.
func (t *Tracker) Record(f domain.FailureReason) {
	t.mu.Lock()
	t.failures = append(t.failures, f)
	t.mu.Unlock()

	failureReasonsRecorded.WithLabelValues(
		string(f.Origin),
		strconv.FormatBool(f.FromTrace()),
	).Inc()
}

// RecordActivityError classifies and records an error raised while
// running a workflow activity.
func (t *Tracker) RecordActivityError(workflowType, activityType string, err error) {
	t.Record(failure.FromWorkflowAndActivity(workflowType, activityType, err, t.jobID, t.number))
}

// RecordConnectorTraces resolves trace messages from the source and/or
// destination connector into a single failure and records it. Reports
// whether anything was recorded; both sides absent records nothing.
func (t *Tracker) RecordConnectorTraces(sourceMsg, destMsg *domain.TraceMessage) bool {
	f := failure.ConnectorTraceFailure(sourceMsg, destMsg, t.jobID, t.number)
	if f == nil {
		return false
	}
	t.Record(*f)
	return true
}

// SetPartialSuccess marks whether the attempt moved some data before
// failing.
func (t *Tracker) SetPartialSuccess(partial bool) {
	t.mu.Lock()
	t.partialSuccess = partial
	t.mu.Unlock()
}

// Failures returns a copy of the failures recorded so far.
func (t *Tracker) Failures() []domain.FailureReason {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.FailureReason, len(t.failures))
	copy(out, t.failures)
	return out
}

// Summarize ends the attempt as failed and returns its failure summary.
func (t *Tracker) Summarize() domain.AttemptFailureSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	attemptsInFlight.Dec()
	summariesBuilt.WithLabelValues("failed").Inc()
	return failure.Summary(t.failures, t.partialSuccess)
}

// SummarizeCancelled ends the attempt as cancelled, appending the
// synthetic cancellation record to the summary.
func (t *Tracker) SummarizeCancelled() domain.AttemptFailureSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	attemptsInFlight.Dec()
	summariesBuilt.WithLabelValues("cancelled").Inc()
	return failure.SummaryForCancellation(t.jobID, t.number, t.failures, t.partialSuccess)
}

// Snapshot returns the attempt as a domain record with the given
// status and summary. Still-running attempts carry no end time.
func (t *Tracker) Snapshot(status domain.AttemptStatus, summary *domain.AttemptFailureSummary) *domain.Attempt {
	var endedAt int64
	if status != domain.AttemptStatusRunning {
		endedAt = time.Now().UnixMilli()
	}
	return &domain.Attempt{
		ID:             t.id,
		JobID:          t.jobID,
		Number:         t.number,
		Status:         status,
		FailureSummary: summary,
		StartedAt:      t.startedAt,
		EndedAt:        endedAt,
	}
}
