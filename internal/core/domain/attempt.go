package domain

// Attempt represents one execution try of a sync job. A job may have
// multiple attempts; each gets its own failure summary when it fails.
type Attempt struct {
	ID             string                 `json:"id"`
	JobID          int64                  `json:"job_id"`
	Number         int                    `json:"attempt_number"`
	Status         AttemptStatus          `json:"status"`
	FailureSummary *AttemptFailureSummary `json:"failure_summary,omitempty"`
	StartedAt      int64                  `json:"started_at"`
	EndedAt        int64                  `json:"ended_at"`
}

type AttemptStatus string

const (
	AttemptStatusRunning   AttemptStatus = "running"
	AttemptStatusSucceeded AttemptStatus = "succeeded"
	AttemptStatusFailed    AttemptStatus = "failed"
	AttemptStatusCancelled AttemptStatus = "cancelled"
)
