package domain

// Metadata keys attached to every failure reason.
const (
	MetadataJobID         = "jobId"
	MetadataAttemptNumber = "attemptNumber"
	MetadataFromTrace     = "from_trace_message"
)

// FailureReason describes one cause of a job attempt's failure.
// Records are treated as immutable once built.
type FailureReason struct {
	Origin          FailureOrigin  `json:"origin,omitempty"`
	Type            FailureType    `json:"failure_type,omitempty"`
	InternalMessage string         `json:"internal_message"`
	ExternalMessage string         `json:"external_message,omitempty"`
	Stacktrace      string         `json:"stacktrace,omitempty"`
	Timestamp       int64          `json:"timestamp"` // ms since epoch
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// FromTrace reports whether this reason was derived from a connector
// trace message rather than an error raised inside the runner.
func (f FailureReason) FromTrace() bool {
	if f.Metadata == nil {
		return false
	}
	_, ok := f.Metadata[MetadataFromTrace]
	return ok
}

type FailureOrigin string

const (
	FailureOriginSource        FailureOrigin = "source"
	FailureOriginDestination   FailureOrigin = "destination"
	FailureOriginReplication   FailureOrigin = "replication"
	FailureOriginPersistence   FailureOrigin = "persistence"
	FailureOriginNormalization FailureOrigin = "normalization"
	FailureOriginDbt           FailureOrigin = "dbt"
	FailureOriginUnknown       FailureOrigin = "unknown"
)

type FailureType string

const (
	FailureTypeManualCancellation FailureType = "manual_cancellation"
)

// AttemptFailureSummary is the ordered set of failure reasons for one
// attempt plus the partial-success flag. It is built once, after all
// failures for the attempt are known, and never modified afterwards.
type AttemptFailureSummary struct {
	Failures       []FailureReason `json:"failures"`
	PartialSuccess bool            `json:"partial_success"`
}
