// Package failure builds normalized failure reasons for sync job
// attempts and aggregates them into per-attempt summaries.
//
// Failures come from two places: errors raised inside the runner while
// driving an attempt, and structured trace messages emitted by the
// source/destination connectors. Both are normalized into
// domain.FailureReason records tagged with an origin, a user-facing
// message and job/attempt metadata.
package failure

import (
	"time"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

// External messages shown to users, fixed per origin.
const (
	externalMessageSource        = "Something went wrong within the source connector"
	externalMessageDestination   = "Something went wrong within the destination connector"
	externalMessageReplication   = "Something went wrong during replication"
	externalMessagePersistence   = "Something went wrong during state persistence"
	externalMessageNormalization = "Something went wrong during normalization"
	externalMessageDbt           = "Something went wrong during dbt"
	externalMessageUnknown       = "An unknown failure occurred"
)

// GenericFailure builds a failure reason from an error raised inside
// the runner. Origin and external message are left for the caller to
// set via the origin-specific constructors.
func GenericFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	return domain.FailureReason{
		InternalMessage: err.Error(),
		Stacktrace:      Stacktrace(err),
		Timestamp:       time.Now().UnixMilli(),
		Metadata:        jobAndAttemptMetadata(jobID, attemptNumber),
	}
}

// TraceFailure builds a failure reason from a connector trace message.
// The timestamp is the message's emission time, not the current time,
// and the metadata carries the from_trace_message marker.
func TraceFailure(m domain.TraceMessage, jobID int64, attemptNumber int) domain.FailureReason {
	return domain.FailureReason{
		InternalMessage: m.Error.InternalMessage,
		Stacktrace:      m.Error.StackTrace,
		Timestamp:       m.EmittedAt,
		Metadata:        traceMessageMetadata(jobID, attemptNumber),
	}
}

// SourceFailure builds a failure reason blaming the source connector
// for an error raised inside the runner.
func SourceFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	f := GenericFailure(err, jobID, attemptNumber)
	f.Origin = domain.FailureOriginSource
	f.ExternalMessage = externalMessageSource
	return f
}

// SourceTraceFailure builds a failure reason from a trace message
// emitted by the source connector.
func SourceTraceFailure(m domain.TraceMessage, jobID int64, attemptNumber int) domain.FailureReason {
	f := TraceFailure(m, jobID, attemptNumber)
	f.Origin = domain.FailureOriginSource
	f.ExternalMessage = m.Error.Message
	return f
}

// DestinationFailure builds a failure reason blaming the destination
// connector for an error raised inside the runner.
func DestinationFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	f := GenericFailure(err, jobID, attemptNumber)
	f.Origin = domain.FailureOriginDestination
	f.ExternalMessage = externalMessageDestination
	return f
}

// DestinationTraceFailure builds a failure reason from a trace message
// emitted by the destination connector.
func DestinationTraceFailure(m domain.TraceMessage, jobID int64, attemptNumber int) domain.FailureReason {
	f := TraceFailure(m, jobID, attemptNumber)
	f.Origin = domain.FailureOriginDestination
	f.ExternalMessage = m.Error.Message
	return f
}

// ReplicationFailure builds a failure reason for an error during
// replication.
func ReplicationFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	f := GenericFailure(err, jobID, attemptNumber)
	f.Origin = domain.FailureOriginReplication
	f.ExternalMessage = externalMessageReplication
	return f
}

// PersistenceFailure builds a failure reason for an error during state
// persistence.
func PersistenceFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	f := GenericFailure(err, jobID, attemptNumber)
	f.Origin = domain.FailureOriginPersistence
	f.ExternalMessage = externalMessagePersistence
	return f
}

// NormalizationFailure builds a failure reason for an error during
// normalization.
func NormalizationFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	f := GenericFailure(err, jobID, attemptNumber)
	f.Origin = domain.FailureOriginNormalization
	f.ExternalMessage = externalMessageNormalization
	return f
}

// DbtFailure builds a failure reason for an error during a dbt run.
func DbtFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	f := GenericFailure(err, jobID, attemptNumber)
	f.Origin = domain.FailureOriginDbt
	f.ExternalMessage = externalMessageDbt
	return f
}

// UnknownOriginFailure builds a failure reason for an error that could
// not be attributed to any subsystem.
func UnknownOriginFailure(err error, jobID int64, attemptNumber int) domain.FailureReason {
	f := GenericFailure(err, jobID, attemptNumber)
	f.Origin = domain.FailureOriginUnknown
	f.ExternalMessage = externalMessageUnknown
	return f
}

// ConnectorTraceFailure resolves which connector failed first when an
// attempt has trace messages from the source, the destination, or both.
// Returns nil when neither side reported anything. When both sides
// reported, the strictly earlier source message wins; on a timestamp
// tie the destination is blamed.
func ConnectorTraceFailure(
	sourceMsg, destMsg *domain.TraceMessage,
	jobID int64,
	attemptNumber int,
) *domain.FailureReason {
	if sourceMsg == nil && destMsg == nil {
		return nil
	}

	if destMsg == nil {
		f := SourceTraceFailure(*sourceMsg, jobID, attemptNumber)
		return &f
	}

	if sourceMsg == nil {
		f := DestinationTraceFailure(*destMsg, jobID, attemptNumber)
		return &f
	}

	if sourceMsg.EmittedAt < destMsg.EmittedAt {
		f := SourceTraceFailure(*sourceMsg, jobID, attemptNumber)
		return &f
	}
	f := DestinationTraceFailure(*destMsg, jobID, attemptNumber)
	return &f
}

func jobAndAttemptMetadata(jobID int64, attemptNumber int) map[string]any {
	return map[string]any{
		domain.MetadataJobID:         jobID,
		domain.MetadataAttemptNumber: attemptNumber,
	}
}

func traceMessageMetadata(jobID int64, attemptNumber int) map[string]any {
	return map[string]any{
		domain.MetadataJobID:         jobID,
		domain.MetadataAttemptNumber: attemptNumber,
		domain.MetadataFromTrace:     true,
	}
}
