package failure

import (
	"time"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

const (
	cancellationInternalMessage = "Setting attempt to FAILED because the job was cancelled"
	cancellationExternalMessage = "This attempt was cancelled"
)

// Summary orders the failures and wraps them with the partial-success
// flag into the attempt's failure summary.
func Summary(failures []domain.FailureReason, partialSuccess bool) domain.AttemptFailureSummary {
	return domain.AttemptFailureSummary{
		Failures:       OrderedFailures(failures),
		PartialSuccess: partialSuccess,
	}
}

// SummaryForCancellation builds the failure summary for a cancelled
// attempt, adding a synthetic manual-cancellation record alongside the
// collected failures. The caller's slice is not modified; the
// cancellation record exists only in the returned summary.
func SummaryForCancellation(
	jobID int64,
	attemptNumber int,
	failures []domain.FailureReason,
	partialSuccess bool,
) domain.AttemptFailureSummary {
	withCancellation := make([]domain.FailureReason, 0, len(failures)+1)
	withCancellation = append(withCancellation, failures...)
	withCancellation = append(withCancellation, domain.FailureReason{
		Type:            domain.FailureTypeManualCancellation,
		InternalMessage: cancellationInternalMessage,
		ExternalMessage: cancellationExternalMessage,
		Timestamp:       time.Now().UnixMilli(),
		Metadata:        jobAndAttemptMetadata(jobID, attemptNumber),
	})

	return Summary(withCancellation, partialSuccess)
}
