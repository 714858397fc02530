package failure

import (
	"github.com/vietddude/syncrunner/internal/core/domain"
)

// Workflow and activity identifiers reported by the workflow engine.
const (
	WorkflowTypeSync      = "SyncWorkflow"
	ActivityTypeReplicate = "Replicate"
	ActivityTypePersist   = "Persist"
	ActivityTypeNormalize = "Normalize"
	ActivityTypeDbtRun    = "Run"
)

type workflowActivity struct {
	workflow string
	activity string
}

// originConstructors maps a workflow/activity pair to the matching
// origin-specific constructor. Matching is exact and case-sensitive.
var originConstructors = map[workflowActivity]func(error, int64, int) domain.FailureReason{
	{WorkflowTypeSync, ActivityTypeReplicate}: ReplicationFailure,
	{WorkflowTypeSync, ActivityTypePersist}:   PersistenceFailure,
	{WorkflowTypeSync, ActivityTypeNormalize}: NormalizationFailure,
	{WorkflowTypeSync, ActivityTypeDbtRun}:    DbtFailure,
}

// FromWorkflowAndActivity classifies an error raised while running an
// activity, based on which workflow and activity it came from. Used
// when no connector trace message is available. Unmatched pairs fall
// through to an unknown-origin failure; that is a valid terminal
// classification, not an error.
func FromWorkflowAndActivity(
	workflowType, activityType string,
	err error,
	jobID int64,
	attemptNumber int,
) domain.FailureReason {
	if build, ok := originConstructors[workflowActivity{workflowType, activityType}]; ok {
		return build(err, jobID, attemptNumber)
	}
	return UnknownOriginFailure(err, jobID, attemptNumber)
}
