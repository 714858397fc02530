package control

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	// No database or redis configured: memory storage, no trace intake
	r, err := NewRunner(Config{Port: 0})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return r
}

func TestRunner_FailAttempt(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	tr, err := r.StartAttempt(ctx, 42, 1)
	if err != nil {
		t.Fatalf("StartAttempt failed: %v", err)
	}
	if r.InFlight() != 1 {
		t.Errorf("expected 1 in-flight attempt, got %d", r.InFlight())
	}

	tr.RecordActivityError("SyncWorkflow", "Replicate", errors.New("stream broke"))

	summary, err := r.FailAttempt(ctx, 42, 1, true)
	if err != nil {
		t.Fatalf("FailAttempt failed: %v", err)
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(summary.Failures))
	}
	if !summary.PartialSuccess {
		t.Error("expected partial success flag set")
	}
	if r.InFlight() != 0 {
		t.Errorf("expected no in-flight attempts, got %d", r.InFlight())
	}

	saved, err := r.attemptRepo.Get(ctx, 42, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if saved == nil || saved.Status != domain.AttemptStatusFailed {
		t.Fatalf("expected persisted failed attempt, got %+v", saved)
	}
	if saved.FailureSummary == nil || len(saved.FailureSummary.Failures) != 1 {
		t.Errorf("expected persisted summary with 1 failure, got %+v", saved.FailureSummary)
	}
}

func TestRunner_CancelAttempt(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.StartAttempt(ctx, 7, 2); err != nil {
		t.Fatalf("StartAttempt failed: %v", err)
	}

	summary, err := r.CancelAttempt(ctx, 7, 2, false)
	if err != nil {
		t.Fatalf("CancelAttempt failed: %v", err)
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("expected only the cancellation record, got %d failures", len(summary.Failures))
	}
	if summary.Failures[0].Type != domain.FailureTypeManualCancellation {
		t.Errorf("expected cancellation record, got %+v", summary.Failures[0])
	}

	saved, _ := r.attemptRepo.Get(ctx, 7, 2)
	if saved == nil || saved.Status != domain.AttemptStatusCancelled {
		t.Fatalf("expected persisted cancelled attempt, got %+v", saved)
	}
}

func TestRunner_CompleteAttempt(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.StartAttempt(ctx, 1, 1); err != nil {
		t.Fatalf("StartAttempt failed: %v", err)
	}
	if err := r.CompleteAttempt(ctx, 1, 1); err != nil {
		t.Fatalf("CompleteAttempt failed: %v", err)
	}

	saved, _ := r.attemptRepo.Get(ctx, 1, 1)
	if saved == nil || saved.Status != domain.AttemptStatusSucceeded {
		t.Fatalf("expected persisted succeeded attempt, got %+v", saved)
	}
	if saved.FailureSummary != nil {
		t.Error("successful attempt must not carry a failure summary")
	}
}

func TestRunner_DuplicateAndUnknownAttempts(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.StartAttempt(ctx, 1, 1); err != nil {
		t.Fatalf("StartAttempt failed: %v", err)
	}
	if _, err := r.StartAttempt(ctx, 1, 1); err == nil {
		t.Error("expected error starting an already-tracked attempt")
	}

	if _, err := r.FailAttempt(ctx, 99, 1, false); err == nil {
		t.Error("expected error failing an untracked attempt")
	}
}
