package memory

import (
	"context"
	"testing"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

func TestAttemptRepo_SaveAndGet(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewAttemptRepo(store)
	ctx := context.Background()

	a := &domain.Attempt{
		ID:     "attempt-1",
		JobID:  42,
		Number: 1,
		Status: domain.AttemptStatusRunning,
	}
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, 42, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.ID != "attempt-1" {
		t.Fatalf("expected attempt-1, got %+v", got)
	}

	// Upsert on same job/attempt
	a.Status = domain.AttemptStatusFailed
	a.EndedAt = 100
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, _ = repo.Get(ctx, 42, 1)
	if got.Status != domain.AttemptStatusFailed {
		t.Errorf("expected failed status after upsert, got %q", got.Status)
	}

	missing, err := repo.Get(ctx, 99, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown attempt, got %+v", missing)
	}
}

func TestAttemptRepo_ListFailed(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewAttemptRepo(store)
	ctx := context.Background()

	attempts := []*domain.Attempt{
		{ID: "a", JobID: 1, Number: 1, Status: domain.AttemptStatusFailed, EndedAt: 10},
		{ID: "b", JobID: 1, Number: 2, Status: domain.AttemptStatusCancelled, EndedAt: 30},
		{ID: "c", JobID: 2, Number: 1, Status: domain.AttemptStatusSucceeded, EndedAt: 20},
	}
	for _, a := range attempts {
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	failed, err := repo.ListFailed(ctx, 10)
	if err != nil {
		t.Fatalf("ListFailed failed: %v", err)
	}
	if len(failed) != 2 {
		t.Fatalf("expected 2 failed attempts, got %d", len(failed))
	}
	// Newest first
	if failed[0].ID != "b" || failed[1].ID != "a" {
		t.Errorf("expected [b a], got [%s %s]", failed[0].ID, failed[1].ID)
	}

	limited, _ := repo.ListFailed(ctx, 1)
	if len(limited) != 1 {
		t.Errorf("expected limit respected, got %d", len(limited))
	}
}

func TestAttemptRepo_DeleteOlderThan(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewAttemptRepo(store)
	ctx := context.Background()

	old := &domain.Attempt{ID: "old", JobID: 1, Number: 1, Status: domain.AttemptStatusFailed, EndedAt: 10}
	fresh := &domain.Attempt{ID: "fresh", JobID: 1, Number: 2, Status: domain.AttemptStatusFailed, EndedAt: 100}
	running := &domain.Attempt{ID: "running", JobID: 1, Number: 3, Status: domain.AttemptStatusRunning, EndedAt: 0}
	for _, a := range []*domain.Attempt{old, fresh, running} {
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := repo.DeleteOlderThan(ctx, 50); err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}

	if got, _ := repo.Get(ctx, 1, 1); got != nil {
		t.Error("expected old attempt pruned")
	}
	if got, _ := repo.Get(ctx, 1, 2); got == nil {
		t.Error("expected fresh attempt kept")
	}
	if got, _ := repo.Get(ctx, 1, 3); got == nil {
		t.Error("expected running attempt kept")
	}
}

func TestFailureRepo_SummaryQueries(t *testing.T) {
	store := NewMemoryStorage()
	repo := NewFailureRepo(store)
	ctx := context.Background()

	summary := &domain.AttemptFailureSummary{
		Failures: []domain.FailureReason{
			{Origin: domain.FailureOriginSource, InternalMessage: "s1", Timestamp: 10},
			{Origin: domain.FailureOriginSource, InternalMessage: "s2", Timestamp: 30},
			{Origin: domain.FailureOriginDestination, InternalMessage: "d1", Timestamp: 20},
		},
	}
	if err := repo.SaveSummary(ctx, "attempt-1", summary); err != nil {
		t.Fatalf("SaveSummary failed: %v", err)
	}

	sourceFailures, err := repo.ListByOrigin(ctx, domain.FailureOriginSource, 10)
	if err != nil {
		t.Fatalf("ListByOrigin failed: %v", err)
	}
	if len(sourceFailures) != 2 {
		t.Fatalf("expected 2 source failures, got %d", len(sourceFailures))
	}
	// Newest first
	if sourceFailures[0].InternalMessage != "s2" {
		t.Errorf("expected s2 first, got %q", sourceFailures[0].InternalMessage)
	}

	counts, err := repo.CountByOrigin(ctx)
	if err != nil {
		t.Fatalf("CountByOrigin failed: %v", err)
	}
	if counts[domain.FailureOriginSource] != 2 || counts[domain.FailureOriginDestination] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
