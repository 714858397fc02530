package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

// MemoryStorage backs the repositories when no database is configured.
type MemoryStorage struct {
	attempts map[string]*domain.Attempt
	failures map[string][]domain.FailureReason // keyed by attempt id
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		attempts: make(map[string]*domain.Attempt),
		failures: make(map[string][]domain.FailureReason),
	}
}

func attemptKey(jobID int64, attemptNumber int) string {
	return fmt.Sprintf("%d:%d", jobID, attemptNumber)
}

// -----------------------------------------------------------------------------
// Attempt Repository
// -----------------------------------------------------------------------------

type AttemptRepo struct {
	store *MemoryStorage
}

func NewAttemptRepo(store *MemoryStorage) *AttemptRepo {
	return &AttemptRepo{store: store}
}

func (r *AttemptRepo) Save(ctx context.Context, attempt *domain.Attempt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copy := *attempt
	r.store.attempts[attemptKey(attempt.JobID, attempt.Number)] = &copy
	return nil
}

func (r *AttemptRepo) Get(ctx context.Context, jobID int64, attemptNumber int) (*domain.Attempt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if a, ok := r.store.attempts[attemptKey(jobID, attemptNumber)]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, nil
}

func (r *AttemptRepo) ListFailed(ctx context.Context, limit int) ([]*domain.Attempt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var failed []*domain.Attempt
	for _, a := range r.store.attempts {
		if a.Status == domain.AttemptStatusFailed || a.Status == domain.AttemptStatusCancelled {
			copy := *a
			failed = append(failed, &copy)
		}
	}

	sort.Slice(failed, func(i, j int) bool {
		return failed[i].EndedAt > failed[j].EndedAt
	})

	if limit > 0 && len(failed) > limit {
		failed = failed[:limit]
	}
	return failed, nil
}

func (r *AttemptRepo) DeleteOlderThan(ctx context.Context, threshold int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, a := range r.store.attempts {
		if a.EndedAt > 0 && a.EndedAt < threshold {
			delete(r.store.failures, a.ID)
			delete(r.store.attempts, key)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Failure Repository
// -----------------------------------------------------------------------------

type FailureRepo struct {
	store *MemoryStorage
}

func NewFailureRepo(store *MemoryStorage) *FailureRepo {
	return &FailureRepo{store: store}
}

func (r *FailureRepo) SaveSummary(
	ctx context.Context,
	attemptID string,
	summary *domain.AttemptFailureSummary,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	failures := make([]domain.FailureReason, len(summary.Failures))
	copy(failures, summary.Failures)
	r.store.failures[attemptID] = failures
	return nil
}

func (r *FailureRepo) ListByOrigin(
	ctx context.Context,
	origin domain.FailureOrigin,
	limit int,
) ([]domain.FailureReason, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []domain.FailureReason
	for _, failures := range r.store.failures {
		for _, f := range failures {
			if f.Origin == origin {
				matched = append(matched, f)
			}
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp > matched[j].Timestamp
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *FailureRepo) CountByOrigin(ctx context.Context) (map[domain.FailureOrigin]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[domain.FailureOrigin]int)
	for _, failures := range r.store.failures {
		for _, f := range failures {
			counts[f.Origin]++
		}
	}
	return counts, nil
}
