package storage

import (
	"context"
	"errors"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

var (
	// ErrAttemptNotFound is returned when an attempt doesn't exist
	ErrAttemptNotFound = errors.New("attempt not found")
)

// AttemptRepository handles attempt storage operations
type AttemptRepository interface {
	// Save saves an attempt, including its failure summary if present
	Save(ctx context.Context, attempt *domain.Attempt) error

	// Get retrieves an attempt by job id and attempt number
	Get(ctx context.Context, jobID int64, attemptNumber int) (*domain.Attempt, error)

	// ListFailed returns the most recent failed or cancelled attempts, newest first
	ListFailed(ctx context.Context, limit int) ([]*domain.Attempt, error)

	// DeleteOlderThan deletes attempts that ended before the given ms timestamp
	DeleteOlderThan(ctx context.Context, threshold int64) error
}

// FailureRepository stores individual failure reasons, one row per
// reason, for querying across attempts
type FailureRepository interface {
	// SaveSummary saves all reasons of an attempt's summary
	SaveSummary(ctx context.Context, attemptID string, summary *domain.AttemptFailureSummary) error

	// ListByOrigin returns recent failure reasons blamed on an origin
	ListByOrigin(ctx context.Context, origin domain.FailureOrigin, limit int) ([]domain.FailureReason, error)

	// CountByOrigin counts stored failure reasons per origin
	CountByOrigin(ctx context.Context) (map[domain.FailureOrigin]int, error)
}
