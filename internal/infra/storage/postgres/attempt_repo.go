package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

// AttemptRepo implements storage.AttemptRepository using PostgreSQL.
type AttemptRepo struct {
	db *DB
}

// NewAttemptRepo creates a new PostgreSQL attempt repository.
func NewAttemptRepo(db *DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

type attemptRow struct {
	ID             string         `db:"id"`
	JobID          int64          `db:"job_id"`
	Number         int            `db:"attempt_number"`
	Status         string         `db:"status"`
	FailureSummary sql.NullString `db:"failure_summary"`
	StartedAt      int64          `db:"started_at"`
	EndedAt        int64          `db:"ended_at"`
}

func (row *attemptRow) toDomain() (*domain.Attempt, error) {
	a := &domain.Attempt{
		ID:        row.ID,
		JobID:     row.JobID,
		Number:    row.Number,
		Status:    domain.AttemptStatus(row.Status),
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
	}
	if row.FailureSummary.Valid {
		var summary domain.AttemptFailureSummary
		if err := json.Unmarshal([]byte(row.FailureSummary.String), &summary); err != nil {
			return nil, fmt.Errorf("failed to decode failure summary: %w", err)
		}
		a.FailureSummary = &summary
	}
	return a, nil
}

// Save saves an attempt, upserting on (job_id, attempt_number).
func (r *AttemptRepo) Save(ctx context.Context, attempt *domain.Attempt) error {
	var summary sql.NullString
	if attempt.FailureSummary != nil {
		data, err := json.Marshal(attempt.FailureSummary)
		if err != nil {
			return fmt.Errorf("failed to encode failure summary: %w", err)
		}
		summary = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO attempts (id, job_id, attempt_number, status, failure_summary, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (job_id, attempt_number)
		DO UPDATE SET status = EXCLUDED.status,
		              failure_summary = EXCLUDED.failure_summary,
		              ended_at = EXCLUDED.ended_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.JobID,
		attempt.Number,
		string(attempt.Status),
		summary,
		attempt.StartedAt,
		attempt.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

// Get retrieves an attempt by job id and attempt number.
func (r *AttemptRepo) Get(ctx context.Context, jobID int64, attemptNumber int) (*domain.Attempt, error) {
	query := `
		SELECT id, job_id, attempt_number, status, failure_summary, started_at, ended_at
		FROM attempts
		WHERE job_id = $1 AND attempt_number = $2
	`

	var row attemptRow
	err := r.db.GetContext(ctx, &row, query, jobID, attemptNumber)
	if err == sql.ErrNoRows {
		return nil, nil // No such attempt
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	return row.toDomain()
}

// ListFailed returns the most recent failed or cancelled attempts.
func (r *AttemptRepo) ListFailed(ctx context.Context, limit int) ([]*domain.Attempt, error) {
	query := `
		SELECT id, job_id, attempt_number, status, failure_summary, started_at, ended_at
		FROM attempts
		WHERE status IN ('failed', 'cancelled')
		ORDER BY ended_at DESC
		LIMIT $1
	`

	var rows []attemptRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list failed attempts: %w", err)
	}

	attempts := make([]*domain.Attempt, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

// DeleteOlderThan deletes attempts that ended before the threshold.
func (r *AttemptRepo) DeleteOlderThan(ctx context.Context, threshold int64) error {
	query := `DELETE FROM attempts WHERE ended_at > 0 AND ended_at < $1`
	if _, err := r.db.ExecContext(ctx, query, threshold); err != nil {
		return fmt.Errorf("failed to delete old attempts: %w", err)
	}
	return nil
}
