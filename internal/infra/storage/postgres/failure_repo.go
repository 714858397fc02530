package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

// FailureRepo implements storage.FailureRepository using PostgreSQL.
type FailureRepo struct {
	db *DB
}

// NewFailureRepo creates a new PostgreSQL failure repository.
func NewFailureRepo(db *DB) *FailureRepo {
	return &FailureRepo{db: db}
}

// SaveSummary stores each reason of the summary as its own row,
// preserving the summary's ordering via the position column.
func (r *FailureRepo) SaveSummary(
	ctx context.Context,
	attemptID string,
	summary *domain.AttemptFailureSummary,
) error {
	query := `
		INSERT INTO failure_reasons
			(attempt_id, position, origin, failure_type, internal_message, external_message, stacktrace, ts, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for i, f := range summary.Failures {
		metadata, err := json.Marshal(f.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode failure metadata: %w", err)
		}

		_, err = r.db.ExecContext(
			ctx,
			query,
			attemptID,
			i,
			string(f.Origin),
			string(f.Type),
			f.InternalMessage,
			f.ExternalMessage,
			f.Stacktrace,
			f.Timestamp,
			metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to save failure reason: %w", err)
		}
	}
	return nil
}

// ListByOrigin returns recent failure reasons blamed on an origin.
func (r *FailureRepo) ListByOrigin(
	ctx context.Context,
	origin domain.FailureOrigin,
	limit int,
) ([]domain.FailureReason, error) {
	query := `
		SELECT origin, failure_type, internal_message, external_message, stacktrace, ts, metadata
		FROM failure_reasons
		WHERE origin = $1
		ORDER BY ts DESC
		LIMIT $2
	`

	var rows []struct {
		Origin          string `db:"origin"`
		FailureType     string `db:"failure_type"`
		InternalMessage string `db:"internal_message"`
		ExternalMessage string `db:"external_message"`
		Stacktrace      string `db:"stacktrace"`
		Timestamp       int64  `db:"ts"`
		Metadata        []byte `db:"metadata"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, string(origin), limit); err != nil {
		return nil, fmt.Errorf("failed to list failure reasons: %w", err)
	}

	failures := make([]domain.FailureReason, 0, len(rows))
	for _, row := range rows {
		f := domain.FailureReason{
			Origin:          domain.FailureOrigin(row.Origin),
			Type:            domain.FailureType(row.FailureType),
			InternalMessage: row.InternalMessage,
			ExternalMessage: row.ExternalMessage,
			Stacktrace:      row.Stacktrace,
			Timestamp:       row.Timestamp,
		}
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &f.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode failure metadata: %w", err)
			}
		}
		failures = append(failures, f)
	}
	return failures, nil
}

// CountByOrigin counts stored failure reasons per origin.
func (r *FailureRepo) CountByOrigin(ctx context.Context) (map[domain.FailureOrigin]int, error) {
	query := `SELECT origin, COUNT(*) AS count FROM failure_reasons GROUP BY origin`

	var rows []struct {
		Origin string `db:"origin"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count failure reasons: %w", err)
	}

	counts := make(map[domain.FailureOrigin]int, len(rows))
	for _, row := range rows {
		counts[domain.FailureOrigin(row.Origin)] = row.Count
	}
	return counts, nil
}
