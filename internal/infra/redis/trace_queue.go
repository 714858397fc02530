package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

// TraceQueue carries structured trace messages from connector
// processes to the runner. Each attempt gets one list per connector
// side; connectors push, the runner pops.
type TraceQueue struct {
	rdb *redis.Client
}

// NewTraceQueue creates a Redis-backed trace message queue.
func NewTraceQueue(client *Client) *TraceQueue {
	return &TraceQueue{rdb: client.rdb}
}

// Key helpers
func traceKey(jobID int64, attemptNumber int, side domain.ConnectorSide) string {
	return fmt.Sprintf("trace_messages:%d:%d:%s", jobID, attemptNumber, side)
}

// Push appends a trace message to the attempt's queue for the message's
// connector side.
func (q *TraceQueue) Push(ctx context.Context, jobID int64, attemptNumber int, m *domain.TraceMessage) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal trace message: %w", err)
	}

	key := traceKey(jobID, attemptNumber, m.Connector)
	if err := q.rdb.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("rpush failed: %w", err)
	}

	// Attempt queues are short-lived; expire so abandoned attempts don't leak
	q.rdb.Expire(ctx, key, 24*time.Hour)
	return nil
}

// Pop removes and returns the oldest trace message for one side of an
// attempt. Returns nil when the queue is empty.
func (q *TraceQueue) Pop(
	ctx context.Context,
	jobID int64,
	attemptNumber int,
	side domain.ConnectorSide,
) (*domain.TraceMessage, error) {
	data, err := q.rdb.LPop(ctx, traceKey(jobID, attemptNumber, side)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Empty queue
	}
	if err != nil {
		return nil, fmt.Errorf("lpop failed: %w", err)
	}

	var m domain.TraceMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace message: %w", err)
	}
	return &m, nil
}

// PopFirst returns the earliest-emitted trace message for one side of
// an attempt, draining that side's queue. Returns nil when nothing was
// emitted.
func (q *TraceQueue) PopFirst(
	ctx context.Context,
	jobID int64,
	attemptNumber int,
	side domain.ConnectorSide,
) (*domain.TraceMessage, error) {
	var first *domain.TraceMessage
	for {
		m, err := q.Pop(ctx, jobID, attemptNumber, side)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return first, nil
		}
		if first == nil || m.EmittedAt < first.EmittedAt {
			first = m
		}
	}
}

// Clear drops both sides' queues for an attempt.
func (q *TraceQueue) Clear(ctx context.Context, jobID int64, attemptNumber int) error {
	keys := []string{
		traceKey(jobID, attemptNumber, domain.ConnectorSideSource),
		traceKey(jobID, attemptNumber, domain.ConnectorSideDestination),
	}
	if err := q.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}
