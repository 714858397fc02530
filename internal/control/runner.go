// Package control wires the runner's components together and owns the
// attempt lifecycle exposed to the workflow engine.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/syncrunner/internal/attempt"
	"github.com/vietddude/syncrunner/internal/core/config"
	"github.com/vietddude/syncrunner/internal/core/domain"
	"github.com/vietddude/syncrunner/internal/core/worker"
	"github.com/vietddude/syncrunner/internal/health"
	redisclient "github.com/vietddude/syncrunner/internal/infra/redis"
	"github.com/vietddude/syncrunner/internal/infra/storage"
	"github.com/vietddude/syncrunner/internal/infra/storage/memory"
	"github.com/vietddude/syncrunner/internal/infra/storage/postgres"
)

// Config holds the application configuration.
type Config struct {
	Port      int
	Redis     redisclient.Config
	Database  postgres.Config
	Attempts  config.AttemptsConfig
	Workflows []config.WorkflowConfig
}

// Runner is the main application struct managing attempt tracking,
// trace intake, persistence and the ops HTTP surface.
type Runner struct {
	cfg          Config
	attemptRepo  storage.AttemptRepository
	failureRepo  storage.FailureRepository
	traceQueue   *redisclient.TraceQueue
	pruner       *worker.Pruner
	healthServer *health.Server
	db           *postgres.DB
	redisClient  *redisclient.Client
	cancel       context.CancelFunc

	mu       sync.Mutex
	trackers map[string]*attempt.Tracker
}

// NewRunner creates a new Runner instance with all dependencies initialized.
func NewRunner(cfg Config) (*Runner, error) {
	r := &Runner{
		cfg:      cfg,
		trackers: make(map[string]*attempt.Tracker),
	}

	// 1. Initialize Storage
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		r.db = db
		r.attemptRepo = postgres.NewAttemptRepo(db)
		r.failureRepo = postgres.NewFailureRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		r.attemptRepo = memory.NewAttemptRepo(store)
		r.failureRepo = memory.NewFailureRepo(store)
		slog.Info("Using Memory storage")
	}

	// 2. Initialize Trace Intake
	if cfg.Redis.URL != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		r.redisClient = redisClient
		r.traceQueue = redisclient.NewTraceQueue(redisClient)
		slog.Info("Trace message intake enabled")
	} else {
		slog.Info("Trace message intake disabled (no redis configured)")
	}

	// 3. Supporting workers
	r.pruner = worker.NewPruner(cfg.Attempts.RetentionPeriod, r.attemptRepo)

	monitor := health.NewMonitor(r.failureRepo, r)
	r.healthServer = health.NewServer(monitor, cfg.Port)

	for _, wf := range cfg.Workflows {
		slog.Info("Registered workflow", "type", wf.Type, "activities", wf.Activities)
	}

	return r, nil
}

// Start launches the background workers and the ops HTTP server.
func (r *Runner) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go r.pruner.Start(ctx)

	go func() {
		slog.Info("Health server listening", "port", r.cfg.Port)
		if err := r.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health server stopped", "error", err)
		}
	}()

	return nil
}

// Stop shuts down the runner and its connections.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	if err := r.healthServer.Stop(ctx); err != nil {
		slog.Warn("Failed to stop health server", "error", err)
	}
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			slog.Warn("Failed to close redis", "error", err)
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return fmt.Errorf("failed to close db: %w", err)
		}
	}
	return nil
}

// InFlight returns the number of attempts currently tracked.
func (r *Runner) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

func trackerKey(jobID int64, attemptNumber int) string {
	return fmt.Sprintf("%d:%d", jobID, attemptNumber)
}

// StartAttempt begins tracking a new attempt of a job. Called by the
// workflow engine when an attempt starts.
func (r *Runner) StartAttempt(ctx context.Context, jobID int64, attemptNumber int) (*attempt.Tracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := trackerKey(jobID, attemptNumber)
	if _, exists := r.trackers[key]; exists {
		return nil, fmt.Errorf("attempt %d of job %d is already tracked", attemptNumber, jobID)
	}

	t := attempt.NewTracker(jobID, attemptNumber)
	r.trackers[key] = t

	if err := r.attemptRepo.Save(ctx, t.Snapshot(domain.AttemptStatusRunning, nil)); err != nil {
		delete(r.trackers, key)
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	slog.Info("Attempt started", "job_id", jobID, "attempt", attemptNumber)
	return t, nil
}

// Tracker returns the tracker for an in-flight attempt, or nil.
func (r *Runner) Tracker(jobID int64, attemptNumber int) *attempt.Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trackers[trackerKey(jobID, attemptNumber)]
}

// FailAttempt finishes a failed attempt: drains the connector trace
// queues, resolves which side failed first, summarizes and persists.
func (r *Runner) FailAttempt(ctx context.Context, jobID int64, attemptNumber int, partialSuccess bool) (*domain.AttemptFailureSummary, error) {
	t, err := r.takeTracker(jobID, attemptNumber)
	if err != nil {
		return nil, err
	}

	if err := r.drainTraces(ctx, t); err != nil {
		slog.Warn("Failed to drain trace messages", "job_id", jobID, "attempt", attemptNumber, "error", err)
	}

	t.SetPartialSuccess(partialSuccess)
	summary := t.Summarize()
	if err := r.persist(ctx, t, domain.AttemptStatusFailed, &summary); err != nil {
		return nil, err
	}

	slog.Info("Attempt failed", "job_id", jobID, "attempt", attemptNumber,
		"failures", len(summary.Failures), "partial_success", summary.PartialSuccess)
	return &summary, nil
}

// CancelAttempt finishes a cancelled attempt, adding the synthetic
// cancellation record to its summary.
func (r *Runner) CancelAttempt(ctx context.Context, jobID int64, attemptNumber int, partialSuccess bool) (*domain.AttemptFailureSummary, error) {
	t, err := r.takeTracker(jobID, attemptNumber)
	if err != nil {
		return nil, err
	}

	if err := r.drainTraces(ctx, t); err != nil {
		slog.Warn("Failed to drain trace messages", "job_id", jobID, "attempt", attemptNumber, "error", err)
	}

	t.SetPartialSuccess(partialSuccess)
	summary := t.SummarizeCancelled()
	if err := r.persist(ctx, t, domain.AttemptStatusCancelled, &summary); err != nil {
		return nil, err
	}

	slog.Info("Attempt cancelled", "job_id", jobID, "attempt", attemptNumber,
		"failures", len(summary.Failures))
	return &summary, nil
}

// CompleteAttempt finishes a successful attempt. No summary is built.
func (r *Runner) CompleteAttempt(ctx context.Context, jobID int64, attemptNumber int) error {
	t, err := r.takeTracker(jobID, attemptNumber)
	if err != nil {
		return err
	}

	if r.traceQueue != nil {
		if err := r.traceQueue.Clear(ctx, jobID, attemptNumber); err != nil {
			slog.Warn("Failed to clear trace queues", "job_id", jobID, "attempt", attemptNumber, "error", err)
		}
	}

	if err := r.attemptRepo.Save(ctx, t.Snapshot(domain.AttemptStatusSucceeded, nil)); err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	slog.Info("Attempt succeeded", "job_id", jobID, "attempt", attemptNumber)
	return nil
}

func (r *Runner) takeTracker(jobID int64, attemptNumber int) (*attempt.Tracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := trackerKey(jobID, attemptNumber)
	t, ok := r.trackers[key]
	if !ok {
		return nil, fmt.Errorf("attempt %d of job %d is not tracked", attemptNumber, jobID)
	}
	delete(r.trackers, key)
	return t, nil
}

// drainTraces pulls the earliest trace message each connector emitted
// during the attempt and records the failure of whichever side broke
// first.
func (r *Runner) drainTraces(ctx context.Context, t *attempt.Tracker) error {
	if r.traceQueue == nil {
		return nil
	}

	sourceMsg, err := r.traceQueue.PopFirst(ctx, t.JobID(), t.Number(), domain.ConnectorSideSource)
	if err != nil {
		return err
	}
	destMsg, err := r.traceQueue.PopFirst(ctx, t.JobID(), t.Number(), domain.ConnectorSideDestination)
	if err != nil {
		return err
	}

	t.RecordConnectorTraces(sourceMsg, destMsg)
	return nil
}

func (r *Runner) persist(
	ctx context.Context,
	t *attempt.Tracker,
	status domain.AttemptStatus,
	summary *domain.AttemptFailureSummary,
) error {
	if err := r.attemptRepo.Save(ctx, t.Snapshot(status, summary)); err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	if err := r.failureRepo.SaveSummary(ctx, t.ID(), summary); err != nil {
		return fmt.Errorf("failed to save failure reasons: %w", err)
	}
	return nil
}
