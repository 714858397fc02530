package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/syncrunner/internal/infra/storage"
)

// Pruner deletes finished attempts based on retention policy.
type Pruner struct {
	retention   time.Duration
	attemptRepo storage.AttemptRepository
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, attemptRepo storage.AttemptRepository) *Pruner {
	return &Pruner{
		retention:   retention,
		attemptRepo: attemptRepo,
	}
}

// Start runs the pruner loop.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// Calculate check interval (e.g., 10% of retention period, but max 1 hour)
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	threshold := time.Now().Add(-p.retention).UnixMilli()

	if err := p.attemptRepo.DeleteOlderThan(ctx, threshold); err != nil {
		slog.Error("[Pruner] failed to prune attempts", "error", err)
	}
}
