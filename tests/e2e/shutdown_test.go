package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/syncrunner/internal/control"
)

func TestGracefulShutdown(t *testing.T) {
	// Memory storage, no redis: enough to start every component
	cfg := control.Config{
		Port: 18092,
	}

	runner, err := control.NewRunner(cfg)
	if err != nil {
		t.Fatalf("Failed to create runner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := runner.Start(ctx); err != nil {
		t.Fatalf("Failed to start runner: %v", err)
	}

	// Let it run for a bit
	time.Sleep(500 * time.Millisecond)

	// Trigger shutdown
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := runner.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
