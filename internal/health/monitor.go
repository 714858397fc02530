package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/syncrunner/internal/infra/storage"
)

// InFlightCounter reports how many attempts are currently tracked.
type InFlightCounter interface {
	InFlight() int
}

// Monitor aggregates health status from the runner's components.
type Monitor struct {
	failureRepo storage.FailureRepository
	inFlight    InFlightCounter
	lastCheck   time.Time
	lastReport  *HealthReport
	mu          sync.Mutex
}

// NewMonitor creates a new health monitor.
func NewMonitor(failureRepo storage.FailureRepository, inFlight InFlightCounter) *Monitor {
	return &Monitor{
		failureRepo: failureRepo,
		inFlight:    inFlight,
	}
}

// CheckHealth builds the current health report.
func (m *Monitor) CheckHealth(ctx context.Context) *HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks to avoid hammering storage
	if time.Since(m.lastCheck) < 10*time.Second && m.lastReport != nil {
		return m.lastReport
	}

	report := &HealthReport{
		SystemStatus: StatusHealthy,
		Storage: StorageHealth{
			Status:           StatusHealthy,
			FailuresByOrigin: make(map[string]int),
		},
	}

	if m.inFlight != nil {
		report.AttemptsInFlight = m.inFlight.InFlight()
	}

	counts, err := m.failureRepo.CountByOrigin(ctx)
	if err != nil {
		report.Storage.Status = StatusCritical
		report.SystemStatus = StatusCritical
	} else {
		for origin, count := range counts {
			report.Storage.FailuresByOrigin[string(origin)] = count
		}
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
