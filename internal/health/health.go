// Package health provides system health monitoring and status reporting.
package health

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// StorageHealth contains health metrics for the attempt store.
type StorageHealth struct {
	Status           SystemStatus   `json:"status"`
	FailuresByOrigin map[string]int `json:"failures_by_origin"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	SystemStatus     SystemStatus  `json:"system_status"`
	AttemptsInFlight int           `json:"attempts_in_flight"`
	Storage          StorageHealth `json:"storage"`
}
