package config

import (
	"time"

	redisclient "github.com/vietddude/syncrunner/internal/infra/redis"
	"github.com/vietddude/syncrunner/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig       `yaml:"server"`
	Logging   LoggingConfig      `yaml:"logging"`
	Redis     redisclient.Config `yaml:"redis"`
	Database  postgres.Config    `yaml:"database"`
	Attempts  AttemptsConfig     `yaml:"attempts"`
	Workflows []WorkflowConfig   `yaml:"workflows"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// AttemptsConfig holds attempt bookkeeping settings.
type AttemptsConfig struct {
	// RetentionPeriod controls how long finished attempts are kept. 0 = infinite
	RetentionPeriod time.Duration `yaml:"retention_period"`
	// TracePollInterval controls how often connector trace queues are drained
	TracePollInterval time.Duration `yaml:"trace_poll_interval"`
}

// WorkflowConfig declares a workflow whose activity failures the runner
// classifies.
type WorkflowConfig struct {
	Type       string   `yaml:"type"       mapstructure:"type"` // e.g., "SyncWorkflow"
	Activities []string `yaml:"activities" mapstructure:"activities"`
}
