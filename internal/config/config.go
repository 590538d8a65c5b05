package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Updater UpdaterConfig `mapstructure:"updater" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// UpdaterConfig controls the worker pool and the simulated completion calls
// used by bulk status updates.
type UpdaterConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"gt=0"`

	// MinDelay and MaxDelay bound the simulated latency of each completion.
	MinDelay time.Duration `mapstructure:"min_delay" validate:"min=0"`
	MaxDelay time.Duration `mapstructure:"max_delay" validate:"gtefield=MinDelay"`

	// Deadline releases an update that has not finished in time. Zero waits forever.
	Deadline time.Duration `mapstructure:"deadline" validate:"min=0"`

	// RateLimit caps completions per second across all updates. Zero disables it.
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"min=0"`
}
