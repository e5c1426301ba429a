package config

import "time"

// RetryConfig bounds retries of contended store writes
type RetryConfig struct {
	// Maximum attempts including the first one
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=1,max=20"`

	// Delay before the first retry
	InitialDelay time.Duration `mapstructure:"initial_delay" validate:"required"`

	// Upper bound for a single backoff delay
	MaxDelay time.Duration `mapstructure:"max_delay" validate:"required,gtefield=InitialDelay"`

	// Multiplier applied after each failed attempt
	BackoffFactor float64 `mapstructure:"backoff_factor" validate:"min=1"`
}
