package config

import "time"

// SimulationConfig drives the tick orchestrator and its side jobs
type SimulationConfig struct {
	// Interval of the main placement tick
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Agents evaluated for a new activity per tick
	BatchSize int `mapstructure:"batch_size" validate:"min=1"`

	// Activity decisions per second across ticks (token bucket)
	DecisionRate float64 `mapstructure:"decision_rate" validate:"gt=0"`

	// Burst for the decision token bucket
	DecisionBurst int `mapstructure:"decision_burst" validate:"min=1"`

	// Time an agent spends walking before arrival commits (0 = next tick)
	WalkDuration time.Duration `mapstructure:"walk_duration" validate:"min=0"`

	// How long breaks and meetings last before the agent goes back to work
	BreakDuration   time.Duration `mapstructure:"break_duration" validate:"required"`
	MeetingDuration time.Duration `mapstructure:"meeting_duration" validate:"required"`

	// Agents hired within this window are eligible for training intents
	TrainingEligibility time.Duration `mapstructure:"training_eligibility"`

	// Side job intervals
	MeetingCallerInterval     time.Duration `mapstructure:"meeting_caller_interval" validate:"required"`
	OccupancyReporterInterval time.Duration `mapstructure:"occupancy_reporter_interval" validate:"required"`
	LogPruneInterval          time.Duration `mapstructure:"log_prune_interval" validate:"required"`

	// Activity log entries older than this are pruned
	ActivityLogRetention time.Duration `mapstructure:"activity_log_retention" validate:"required"`

	// Random seed; 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`
}
