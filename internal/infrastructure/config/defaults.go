package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "officesim.db"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 250 * time.Millisecond
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "officesim"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "officesim"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/officesim-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/officesim-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Daemon.RequestTimeout == 0 {
		cfg.Daemon.RequestTimeout = 10 * time.Second
	}

	// Simulation defaults
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = 5 * time.Second
	}
	if cfg.Simulation.BatchSize == 0 {
		cfg.Simulation.BatchSize = 10
	}
	if cfg.Simulation.DecisionRate == 0 {
		cfg.Simulation.DecisionRate = 20
	}
	if cfg.Simulation.DecisionBurst == 0 {
		cfg.Simulation.DecisionBurst = cfg.Simulation.BatchSize
	}
	if cfg.Simulation.BreakDuration == 0 {
		cfg.Simulation.BreakDuration = 15 * time.Minute
	}
	if cfg.Simulation.MeetingDuration == 0 {
		cfg.Simulation.MeetingDuration = 30 * time.Minute
	}
	if cfg.Simulation.TrainingEligibility == 0 {
		cfg.Simulation.TrainingEligibility = 90 * 24 * time.Hour
	}
	if cfg.Simulation.MeetingCallerInterval == 0 {
		cfg.Simulation.MeetingCallerInterval = 2 * time.Minute
	}
	if cfg.Simulation.OccupancyReporterInterval == 0 {
		cfg.Simulation.OccupancyReporterInterval = 15 * time.Second
	}
	if cfg.Simulation.LogPruneInterval == 0 {
		cfg.Simulation.LogPruneInterval = time.Hour
	}
	if cfg.Simulation.ActivityLogRetention == 0 {
		cfg.Simulation.ActivityLogRetention = 7 * 24 * time.Hour
	}

	// Retry defaults
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 5
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = 50 * time.Millisecond
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = 2 * time.Second
	}
	if cfg.Retry.BackoffFactor == 0 {
		cfg.Retry.BackoffFactor = 2.0
	}

	// Business hours defaults
	if cfg.BusinessHours.Timezone == "" {
		cfg.BusinessHours.Timezone = "UTC"
	}
	if cfg.BusinessHours.Open == "" {
		cfg.BusinessHours.Open = "09:00"
	}
	if cfg.BusinessHours.Close == "" {
		cfg.BusinessHours.Close = "17:00"
	}
	if cfg.BusinessHours.SleepAt == "" {
		cfg.BusinessHours.SleepAt = "23:00"
	}
	if cfg.BusinessHours.WakeAt == "" {
		cfg.BusinessHours.WakeAt = "07:00"
	}
	if len(cfg.BusinessHours.Workdays) == 0 {
		cfg.BusinessHours.Workdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
