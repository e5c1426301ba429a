package config

// BusinessHoursConfig describes when agents are expected in the office
type BusinessHoursConfig struct {
	// IANA time zone name, e.g. "Europe/Madrid"
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`

	// Opening and closing time as HH:MM
	Open  string `mapstructure:"open" validate:"required,datetime=15:04"`
	Close string `mapstructure:"close" validate:"required,datetime=15:04"`

	// Agents are asleep from this time until WakeAt
	SleepAt string `mapstructure:"sleep_at" validate:"required,datetime=15:04"`
	WakeAt  string `mapstructure:"wake_at" validate:"required,datetime=15:04"`

	// Working days, lowercase English names
	Workdays []string `mapstructure:"workdays" validate:"min=1,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`

	// Run the office around the clock (demo mode)
	AlwaysOpen bool `mapstructure:"always_open"`
}
