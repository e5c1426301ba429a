package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/officesim-go/internal/infrastructure/config"
)

var configFile string

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage OfficeSim configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (OFFICESIM_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default socket, output format) are stored in
~/.officesim/config.json

Examples:
  officesim config show
  officesim config set-socket /var/run/officesim.sock
  officesim config set-output json`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config.yaml")

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetSocketCommand())
	cmd.AddCommand(newConfigSetOutputCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Println("OfficeSim Configuration")
			fmt.Println("=======================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Printf("  Default Socket:   %s\n", orNotSet(userCfg.DefaultSocket))
			fmt.Printf("  Output Format:    %s\n", orNotSet(userCfg.OutputFormat))

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
				fmt.Printf("  Busy Timeout:     %s\n", cfg.Database.BusyTimeout)
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
				fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Println("\nDaemon:")
			fmt.Printf("  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Printf("  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Println("\nSimulation:")
			fmt.Printf("  Tick Interval:    %s\n", cfg.Simulation.TickInterval)
			fmt.Printf("  Batch Size:       %d\n", cfg.Simulation.BatchSize)
			fmt.Printf("  Decision Rate:    %.1f/s (burst: %d)\n", cfg.Simulation.DecisionRate, cfg.Simulation.DecisionBurst)
			fmt.Printf("  Walk Duration:    %s\n", cfg.Simulation.WalkDuration)
			fmt.Printf("  Break / Meeting:  %s / %s\n", cfg.Simulation.BreakDuration, cfg.Simulation.MeetingDuration)
			fmt.Printf("  Log Retention:    %s\n", cfg.Simulation.ActivityLogRetention)

			fmt.Println("\nBusiness Hours:")
			if cfg.BusinessHours.AlwaysOpen {
				fmt.Printf("  Schedule:         always open\n")
			} else {
				fmt.Printf("  Timezone:         %s\n", cfg.BusinessHours.Timezone)
				fmt.Printf("  Open:             %s-%s\n", cfg.BusinessHours.Open, cfg.BusinessHours.Close)
				fmt.Printf("  Asleep:           %s-%s\n", cfg.BusinessHours.SleepAt, cfg.BusinessHours.WakeAt)
				fmt.Printf("  Workdays:         %s\n", strings.Join(cfg.BusinessHours.Workdays, ", "))
			}

			fmt.Println("\nCatalog:")
			fmt.Printf("  Layout:           %s\n", orValue(cfg.Catalog.Path, "(built-in)"))

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			fmt.Println("\nMetrics:")
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:         http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			} else {
				fmt.Printf("  Endpoint:         (disabled)\n")
			}

			return nil
		},
	}

	return cmd
}

// newConfigSetSocketCommand creates the config set-socket subcommand
func newConfigSetSocketCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-socket <path>",
		Short: "Set the default daemon socket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultSocket(args[0]); err != nil {
				return fmt.Errorf("failed to set default socket: %w", err)
			}

			fmt.Println("✓ Default socket set")
			fmt.Printf("  Socket: %s\n", args[0])
			fmt.Println("\nOverride with --socket or OFFICESIM_SOCKET.")
			return nil
		},
	}
}

// newConfigSetOutputCommand creates the config set-output subcommand
func newConfigSetOutputCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-output <table|json>",
		Short: "Set the default output format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetOutputFormat(args[0]); err != nil {
				return err
			}

			fmt.Printf("✓ Default output format set to %s\n", args[0])
			return nil
		},
	}
}

// maskPassword hides the password in a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}

func orNotSet(s string) string {
	return orValue(s, "(not set)")
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
