package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath     string
	outputFormat   string
	requestTimeout time.Duration
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "officesim",
		Short: "OfficeSim CLI - Interact with the office simulation daemon",
		Long: `OfficeSim CLI moves agents, inspects rooms and reads the activity log
of a running officesim daemon. The CLI talks to the daemon over a Unix socket.

Examples:
  officesim agent show 12
  officesim agent move 12 --to small_meeting_room_2_floor3
  officesim agent activity 12 --type break
  officesim room list --floor 2
  officesim room occupancy open_office_floor1
  officesim log --agent 12 --limit 20
  officesim seed --agents 40`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", getDefaultOutputFormat(),
		"Output format: table or json")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 10*time.Second,
		"Per-request timeout")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewAgentCommand())
	rootCmd.AddCommand(NewRoomCommand())
	rootCmd.AddCommand(NewLogCommand())
	rootCmd.AddCommand(NewSeedCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
// Priority: OFFICESIM_SOCKET > user config > built-in default
func getDefaultSocketPath() string {
	if path := os.Getenv("OFFICESIM_SOCKET"); path != "" {
		return path
	}
	if userCfg := loadUserConfig(); userCfg.DefaultSocket != "" {
		return userCfg.DefaultSocket
	}
	return "/tmp/officesim-daemon.sock"
}

func getDefaultOutputFormat() string {
	if userCfg := loadUserConfig(); userCfg.OutputFormat != "" {
		return userCfg.OutputFormat
	}
	return "table"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
