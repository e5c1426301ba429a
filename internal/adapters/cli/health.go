package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/officesim-go/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				health, err := client.Health(ctx)
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
				if jsonOutput() {
					return printJSON(os.Stdout, health)
				}

				fmt.Println("✓ Daemon is healthy")
				fmt.Printf("  Status:      %s\n", health.Status)
				fmt.Printf("  Instance:    %s\n", health.InstanceID)
				fmt.Printf("  Uptime:      %s\n", health.Uptime)
				fmt.Printf("  Ticks:       %d\n", health.Ticks)
				fmt.Printf("  Agents:      %d\n", health.Agents)
				return nil
			})
		},
	}

	return cmd
}
