package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/officesim-go/internal/adapters/grpc"
)

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Hire agents into the office",
		Long: `Create agents with generated names and roles. Each agent gets a home
room with spare capacity and starts at home.

Example:
  officesim seed --agents 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--agents must be positive")
			}

			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				reply, err := client.SeedAgents(ctx, count)
				if err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				if jsonOutput() {
					return printJSON(os.Stdout, reply)
				}

				fmt.Printf("✓ Hired %d agents\n", len(reply.Created))
				if reply.Short {
					fmt.Printf("  Office ran out of desks after %d of %d\n", len(reply.Created), count)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "agents", 10, "Number of agents to hire")

	return cmd
}
