package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/officesim-go/internal/adapters/grpc"
)

// NewAgentCommand creates the agent command with subcommands
func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Inspect and move agents",
		Long: `Inspect agents and request moves or activities.

Moves are capacity checked: a full room reroutes the agent to a similar
room, or leaves it waiting until space opens.`,
	}

	cmd.AddCommand(newAgentShowCommand())
	cmd.AddCommand(newAgentMoveCommand())
	cmd.AddCommand(newAgentActivityCommand())

	return cmd
}

func newAgentShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <agent-id>",
		Short: "Show an agent's placement and state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := parseAgentID(args[0])
			if err != nil {
				return err
			}

			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				agent, err := client.GetAgent(ctx, agentID)
				if err != nil {
					return fmt.Errorf("failed to get agent: %w", err)
				}
				if jsonOutput() {
					return printJSON(os.Stdout, agent)
				}

				fmt.Printf("Agent %d: %s\n", agent.AgentID, agent.Name)
				fmt.Printf("  Role:          %s (%s)\n", agent.Role, agent.Department)
				fmt.Printf("  Home:          %s\n", orDash(agent.HomeRoom))
				fmt.Printf("  State:         %s\n", agent.ActivityState)
				fmt.Printf("  Current room:  %s\n", orDash(agent.CurrentRoom))
				if agent.TargetRoom != "" {
					fmt.Printf("  Walking to:    %s (as %s)\n", agent.TargetRoom, agent.DesiredState)
				}
				if agent.PendingRoom != "" {
					fmt.Printf("  Waiting for:   %s (as %s)\n", agent.PendingRoom, agent.DesiredState)
				}
				fmt.Printf("  Since:         %s\n", agent.StateChangedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newAgentMoveCommand() *cobra.Command {
	var (
		target string
		state  string
	)

	cmd := &cobra.Command{
		Use:   "move <agent-id>",
		Short: "Request that an agent move to a room",
		Long: `Request that an agent move to a room in a given state.

Example:
  officesim agent move 12 --to breakroom_floor2 --state break`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := parseAgentID(args[0])
			if err != nil {
				return err
			}
			if target == "" {
				return fmt.Errorf("--to is required")
			}

			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				reply, err := client.RequestMove(ctx, grpc.MoveRequest{
					AgentID:      agentID,
					Target:       target,
					DesiredState: state,
				})
				if err != nil {
					return fmt.Errorf("move failed: %w", err)
				}
				return printMove(agentID, reply)
			})
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "Target room id (required)")
	cmd.Flags().StringVar(&state, "state", "working", "Desired activity state on arrival")

	return cmd
}

func newAgentActivityCommand() *cobra.Command {
	var (
		activity string
		hint     string
	)

	cmd := &cobra.Command{
		Use:   "activity <agent-id>",
		Short: "Report an agent's next activity",
		Long: `Report what an agent wants to do next. The daemon picks a room
for the activity and moves the agent there.

Activities: working, break, meeting, training, presentation, idle

Example:
  officesim agent activity 12 --type meeting --hint "one-on-one"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := parseAgentID(args[0])
			if err != nil {
				return err
			}

			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				reply, err := client.ReportActivity(ctx, grpc.ActivityRequest{
					AgentID:  agentID,
					Activity: activity,
					Hint:     hint,
				})
				if err != nil {
					return fmt.Errorf("activity report failed: %w", err)
				}
				return printMove(agentID, reply)
			})
		},
	}

	cmd.Flags().StringVar(&activity, "type", "working", "Activity type")
	cmd.Flags().StringVar(&hint, "hint", "", "Free-text hint, e.g. a meeting topic")

	return cmd
}
