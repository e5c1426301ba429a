package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/officesim-go/internal/adapters/grpc"
)

// NewLogCommand creates the activity log command
func NewLogCommand() *cobra.Command {
	var (
		agentID int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent activity log entries",
		Long: `Show the most recent activity log entries, newest first.

Examples:
  officesim log
  officesim log --agent 12 --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				reply, err := client.RecentActivity(ctx, grpc.ActivityLogRequest{ForAgent: agentID, Limit: limit})
				if err != nil {
					return fmt.Errorf("failed to read activity log: %w", err)
				}
				if jsonOutput() {
					return printJSON(os.Stdout, reply)
				}
				if len(reply.Entries) == 0 {
					fmt.Println("No activity recorded")
					return nil
				}

				w := newTable()
				fmt.Fprintln(w, "TIME\tAGENT\tLEVEL\tKIND\tROOM\tDETAIL")
				for _, e := range reply.Entries {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
						e.Timestamp.Format("2006-01-02 15:04:05"), e.AgentID, e.Level, e.Kind, orDash(e.Room), e.Detail)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&agentID, "agent", 0, "Only entries for this agent")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")

	return cmd
}
