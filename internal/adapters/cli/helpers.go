package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/andrescamacho/officesim-go/internal/adapters/grpc"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/config"
)

// loadUserConfig reads ~/.officesim/config.json; any failure yields empty preferences
func loadUserConfig() *config.UserConfig {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return &config.UserConfig{}
	}
	userCfg, err := handler.Load()
	if err != nil {
		return &config.UserConfig{}
	}
	return userCfg
}

// withClient dials the daemon and runs fn under the request timeout
func withClient(fn func(ctx context.Context, client *grpc.DaemonClient) error) error {
	client, err := grpc.NewDaemonClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return fn(ctx, client)
}

// parseAgentID parses a positional agent id
func parseAgentID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid agent id %q: must be a positive integer", arg)
	}
	return id, nil
}

// jsonOutput reports whether listings should be printed as JSON
func jsonOutput() bool {
	return outputFormat == "json"
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printMove renders a committed placement decision
func printMove(agentID int, reply *grpc.MoveReply) error {
	if jsonOutput() {
		return printJSON(os.Stdout, reply)
	}

	switch {
	case reply.NoChange:
		fmt.Printf("Agent %d already in %s as %s (no change)\n", agentID, reply.Room, reply.State)
	case reply.Rerouted:
		fmt.Printf("Agent %d %s %s as %s (requested %s was full)\n", agentID, reply.Outcome, reply.Room, reply.State, reply.Requested)
	default:
		fmt.Printf("Agent %d %s %s as %s\n", agentID, reply.Outcome, reply.Room, reply.State)
	}
	return nil
}
