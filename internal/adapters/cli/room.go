package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/officesim-go/internal/adapters/grpc"
)

// NewRoomCommand creates the room command with subcommands
func NewRoomCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Inspect rooms and occupancy",
	}

	cmd.AddCommand(newRoomListCommand())
	cmd.AddCommand(newRoomOccupancyCommand())
	cmd.AddCommand(newRoomHasSpaceCommand())

	return cmd
}

func newRoomListCommand() *cobra.Command {
	var (
		floor    int
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms with live occupancy",
		Long: `List catalog rooms with their capacity and current occupancy.

Examples:
  officesim room list
  officesim room list --floor 3 --category meeting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				reply, err := client.ListRooms(ctx, grpc.ListRoomsRequest{Floor: floor, Category: category})
				if err != nil {
					return fmt.Errorf("failed to list rooms: %w", err)
				}
				if jsonOutput() {
					return printJSON(os.Stdout, reply)
				}
				if len(reply.Rooms) == 0 {
					fmt.Println("No rooms found")
					return nil
				}

				w := newTable()
				fmt.Fprintln(w, "ROOM\tKIND\tCATEGORY\tFLOOR\tOCCUPANCY")
				for _, r := range reply.Rooms {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\n", r.Room, r.Kind, r.Category, r.Floor, r.Occupancy, r.Capacity)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&floor, "floor", 0, "Only rooms on this floor")
	cmd.Flags().StringVar(&category, "category", "", "Only rooms in this category (office_space, meeting, break, training, specialized, executive, department)")

	return cmd
}

func newRoomOccupancyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "occupancy <room-id>",
		Short: "Show how many agents are in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				reply, err := client.RoomOccupancy(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get occupancy: %w", err)
				}
				if jsonOutput() {
					return printJSON(os.Stdout, reply)
				}
				fmt.Printf("%s: %d/%d\n", reply.Room, reply.Occupancy, reply.Capacity)
				return nil
			})
		},
	}
}

func newRoomHasSpaceCommand() *cobra.Command {
	var excluding int

	cmd := &cobra.Command{
		Use:   "has-space <room-id>",
		Short: "Check whether a room can take one more agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpc.DaemonClient) error {
				reply, err := client.RoomHasSpace(ctx, args[0], excluding)
				if err != nil {
					return fmt.Errorf("failed to check space: %w", err)
				}
				if jsonOutput() {
					return printJSON(os.Stdout, reply)
				}
				if reply.HasSpace {
					fmt.Printf("✓ %s has space (%d free)\n", reply.Room, reply.FreeSpace)
				} else {
					fmt.Printf("✗ %s is full (%d/%d)\n", reply.Room, reply.Occupancy, reply.Capacity)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&excluding, "excluding", 0, "Agent id already in the room, not counted against capacity")

	return cmd
}
