package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mixerboard/internal/domain/entities"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all events in schedule order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			events, err := rt.service.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			printBoard(cmd.OutOrStdout(), events, rt.deviceID)
			return nil
		},
	}
}

func printBoard(w io.Writer, events []entities.Event, deviceID string) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events yet.")
		return
	}
	now := time.Now()
	fmt.Fprintf(w, "%d event(s)\n", len(events))
	for _, ev := range events {
		status := "open"
		if ev.LockedAt(now) {
			status = "closed"
		}
		fmt.Fprintf(w, "\n%s  [%s]  (%s)\n", ev.Title, status, ev.ID)
		fmt.Fprintf(w, "  schedule: %s - %s   deadline: %s\n",
			FormatDateTime(ev.Start), FormatDateTime(ev.End), FormatDateTime(ev.Deadline))
		fmt.Fprintf(w, "  capacity: %s\n", formatCapacity(ev))
		if ev.Detail != "" {
			fmt.Fprintf(w, "  detail:   %s\n", ev.Detail)
		}
		if ev.ImageRef != "" {
			fmt.Fprintf(w, "  image:    %s\n", ev.ImageRef)
		}
		fmt.Fprintf(w, "  participants (%d):\n", len(ev.Participants))
		for _, p := range ev.Participants {
			marker := " "
			if p.DeviceID == deviceID {
				marker = "*" // joined from this device; may leave via its id
			}
			fmt.Fprintf(w, "   %s %s (%s / year %s / %s)  id=%s\n",
				marker, p.Name, p.University, p.Grade, p.Part, p.ID)
		}
		if ev.CreatorDeviceID == deviceID {
			fmt.Fprintln(w, "  (created on this device: deletable)")
		}
	}
}

func formatCapacity(ev entities.Event) string {
	if ev.MinPeople == nil && ev.MaxPeople == nil {
		return "unset"
	}
	min, max := "?", "?"
	if ev.MinPeople != nil {
		min = fmt.Sprint(*ev.MinPeople)
	}
	if ev.MaxPeople != nil {
		max = fmt.Sprint(*ev.MaxPeople)
	}
	return fmt.Sprintf("%s-%s people", min, max)
}
