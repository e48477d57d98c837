package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mixerboard/internal/domain/entities"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the board and reprint it on every change (shared mode)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			events, err := rt.service.ListEvents(ctx)
			if err != nil {
				return err
			}
			printBoard(out, events, rt.deviceID)

			unsubscribe, err := rt.service.Watch(ctx, func(events []entities.Event) {
				fmt.Fprintln(out, "\n--- board updated ---")
				printBoard(out, events, rt.deviceID)
			})
			if err != nil {
				return err
			}
			defer unsubscribe()

			<-ctx.Done()
			return nil
		},
	}
}
