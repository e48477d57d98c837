package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	var person personFlags

	cmd := &cobra.Command{
		Use:   "join EVENT_ID",
		Short: "Join an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := person.input()
			if err != nil {
				return err
			}

			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			p, msg, err := rt.service.JoinEvent(cmd.Context(), args[0], in, rt.deviceID)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			fmt.Fprintf(cmd.OutOrStdout(), "participant id: %s\n", p.ID)
			return nil
		},
	}
	person.register(cmd)
	return cmd
}

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave EVENT_ID PERSON_ID",
		Short: "Leave an event (only entries joined from this device)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			msg, err := rt.service.LeaveEvent(cmd.Context(), args[0], args[1], rt.deviceID)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete EVENT_ID",
		Short: "Delete an event you created (participants are removed too)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			msg, err := rt.service.DeleteEvent(cmd.Context(), args[0], rt.deviceID)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
