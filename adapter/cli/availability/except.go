package availability

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
)

var (
	exceptStart  string
	exceptEnd    string
	exceptReason string
	exceptRemove string
)

var exceptCmd = &cobra.Command{
	Use:   "except [date]",
	Short: "Block out time on one date",
	Long: `Mark part of a date (or the whole day) as unavailable. Exceptions
win over weekly and one-off slots.

Examples:
  rendezvous availability except 2026-12-24 --reason "family"
  rendezvous availability except 2026-11-03 --start 12:00 --end 13:30
  rendezvous availability except --remove <exception-id>`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		if exceptRemove != "" {
			id, err := cli.ParseUserID("exception id", exceptRemove)
			if err != nil {
				return err
			}
			if err := app.DeleteExceptionHandler.Handle(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed exception: %s\n", id)
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("a date is required")
		}
		id, err := app.AddExceptionHandler.Handle(cmd.Context(), availabilityCommands.AddExceptionCommand{
			UserID:    app.CurrentUserID,
			Date:      args[0],
			StartTime: exceptStart,
			EndTime:   exceptEnd,
			Reason:    exceptReason,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added exception: %s\n", id)
		return nil
	},
}

func init() {
	exceptCmd.Flags().StringVar(&exceptStart, "start", "", "start time (HH:MM), whole day if omitted")
	exceptCmd.Flags().StringVar(&exceptEnd, "end", "", "end time (HH:MM)")
	exceptCmd.Flags().StringVar(&exceptReason, "reason", "", "why you are away")
	exceptCmd.Flags().StringVar(&exceptRemove, "remove", "", "remove the exception with this ID")
}
