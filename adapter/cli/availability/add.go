package availability

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
)

var (
	addDay   string
	addDate  string
	addStart string
	addEnd   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an availability slot",
	Long: `Add a weekly slot (--day) or a slot for one date (--date).

Examples:
  rendezvous availability add --day mon --start 09:00 --end 12:00
  rendezvous availability add --date 2026-11-07 --start 14:00 --end 18:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if (addDay == "") == (addDate == "") {
			return errors.New("exactly one of --day and --date is required")
		}

		input := availabilityCommands.SlotInput{Date: addDate, StartTime: addStart, EndTime: addEnd}
		if addDay != "" {
			day, err := parseDay(addDay)
			if err != nil {
				return err
			}
			input.DayOfWeek = &day
		}

		id, err := app.AddSlotHandler.Handle(cmd.Context(), availabilityCommands.AddSlotCommand{
			UserID: app.CurrentUserID,
			Slot:   input,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added slot: %s\n", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDay, "day", "", "weekday (0-6 or name) for a weekly slot")
	addCmd.Flags().StringVar(&addDate, "date", "", "date (YYYY-MM-DD) for a one-off slot")
	addCmd.Flags().StringVar(&addStart, "start", "09:00", "start time (HH:MM)")
	addCmd.Flags().StringVar(&addEnd, "end", "17:00", "end time (HH:MM)")
}
