package availability

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly [day=HH:MM-HH:MM ...]",
	Short: "Replace your weekly slots",
	Long: `Replace all weekly slots in one go. One-off dates are kept.
Run without arguments to clear the weekly schedule.

Examples:
  rendezvous availability weekly mon=09:00-12:00 mon=14:00-17:00 sat=10:00-16:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		slots := make([]availabilityCommands.SlotInput, 0, len(args))
		for _, arg := range args {
			dayPart, rangePart, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid slot %q (use day=HH:MM-HH:MM)", arg)
			}
			day, err := parseDay(dayPart)
			if err != nil {
				return err
			}
			start, end, err := parseRange(rangePart)
			if err != nil {
				return err
			}
			slots = append(slots, availabilityCommands.SlotInput{DayOfWeek: &day, StartTime: start, EndTime: end})
		}

		n, err := app.ReplaceWeeklyHandler.Handle(cmd.Context(), availabilityCommands.ReplaceWeeklyCommand{
			UserID: app.CurrentUserID,
			Slots:  slots,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Weekly schedule now has %d slot(s)\n", n)
		return nil
	},
}
