package availability

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	availabilityQueries "github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
)

var (
	listFrom string
	listTo   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your availability",
	Long: `List weekly and one-off slots, plus exceptions between --from and --to.

Examples:
  rendezvous availability list
  rendezvous availability list --from 2026-11-01 --to 2026-11-30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.ListAvailabilityHandler.Handle(cmd.Context(), availabilityQueries.ListAvailabilityQuery{
			UserID: app.CurrentUserID,
			From:   listFrom,
			To:     listTo,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Slots) == 0 {
			fmt.Fprintln(out, "No availability yet. Add some with: rendezvous availability add --day mon")
		} else {
			fmt.Fprintf(out, "Slots (%d):\n", len(result.Slots))
			for _, s := range result.Slots {
				when := time.Weekday(s.DayOfWeek).String()
				if !s.IsRecurring {
					when = s.SpecificDate
				}
				state := ""
				if !s.IsActive {
					state = " (inactive)"
				}
				fmt.Fprintf(out, "  %-10s %s-%s%s\n", when, s.StartTime, s.EndTime, state)
				fmt.Fprintf(out, "    ID: %s\n", s.ID)
			}
		}

		if len(result.Exceptions) > 0 {
			fmt.Fprintf(out, "Exceptions (%d):\n", len(result.Exceptions))
			for _, e := range result.Exceptions {
				fmt.Fprintf(out, "  %s %s-%s %s\n", e.Date, e.StartTime, e.EndTime, e.Reason)
				fmt.Fprintf(out, "    ID: %s\n", e.ID)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "first date for exceptions (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "last date for exceptions (YYYY-MM-DD)")
}
