package availability

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	availabilityQueries "github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
)

var (
	mutualFrom     string
	mutualTo       string
	mutualDuration int
	mutualBuffer   int
)

var mutualCmd = &cobra.Command{
	Use:   "mutual [friend-id]",
	Short: "Show windows you and a friend are both free",
	Long: `Intersect your availability with a friend's, minus calendar events
and exceptions on either side. Windows are shown in your time zone with the
friend's local time alongside.

Examples:
  rendezvous availability mutual 2b7c... --from 2026-11-02 --to 2026-11-08
  rendezvous availability mutual 2b7c... --duration 90 --buffer 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		friendID, err := cli.ParseUserID("friend id", args[0])
		if err != nil {
			return err
		}
		from, to := defaultRange(mutualFrom, mutualTo)

		result, err := app.MutualAvailabilityHandler.Handle(cmd.Context(), availabilityQueries.MutualAvailabilityQuery{
			UserID:          app.CurrentUserID,
			FriendID:        friendID,
			StartDate:       from,
			EndDate:         to,
			DurationMinutes: mutualDuration,
			BufferMinutes:   mutualBuffer,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Windows) == 0 {
			fmt.Fprintf(out, "No shared windows between %s and %s.\n", from, to)
			return nil
		}
		fmt.Fprintf(out, "Shared windows (%d), %s / %s:\n", len(result.Windows), result.UserTimezone, result.FriendTimezone)
		for _, w := range result.Windows {
			fmt.Fprintf(out, "  %s %s-%s (friend %s-%s, %d min)\n",
				w.Date, w.StartTime, w.EndTime, w.FriendStartTime, w.FriendEndTime, w.DurationMinutes)
		}
		return nil
	},
}

// defaultRange fills a missing range with today plus six days.
func defaultRange(from, to string) (string, string) {
	today := time.Now()
	if from == "" {
		from = today.Format(time.DateOnly)
	}
	if to == "" {
		start, err := time.Parse(time.DateOnly, from)
		if err != nil {
			start = today
		}
		to = start.AddDate(0, 0, 6).Format(time.DateOnly)
	}
	return from, to
}

func init() {
	mutualCmd.Flags().StringVar(&mutualFrom, "from", "", "first date (YYYY-MM-DD), defaults to today")
	mutualCmd.Flags().StringVar(&mutualTo, "to", "", "last date (YYYY-MM-DD), defaults to a week out")
	mutualCmd.Flags().IntVar(&mutualDuration, "duration", 60, "meeting length in minutes")
	mutualCmd.Flags().IntVar(&mutualBuffer, "buffer", 15, "padding before and after in minutes (0 uses the default)")
}
