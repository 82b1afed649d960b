package hangout

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	hangoutCommands "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
)

var (
	recordTitle     string
	recordDate      string
	recordTime      string
	recordDuration  int
	recordCompleted bool
)

var recordCmd = &cobra.Command{
	Use:   "record [friend-id]",
	Short: "Record a hangout with a friend",
	Long: `Record a hangout. Use --completed for one that already happened.

Examples:
  rendezvous hangout record 2b7c... --date 2026-10-12 --time 18:30 --completed
  rendezvous hangout record 2b7c... --title "Climbing" --date 2026-11-07 --time 10:00 --duration 180`,
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

		result, err := app.RecordHangoutHandler.Handle(cmd.Context(), hangoutCommands.RecordHangoutCommand{
			UserID:          app.CurrentUserID,
			FriendID:        friendID,
			Title:           recordTitle,
			Date:            recordDate,
			StartTime:       recordTime,
			DurationMinutes: recordDuration,
			Completed:       recordCompleted,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recorded hangout: %s (%s)\n", result.HangoutID, result.Status)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordTitle, "title", "", "what you are doing")
	recordCmd.Flags().StringVar(&recordDate, "date", "", "date (YYYY-MM-DD)")
	recordCmd.Flags().StringVar(&recordTime, "time", "", "start time (HH:MM)")
	recordCmd.Flags().IntVar(&recordDuration, "duration", 120, "length in minutes")
	recordCmd.Flags().BoolVar(&recordCompleted, "completed", false, "the hangout already took place")
	_ = recordCmd.MarkFlagRequired("date")
	_ = recordCmd.MarkFlagRequired("time")
}
