package hangout

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	hangoutCommands "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
)

var (
	confirmDate string
	confirmTime string
)

var confirmCmd = &cobra.Command{
	Use:   "confirm [hangout-id]",
	Short: "Confirm a pending hangout",
	Long: `Confirm a pending hangout, optionally at one of the proposed times.

Examples:
  rendezvous hangout confirm 8f1e...
  rendezvous hangout confirm 8f1e... --date 2026-11-02 --time 10:15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], hangoutCommands.ActionConfirm)
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete [hangout-id]",
	Short: "Mark a hangout as having happened",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], hangoutCommands.ActionComplete)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [hangout-id]",
	Short: "Cancel a hangout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], hangoutCommands.ActionCancel)
	},
}

var declineCmd = &cobra.Command{
	Use:   "decline [hangout-id]",
	Short: "Decline a hangout you were invited to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], hangoutCommands.ActionDecline)
	},
}

func changeStatus(cmd *cobra.Command, rawID string, action hangoutCommands.Action) error {
	app, err := cli.RequireApp()
	if err != nil {
		return err
	}
	hangoutID, err := cli.ParseUserID("hangout id", rawID)
	if err != nil {
		return err
	}

	command := hangoutCommands.ChangeStatusCommand{
		UserID:    app.CurrentUserID,
		HangoutID: hangoutID,
		Action:    action,
	}
	if action == hangoutCommands.ActionConfirm {
		command.Date, command.StartTime = confirmDate, confirmTime
	}

	status, err := app.ChangeStatusHandler.Handle(cmd.Context(), command)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Hangout %s is now %s\n", hangoutID, status)
	return nil
}

func init() {
	confirmCmd.Flags().StringVar(&confirmDate, "date", "", "confirmed date (YYYY-MM-DD)")
	confirmCmd.Flags().StringVar(&confirmTime, "time", "", "confirmed start time (HH:MM)")
}
