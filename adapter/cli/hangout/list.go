package hangout

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	hangoutQueries "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/queries"
)

var (
	listFriend string
	listStatus string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List hangouts",
	Long: `List hangouts you organized or were invited to.

Examples:
  rendezvous hangout list
  rendezvous hangout list --friend 2b7c... --status completed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		query := hangoutQueries.ListHangoutsQuery{UserID: app.CurrentUserID, Status: listStatus}
		if listFriend != "" {
			if query.FriendID, err = cli.ParseUserID("friend id", listFriend); err != nil {
				return err
			}
		}

		hangouts, err := app.ListHangoutsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(hangouts) == 0 {
			fmt.Fprintln(out, "No hangouts found.")
			return nil
		}
		fmt.Fprintf(out, "Hangouts (%d):\n", len(hangouts))
		for _, h := range hangouts {
			title := h.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(out, "  %s %s %s (%d min) [%s]\n", h.Date, h.StartTime, title, h.DurationMinutes, h.Status)
			fmt.Fprintf(out, "    ID: %s\n", h.ID)
			fmt.Fprintf(out, "    With: %s\n", counterpart(h, app.CurrentUserID))
		}
		return nil
	},
}

func counterpart(h hangoutQueries.HangoutDTO, self uuid.UUID) uuid.UUID {
	if h.OrganizerID == self {
		return h.FriendID
	}
	return h.OrganizerID
}

func init() {
	listCmd.Flags().StringVar(&listFriend, "friend", "", "only hangouts with this friend")
	listCmd.Flags().StringVar(&listStatus, "status", "", "pending, confirmed, completed, cancelled or declined")
}
