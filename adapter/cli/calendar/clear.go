package calendar

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all imported events",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		n, err := app.CalendarImporter.Clear(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d event(s)\n", n)
		return nil
	},
}
