package calendar

import "github.com/spf13/cobra"

// Cmd is the calendar command group.
var Cmd = &cobra.Command{
	Use:   "calendar",
	Short: "Import busy blocks from your calendar",
	Long: `Import events from an .ics file or a CalDAV server. Imported events
block time when looking for shared windows.`,
}

func init() {
	Cmd.AddCommand(importCmd)
	Cmd.AddCommand(clearCmd)
}
