package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/ics"
)

var (
	importFile   string
	importCalDAV bool
	importFrom   string
	importDays   int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import calendar events",
	Long: `Import events as busy blocks. Recurring events are expanded inside
the import range and re-importing updates existing blocks.

Examples:
  rendezvous calendar import --file ~/Downloads/work.ics
  rendezvous calendar import --caldav --days 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		var src calendarApp.EventSource
		switch {
		case importFile != "" && importCalDAV:
			return errors.New("use either --file or --caldav")
		case importFile != "":
			src = ics.NewFileSource(importFile, app.ICSParser)
		case importCalDAV:
			if app.CalDAVSource == nil {
				return errors.New("CalDAV is not configured; set CALDAV_URL, CALDAV_USERNAME and CALDAV_PASSWORD")
			}
			src = app.CalDAVSource
		default:
			return errors.New("one of --file or --caldav is required")
		}

		from := time.Now().Truncate(24 * time.Hour)
		if importFrom != "" {
			if from, err = time.Parse(time.DateOnly, importFrom); err != nil {
				return fmt.Errorf("invalid --from %q: %w", importFrom, err)
			}
		}
		result, err := app.CalendarImporter.Import(cmd.Context(), calendarApp.ImportCommand{
			UserID: app.CurrentUserID,
			From:   from,
			To:     from.AddDate(0, 0, importDays),
		}, src)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d event(s), removed %d stale (floating times read as %s)\n",
			result.Imported, result.Removed, result.Timezone)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to an .ics file")
	importCmd.Flags().BoolVar(&importCalDAV, "caldav", false, "import from the configured CalDAV server")
	importCmd.Flags().StringVar(&importFrom, "from", "", "first day to import (YYYY-MM-DD), defaults to today")
	importCmd.Flags().IntVar(&importDays, "days", 30, "number of days to import")
}
