package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/ics"
)

type calendarImportInput struct {
	File string `json:"file,omitempty"`
	From string `json:"from,omitempty"`
	Days int    `json:"days,omitempty"`
}

func registerCalendarTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("calendar.import").
		Description("Import busy blocks from an .ics file, or from CalDAV when no file is given").
		Handler(func(ctx context.Context, input calendarImportInput) (*calendarApp.ImportResult, error) {
			if app == nil || app.CalendarImporter == nil {
				return nil, errors.New("calendar import requires database connection")
			}

			var src calendarApp.EventSource
			if input.File != "" {
				src = ics.NewFileSource(input.File, app.ICSParser)
			} else if app.CalDAVSource != nil {
				src = app.CalDAVSource
			} else {
				return nil, errors.New("file is required when CalDAV is not configured")
			}

			days := input.Days
			if days <= 0 {
				days = 30
			}
			start, _, err := dateRange(input.From, "", days, time.Now())
			if err != nil {
				return nil, err
			}
			from, _ := time.Parse(dateLayout, start)
			return app.CalendarImporter.Import(ctx, calendarApp.ImportCommand{
				UserID: app.CurrentUserID,
				From:   from,
				To:     from.AddDate(0, 0, days),
			}, src)
		})

	srv.Tool("calendar.clear").
		Description("Remove all imported calendar events").
		Handler(func(ctx context.Context, input struct{}) (map[string]any, error) {
			if app == nil || app.CalendarImporter == nil {
				return nil, errors.New("calendar import requires database connection")
			}
			n, err := app.CalendarImporter.Clear(ctx, app.CurrentUserID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"removed": n}, nil
		})

	return nil
}
