package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	internalApp "github.com/felixgeelhaar/rendezvous/internal/app"
	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/ics"
	hangoutCommands "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
	hangoutQueries "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/queries"
	"github.com/felixgeelhaar/rendezvous/internal/identity/application/profile"
	suggestionQueries "github.com/felixgeelhaar/rendezvous/internal/suggestions/application/queries"
)

// ErrNotConfigured is returned by commands run without a database.
var ErrNotConfigured = errors.New("rendezvous is not initialized; check DATABASE_URL or SQLITE_PATH")

// App holds the CLI application dependencies.
type App struct {
	// Availability Command Handlers
	AddSlotHandler         *availabilityCommands.AddSlotHandler
	ReplaceWeeklyHandler   *availabilityCommands.ReplaceWeeklyHandler
	SlotHandler            *availabilityCommands.SlotHandler
	AddExceptionHandler    *availabilityCommands.AddExceptionHandler
	DeleteExceptionHandler *availabilityCommands.DeleteExceptionHandler

	// Availability Query Handlers
	ListAvailabilityHandler   *availabilityQueries.ListAvailabilityHandler
	MutualAvailabilityHandler *availabilityQueries.MutualAvailabilityHandler

	// Hangout Handlers
	RecordHangoutHandler *hangoutCommands.RecordHangoutHandler
	ProposeTimesHandler  *hangoutCommands.ProposeTimesHandler
	ChangeStatusHandler  *hangoutCommands.ChangeStatusHandler
	ListHangoutsHandler  *hangoutQueries.ListHangoutsHandler

	// Suggestions
	GenerateSuggestionsHandler *suggestionQueries.GenerateSuggestionsHandler

	// Profiles
	Profiles *profile.Service

	// Calendar Import
	CalendarImporter *calendarApp.ImportService
	ICSParser        *ics.Parser
	CalDAVSource     calendarApp.EventSource

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a CLI application from a wired container.
func NewApp(c *internalApp.Container, userID uuid.UUID) *App {
	return &App{
		AddSlotHandler:             c.AddSlotHandler,
		ReplaceWeeklyHandler:       c.ReplaceWeeklyHandler,
		SlotHandler:                c.SlotHandler,
		AddExceptionHandler:        c.AddExceptionHandler,
		DeleteExceptionHandler:     c.DeleteExceptionHandler,
		ListAvailabilityHandler:    c.ListAvailabilityHandler,
		MutualAvailabilityHandler:  c.MutualAvailabilityHandler,
		RecordHangoutHandler:       c.RecordHangoutHandler,
		ProposeTimesHandler:        c.ProposeTimesHandler,
		ChangeStatusHandler:        c.ChangeStatusHandler,
		ListHangoutsHandler:        c.ListHangoutsHandler,
		GenerateSuggestionsHandler: c.GenerateSuggestionsHandler,
		Profiles:                   c.Profiles,
		CalendarImporter:           c.CalendarImporter,
		ICSParser:                  c.ICSParser,
		CalDAVSource:               c.CalDAVSource(),
		CurrentUserID:              userID,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the CLI application or ErrNotConfigured.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotConfigured
	}
	return app, nil
}

// ParseUserID parses a user ID argument, naming the argument on failure.
func ParseUserID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return id, nil
}
