// Package caldav reads busy blocks from CalDAV servers such as iCloud,
// Fastmail or Nextcloud.
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/ics"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

const requestTimeout = 30 * time.Second

// Importer queries CalDAV collections for events in a range.
type Importer struct {
	baseURL      string
	username     string
	password     string // app-specific password for Apple
	calendarPath string // empty means every calendar in the home set
	parser       *ics.Parser
	logger       *slog.Logger
	httpClient   *http.Client
}

// NewImporter creates a CalDAV importer with basic auth credentials.
func NewImporter(baseURL, username, password string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		parser:     ics.NewParser(logger),
		logger:     logger,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// WithCalendarPath restricts the import to one collection.
func (i *Importer) WithCalendarPath(path string) *Importer {
	i.calendarPath = path
	return i
}

// WithHTTPClient replaces the transport, mainly for tests.
func (i *Importer) WithHTTPClient(c *http.Client) *Importer {
	i.httpClient = c
	return i
}

func (i *Importer) Source() domain.Source { return domain.SourceCalDAV }

// Events returns the busy blocks intersecting [from, to) across the
// selected calendars. Floating times are read in loc.
func (i *Importer) Events(ctx context.Context, userID uuid.UUID, from, to time.Time, loc *time.Location) ([]*domain.Event, error) {
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(i.httpClient, i.username, i.password), i.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	paths, err := i.calendarPaths(ctx, client)
	if err != nil {
		return nil, err
	}

	events := make([]*domain.Event, 0)
	for _, path := range paths {
		objects, err := client.QueryCalendar(ctx, path, rangeQuery(from, to))
		if err != nil {
			return nil, fmt.Errorf("failed to query calendar %s: %w", path, err)
		}
		found := i.toEvents(objects, userID, from, to, loc)
		i.logger.Debug("caldav calendar read", "path", path, "objects", len(objects), "events", len(found))
		events = append(events, found...)
	}
	return events, nil
}

func (i *Importer) calendarPaths(ctx context.Context, client *caldav.Client) ([]string, error) {
	if i.calendarPath != "" {
		return []string{i.calendarPath}, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return nil, domain.ErrNoCalendars
	}

	paths := make([]string, 0, len(cals))
	for _, c := range cals {
		paths = append(paths, c.Path)
	}
	return paths, nil
}

func rangeQuery(from, to time.Time) *caldav.CalendarQuery {
	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     "VCALENDAR",
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: from.UTC(),
					End:   to.UTC(),
				},
			},
		},
	}
}

func (i *Importer) toEvents(objects []caldav.CalendarObject, userID uuid.UUID, from, to time.Time, loc *time.Location) []*domain.Event {
	out := make([]*domain.Event, 0, len(objects))
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		out = append(out, i.parser.Blocks(obj.Data, userID, domain.SourceCalDAV, from, to, loc)...)
	}
	return out
}
