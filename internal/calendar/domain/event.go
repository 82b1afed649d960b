package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

var (
	ErrInvalidEvent = errors.New("invalid calendar event")
	ErrNoCalendars  = errors.New("no calendars found")
)

// Source names where a busy block came from.
type Source string

const (
	SourceICS    Source = "ics"
	SourceCalDAV Source = "caldav"
	SourceManual Source = "manual"
)

// Event is a read-only busy block imported from an external calendar.
type Event struct {
	sharedDomain.BaseEntity
	userID     uuid.UUID
	externalID string
	source     Source
	title      string
	start      time.Time
	end        time.Time
}

// NewEvent creates a busy block. externalID identifies the block at its
// source and keys upserts.
func NewEvent(userID uuid.UUID, externalID string, source Source, title string, start, end time.Time, now time.Time) (*Event, error) {
	e := &Event{
		BaseEntity: sharedDomain.NewBaseEntity(now),
		userID:     userID,
		externalID: strings.TrimSpace(externalID),
		source:     source,
		title:      title,
		start:      start.UTC(),
		end:        end.UTC(),
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// RehydrateEvent rebuilds an event from storage.
func RehydrateEvent(entity sharedDomain.BaseEntity, userID uuid.UUID, externalID string, source Source, title string, start, end time.Time) (*Event, error) {
	e := &Event{
		BaseEntity: entity,
		userID:     userID,
		externalID: externalID,
		source:     source,
		title:      title,
		start:      start.UTC(),
		end:        end.UTC(),
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Event) validate() error {
	if e.userID == uuid.Nil {
		return fmt.Errorf("%w: user is required", ErrInvalidEvent)
	}
	if e.externalID == "" {
		return fmt.Errorf("%w: external id is required", ErrInvalidEvent)
	}
	if !e.start.Before(e.end) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidEvent,
			e.start.Format(time.RFC3339), e.end.Format(time.RFC3339))
	}
	return nil
}

func (e *Event) UserID() uuid.UUID    { return e.userID }
func (e *Event) ExternalID() string   { return e.externalID }
func (e *Event) Source() Source       { return e.source }
func (e *Event) Title() string        { return e.title }
func (e *Event) StartTime() time.Time { return e.start }
func (e *Event) EndTime() time.Time   { return e.end }

// Overlaps reports whether the event intersects [start, end).
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.start.Before(end) && e.end.After(start)
}
