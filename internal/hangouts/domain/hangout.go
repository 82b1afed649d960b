package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

// Hangout is a meeting between an organizer and one friend. Completed
// hangouts are the history the suggestion engine learns from.
type Hangout struct {
	sharedDomain.BaseAggregateRoot
	organizerID uuid.UUID
	friendID    uuid.UUID
	title       string
	status      Status
	date        string
	start       availability.ClockTime
	duration    time.Duration
}

// NewHangout schedules a pending hangout on date at start in the
// organizer's zone.
func NewHangout(organizerID, friendID uuid.UUID, title, date string, start availability.ClockTime, duration time.Duration, now time.Time) (*Hangout, error) {
	h := &Hangout{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		organizerID:       organizerID,
		friendID:          friendID,
		title:             strings.TrimSpace(title),
		status:            StatusPending,
		date:              date,
		start:             start,
		duration:          duration,
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// RehydrateHangout rebuilds a hangout from storage.
func RehydrateHangout(entity sharedDomain.BaseEntity, organizerID, friendID uuid.UUID, title string, status Status, date string, start availability.ClockTime, duration time.Duration) (*Hangout, error) {
	h := &Hangout{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity),
		organizerID:       organizerID,
		friendID:          friendID,
		title:             title,
		status:            status,
		date:              date,
		start:             start,
		duration:          duration,
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hangout) validate() error {
	if h.organizerID == uuid.Nil || h.friendID == uuid.Nil {
		return fmt.Errorf("%w: both participants are required", ErrInvalidHangout)
	}
	if h.organizerID == h.friendID {
		return ErrSameUser
	}
	if _, err := availability.ParseDate(h.date); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHangout, err)
	}
	if !h.start.IsValid() || h.start >= availability.MinutesPerDay {
		return fmt.Errorf("%w: %w", ErrInvalidHangout, availability.ErrInvalidClockTime)
	}
	if h.duration <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidHangout, availability.ErrInvalidDuration)
	}
	if _, err := ParseStatus(string(h.status)); err != nil {
		return err
	}
	return nil
}

func (h *Hangout) OrganizerID() uuid.UUID                { return h.organizerID }
func (h *Hangout) FriendID() uuid.UUID                   { return h.friendID }
func (h *Hangout) Title() string                         { return h.title }
func (h *Hangout) Status() Status                        { return h.status }
func (h *Hangout) ScheduledDate() string                 { return h.date }
func (h *Hangout) ScheduledTime() availability.ClockTime { return h.start }
func (h *Hangout) Duration() time.Duration               { return h.duration }

// DurationMinutes returns the planned length in whole minutes.
func (h *Hangout) DurationMinutes() int { return int(h.duration / time.Minute) }

// Weekday returns the weekday of the scheduled date.
func (h *Hangout) Weekday() time.Weekday {
	d, _ := availability.ParseDate(h.date)
	return d.Weekday()
}

// Involves reports whether userID is the organizer or the friend.
func (h *Hangout) Involves(userID uuid.UUID) bool {
	return h.organizerID == userID || h.friendID == userID
}

// Counterpart returns the other participant.
func (h *Hangout) Counterpart(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case h.organizerID:
		return h.friendID, true
	case h.friendID:
		return h.organizerID, true
	}
	return uuid.Nil, false
}

// ProposeTimes records the candidate times offered to the friend. Only a
// pending hangout can be re-proposed.
func (h *Hangout) ProposeTimes(times []ProposedTime, now time.Time) error {
	if h.status != StatusPending {
		return fmt.Errorf("%w: cannot propose times for a %s hangout", ErrInvalidTransition, h.status)
	}
	if len(times) == 0 {
		return ErrNoProposedTimes
	}
	h.Touch(now)
	h.Record(&TimesProposedEvent{
		BaseEvent:       sharedDomain.NewBaseEvent(h.ID(), AggregateTypeHangout, RoutingKeyTimesProposed, now),
		OrganizerID:     h.organizerID,
		FriendID:        h.friendID,
		Title:           h.title,
		DurationMinutes: h.DurationMinutes(),
		Times:           times,
	})
	return nil
}

// Confirm accepts the hangout, optionally moving it to the chosen time.
func (h *Hangout) Confirm(date string, start availability.ClockTime, now time.Time) error {
	if h.status != StatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, h.status, StatusConfirmed)
	}
	if date != "" {
		prevDate, prevStart := h.date, h.start
		h.date, h.start = date, start
		if err := h.validate(); err != nil {
			h.date, h.start = prevDate, prevStart
			return err
		}
	}
	return h.transition(StatusConfirmed, now)
}

// Complete marks the hangout as having happened.
func (h *Hangout) Complete(now time.Time) error {
	return h.transition(StatusCompleted, now)
}

// Cancel calls the hangout off.
func (h *Hangout) Cancel(now time.Time) error {
	return h.transition(StatusCancelled, now)
}

// Decline records the friend turning the invitation down.
func (h *Hangout) Decline(now time.Time) error {
	if h.status != StatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, h.status, StatusDeclined)
	}
	return h.transition(StatusDeclined, now)
}

func (h *Hangout) transition(to Status, now time.Time) error {
	if h.status.IsFinal() || h.status == to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, h.status, to)
	}
	from := h.status
	h.status = to
	h.Touch(now)
	h.Record(newStatusChanged(h, from, now))
	return nil
}
