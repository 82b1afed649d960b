package domain

import (
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
	"github.com/google/uuid"
)

// Slot is a window of a day during which a user is available. A recurring
// slot applies to every occurrence of its weekday; a dated slot applies to
// exactly one civil date.
type Slot struct {
	sharedDomain.BaseEntity
	userID       uuid.UUID
	dayOfWeek    time.Weekday
	specificDate string
	start        ClockTime
	end          ClockTime
	recurring    bool
	active       bool
}

// NewRecurringSlot creates a weekly slot.
func NewRecurringSlot(userID uuid.UUID, day time.Weekday, start, end ClockTime, now time.Time) (*Slot, error) {
	s := &Slot{
		BaseEntity: sharedDomain.NewBaseEntity(now),
		userID:     userID,
		dayOfWeek:  day,
		start:      start,
		end:        end,
		recurring:  true,
		active:     true,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewDateSlot creates a slot for a single civil date.
func NewDateSlot(userID uuid.UUID, date string, start, end ClockTime, now time.Time) (*Slot, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSlot, err)
	}
	s := &Slot{
		BaseEntity:   sharedDomain.NewBaseEntity(now),
		userID:       userID,
		dayOfWeek:    d.Weekday(),
		specificDate: date,
		start:        start,
		end:          end,
		active:       true,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// RehydrateSlot rebuilds a slot from storage, validating the row.
func RehydrateSlot(
	entity sharedDomain.BaseEntity,
	userID uuid.UUID,
	day time.Weekday,
	specificDate string,
	start, end ClockTime,
	recurring, active bool,
) (*Slot, error) {
	s := &Slot{
		BaseEntity:   entity,
		userID:       userID,
		dayOfWeek:    day,
		specificDate: specificDate,
		start:        start,
		end:          end,
		recurring:    recurring,
		active:       active,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Slot) validate() error {
	if s.userID == uuid.Nil {
		return fmt.Errorf("%w: user is required", ErrInvalidSlot)
	}
	if s.dayOfWeek < time.Sunday || s.dayOfWeek > time.Saturday {
		return fmt.Errorf("%w: %w", ErrInvalidSlot, ErrInvalidDayOfWeek)
	}
	if !s.start.IsValid() || !s.end.IsValid() || s.start >= MinutesPerDay {
		return fmt.Errorf("%w: %w", ErrInvalidSlot, ErrInvalidClockTime)
	}
	// Midnight-spanning windows are not supported.
	if s.start >= s.end {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidSlot, s.start, s.end)
	}
	if s.specificDate != "" {
		if _, err := ParseDate(s.specificDate); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSlot, err)
		}
	}
	return nil
}

func (s *Slot) UserID() uuid.UUID       { return s.userID }
func (s *Slot) DayOfWeek() time.Weekday { return s.dayOfWeek }
func (s *Slot) SpecificDate() string    { return s.specificDate }
func (s *Slot) Start() ClockTime        { return s.start }
func (s *Slot) End() ClockTime          { return s.end }
func (s *Slot) IsRecurring() bool       { return s.recurring }
func (s *Slot) IsActive() bool          { return s.active }

// Span is the slot's length.
func (s *Slot) Span() time.Duration {
	return time.Duration(s.end-s.start) * time.Minute
}

// AppliesOn reports whether the slot is in effect on a civil date. Recurring
// and dated slots do not shadow each other; both apply.
func (s *Slot) AppliesOn(date string, weekday time.Weekday) bool {
	if !s.active {
		return false
	}
	if s.specificDate != "" {
		return s.specificDate == date
	}
	return s.recurring && s.dayOfWeek == weekday
}

// Deactivate hides the slot from matching without deleting it.
func (s *Slot) Deactivate(now time.Time) {
	if s.active {
		s.active = false
		s.Touch(now)
	}
}

// Activate puts a deactivated slot back into matching.
func (s *Slot) Activate(now time.Time) {
	if !s.active {
		s.active = true
		s.Touch(now)
	}
}
