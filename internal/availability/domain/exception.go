package domain

import (
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
	"github.com/google/uuid"
)

// Exception marks a user unavailable for part of one civil date, on top of
// whatever slots apply that day.
type Exception struct {
	sharedDomain.BaseEntity
	userID uuid.UUID
	date   string
	start  ClockTime
	end    ClockTime
	reason string
}

// NewException creates an exception. Use 00:00 to 24:00 for a whole day.
func NewException(userID uuid.UUID, date string, start, end ClockTime, reason string, now time.Time) (*Exception, error) {
	return RehydrateException(sharedDomain.NewBaseEntity(now), userID, date, start, end, reason)
}

// RehydrateException rebuilds an exception from storage.
func RehydrateException(entity sharedDomain.BaseEntity, userID uuid.UUID, date string, start, end ClockTime, reason string) (*Exception, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidException)
	}
	if _, err := ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidException, err)
	}
	if !start.IsValid() || !end.IsValid() || start >= end {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidException, start, end)
	}
	return &Exception{
		BaseEntity: entity,
		userID:     userID,
		date:       date,
		start:      start,
		end:        end,
		reason:     reason,
	}, nil
}

func (e *Exception) UserID() uuid.UUID { return e.userID }
func (e *Exception) Date() string      { return e.date }
func (e *Exception) Start() ClockTime  { return e.start }
func (e *Exception) End() ClockTime    { return e.end }
func (e *Exception) Reason() string    { return e.reason }
