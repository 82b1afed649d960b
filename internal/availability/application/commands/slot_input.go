package commands

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

// SlotInput describes one slot as entered by a user. Exactly one of
// DayOfWeek and Date is set.
type SlotInput struct {
	DayOfWeek *int
	Date      string
	StartTime string
	EndTime   string
}

func (in SlotInput) build(userID uuid.UUID, now time.Time) (*domain.Slot, error) {
	start, err := domain.ParseClockTime(in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseClockTime(in.EndTime)
	if err != nil {
		return nil, err
	}
	switch {
	case in.DayOfWeek != nil && in.Date != "":
		return nil, domain.ErrInvalidSlot
	case in.Date != "":
		return domain.NewDateSlot(userID, in.Date, start, end, now)
	case in.DayOfWeek != nil:
		if *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
			return nil, domain.ErrInvalidDayOfWeek
		}
		return domain.NewRecurringSlot(userID, time.Weekday(*in.DayOfWeek), start, end, now)
	}
	return nil, domain.ErrInvalidSlot
}
