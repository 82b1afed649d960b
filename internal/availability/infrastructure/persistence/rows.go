package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

// slotRow is the storage shape shared by both drivers.
type slotRow struct {
	id           uuid.UUID
	userID       uuid.UUID
	dayOfWeek    *int
	specificDate string
	startMinute  int
	endMinute    int
	recurring    bool
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

func toSlotRow(s *domain.Slot) slotRow {
	row := slotRow{
		id:           s.ID(),
		userID:       s.UserID(),
		specificDate: s.SpecificDate(),
		startMinute:  s.Start().Minutes(),
		endMinute:    s.End().Minutes(),
		recurring:    s.IsRecurring(),
		active:       s.IsActive(),
		createdAt:    s.CreatedAt(),
		updatedAt:    s.UpdatedAt(),
	}
	if s.SpecificDate() == "" {
		day := int(s.DayOfWeek())
		row.dayOfWeek = &day
	}
	return row
}

func (r slotRow) toDomain() (*domain.Slot, error) {
	day := time.Sunday
	switch {
	case r.specificDate != "":
		d, err := domain.ParseDate(r.specificDate)
		if err != nil {
			return nil, err
		}
		day = d.Weekday()
	case r.dayOfWeek != nil:
		day = time.Weekday(*r.dayOfWeek)
	}
	return domain.RehydrateSlot(
		sharedDomain.RehydrateBaseEntity(r.id, r.createdAt, r.updatedAt),
		r.userID,
		day,
		r.specificDate,
		domain.ClockTime(r.startMinute),
		domain.ClockTime(r.endMinute),
		r.recurring,
		r.active,
	)
}

type exceptionRow struct {
	id          uuid.UUID
	userID      uuid.UUID
	date        string
	startMinute int
	endMinute   int
	reason      string
	createdAt   time.Time
}

func (r exceptionRow) toDomain() (*domain.Exception, error) {
	return domain.RehydrateException(
		sharedDomain.RehydrateBaseEntity(r.id, r.createdAt, r.createdAt),
		r.userID,
		r.date,
		domain.ClockTime(r.startMinute),
		domain.ClockTime(r.endMinute),
		r.reason,
	)
}
