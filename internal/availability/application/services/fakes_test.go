package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
)

var errStore = errors.New("store unavailable")

type memSlots struct {
	byUser map[uuid.UUID][]*domain.Slot
	err    error
}

func (m *memSlots) Save(_ context.Context, s *domain.Slot) error {
	if m.byUser == nil {
		m.byUser = map[uuid.UUID][]*domain.Slot{}
	}
	m.byUser[s.UserID()] = append(m.byUser[s.UserID()], s)
	return nil
}

func (m *memSlots) FindByID(_ context.Context, id uuid.UUID) (*domain.Slot, error) {
	for _, slots := range m.byUser {
		for _, s := range slots {
			if s.ID() == id {
				return s, nil
			}
		}
	}
	return nil, domain.ErrSlotNotFound
}

func (m *memSlots) FindByUser(_ context.Context, userID uuid.UUID) ([]*domain.Slot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]*domain.Slot{}, m.byUser[userID]...), nil
}

func (m *memSlots) Delete(context.Context, uuid.UUID) error { return nil }

type memExceptions struct {
	items []*domain.Exception
}

func (m *memExceptions) Save(_ context.Context, e *domain.Exception) error {
	m.items = append(m.items, e)
	return nil
}

func (m *memExceptions) FindByUserAndRange(_ context.Context, userID uuid.UUID, from, to string) ([]*domain.Exception, error) {
	out := make([]*domain.Exception, 0)
	for _, e := range m.items {
		if e.UserID() == userID && e.Date() >= from && e.Date() <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExceptions) Delete(context.Context, uuid.UUID) error { return nil }

type memEvents struct {
	items []*calendarDomain.Event
}

func (m *memEvents) FindByUsersAndRange(_ context.Context, userIDs []uuid.UUID, start, end time.Time) ([]*calendarDomain.Event, error) {
	out := make([]*calendarDomain.Event, 0)
	for _, e := range m.items {
		for _, id := range userIDs {
			if e.UserID() == id && e.Overlaps(start, end) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (m *memEvents) FindByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*calendarDomain.Event, error) {
	return m.FindByUsersAndRange(ctx, []uuid.UUID{userID}, start, end)
}

func (m *memEvents) SaveAll(_ context.Context, events []*calendarDomain.Event) error {
	m.items = append(m.items, events...)
	return nil
}

func (m *memEvents) DeleteMissing(context.Context, uuid.UUID, calendarDomain.Source, time.Time, time.Time, []string) (int64, error) {
	return 0, nil
}

func (m *memEvents) DeleteByUser(context.Context, uuid.UUID) (int64, error) { return 0, nil }

type zoneMap map[uuid.UUID]string

func (z zoneMap) Timezone(_ context.Context, userID uuid.UUID) (string, error) {
	if tz, ok := z[userID]; ok {
		return tz, nil
	}
	return "UTC", nil
}
