package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	availabilityServices "github.com/felixgeelhaar/rendezvous/internal/availability/application/services"
	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	hangouts "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
)

var now = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

type memSlots struct {
	byUser map[uuid.UUID][]*availability.Slot
	err    error
}

func (m *memSlots) Save(context.Context, *availability.Slot) error { return nil }

func (m *memSlots) FindByID(context.Context, uuid.UUID) (*availability.Slot, error) {
	return nil, availability.ErrSlotNotFound
}

func (m *memSlots) FindByUser(_ context.Context, userID uuid.UUID) ([]*availability.Slot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]*availability.Slot{}, m.byUser[userID]...), nil
}

func (m *memSlots) Delete(context.Context, uuid.UUID) error { return nil }

type memHangouts struct {
	mu    sync.Mutex
	items []*hangouts.Hangout
	fail  map[uuid.UUID]error
	calls int
}

func (m *memHangouts) Save(_ context.Context, h *hangouts.Hangout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, h)
	return nil
}

func (m *memHangouts) FindByID(context.Context, uuid.UUID) (*hangouts.Hangout, error) {
	return nil, hangouts.ErrHangoutNotFound
}

func (m *memHangouts) FindByUser(_ context.Context, userID uuid.UUID) ([]*hangouts.Hangout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.fail[userID]; err != nil {
		return nil, err
	}
	out := make([]*hangouts.Hangout, 0)
	for _, h := range m.items {
		if h.Involves(userID) {
			out = append(out, h)
		}
	}
	return out, nil
}

type zoneMap map[uuid.UUID]string

func (z zoneMap) Timezone(_ context.Context, userID uuid.UUID) (string, error) {
	if tz, ok := z[userID]; ok {
		return tz, nil
	}
	return "UTC", nil
}

type stubFinder struct {
	result *availabilityServices.MutualAvailability
	err    error
	got    availabilityServices.MutualRequest
}

func (s *stubFinder) FindMutualAvailability(_ context.Context, req availabilityServices.MutualRequest) (*availabilityServices.MutualAvailability, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func weekly(t *testing.T, userID uuid.UUID, day time.Weekday, start, end string) *availability.Slot {
	t.Helper()
	s, err := availability.NewRecurringSlot(userID, day, availability.MustClockTime(start), availability.MustClockTime(end), now)
	require.NoError(t, err)
	return s
}

func hangout(t *testing.T, organizer, friend uuid.UUID, date, start string, minutes int, completed bool) *hangouts.Hangout {
	t.Helper()
	h, err := hangouts.NewHangout(organizer, friend, "", date, availability.MustClockTime(start), time.Duration(minutes)*time.Minute, now)
	require.NoError(t, err)
	if completed {
		require.NoError(t, h.Complete(now))
	}
	return h
}
