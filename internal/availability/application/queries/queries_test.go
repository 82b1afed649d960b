package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/internal/availability/application/services"
	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

type mockSlotRepo struct{ mock.Mock }

func (m *mockSlotRepo) Save(ctx context.Context, s *domain.Slot) error { return m.Called(ctx, s).Error(0) }

func (m *mockSlotRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Slot)
	return s, args.Error(1)
}

func (m *mockSlotRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Slot, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]*domain.Slot)
	return s, args.Error(1)
}

func (m *mockSlotRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.Called(ctx, id).Error(0) }

type mockExceptionRepo struct{ mock.Mock }

func (m *mockExceptionRepo) Save(ctx context.Context, e *domain.Exception) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockExceptionRepo) FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to string) ([]*domain.Exception, error) {
	args := m.Called(ctx, userID, from, to)
	e, _ := args.Get(0).([]*domain.Exception)
	return e, args.Error(1)
}

func (m *mockExceptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockFinder struct{ mock.Mock }

func (m *mockFinder) FindMutualAvailability(ctx context.Context, req services.MutualRequest) (*services.MutualAvailability, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*services.MutualAvailability)
	return r, args.Error(1)
}

func TestListAvailabilityHandler(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	user := uuid.New()

	weekly, err := domain.NewRecurringSlot(user, time.Friday, domain.MustClockTime("17:00"), domain.MustClockTime("23:00"), now)
	require.NoError(t, err)
	ex, err := domain.NewException(user, "2024-03-08", domain.MustClockTime("19:00"), domain.MustClockTime("20:00"), "dinner", now)
	require.NoError(t, err)

	slots := new(mockSlotRepo)
	slots.On("FindByUser", ctx, user).Return([]*domain.Slot{weekly}, nil)
	exceptions := new(mockExceptionRepo)
	exceptions.On("FindByUserAndRange", ctx, user, "2024-03-04", "2024-03-10").Return([]*domain.Exception{ex}, nil)
	handler := NewListAvailabilityHandler(slots, exceptions)

	t.Run("slots only", func(t *testing.T) {
		got, err := handler.Handle(ctx, ListAvailabilityQuery{UserID: user})
		require.NoError(t, err)
		require.Len(t, got.Slots, 1)
		assert.Equal(t, 5, got.Slots[0].DayOfWeek)
		assert.Equal(t, "23:00", got.Slots[0].EndTime)
		assert.NotNil(t, got.Exceptions)
		assert.Empty(t, got.Exceptions)
	})

	t.Run("with exceptions", func(t *testing.T) {
		got, err := handler.Handle(ctx, ListAvailabilityQuery{UserID: user, From: "2024-03-04", To: "2024-03-10"})
		require.NoError(t, err)
		require.Len(t, got.Exceptions, 1)
		assert.Equal(t, "dinner", got.Exceptions[0].Reason)
	})

	t.Run("bad range", func(t *testing.T) {
		_, err := handler.Handle(ctx, ListAvailabilityQuery{UserID: user, From: "2024-03-10", To: "2024-03-04"})
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		_, err = handler.Handle(ctx, ListAvailabilityQuery{UserID: user, From: "2024-03-10"})
		assert.Error(t, err)
	})
}

func TestMutualAvailabilityHandler(t *testing.T) {
	ctx := context.Background()
	user, friend := uuid.New(), uuid.New()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	finder := new(mockFinder)
	finder.On("FindMutualAvailability", ctx, services.MutualRequest{
		UserID: user, FriendID: friend, StartDate: "2024-03-04", EndDate: "2024-03-04",
		Duration: time.Hour, Buffer: 0,
	}).Return(&services.MutualAvailability{
		UserTimezone:   "America/New_York",
		FriendTimezone: "Europe/London",
		Windows: []domain.Window{{
			Date:  "2024-03-04",
			Start: time.Date(2024, 3, 4, 9, 0, 0, 0, ny),
			End:   time.Date(2024, 3, 4, 12, 0, 0, 0, ny),
		}},
	}, nil)

	got, err := NewMutualAvailabilityHandler(finder).Handle(ctx, MutualAvailabilityQuery{
		UserID: user, FriendID: friend, StartDate: "2024-03-04", EndDate: "2024-03-04", DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, got.Windows, 1)
	w := got.Windows[0]
	assert.Equal(t, "09:00", w.StartTime)
	assert.Equal(t, "12:00", w.EndTime)
	assert.Equal(t, "14:00", w.FriendStartTime)
	assert.Equal(t, "17:00", w.FriendEndTime)
	assert.Equal(t, 180, w.DurationMinutes)

	failing := new(mockFinder)
	failing.On("FindMutualAvailability", ctx, mock.Anything).Return(nil, errors.New("boom"))
	_, err = NewMutualAvailabilityHandler(failing).Handle(ctx, MutualAvailabilityQuery{UserID: user, FriendID: friend})
	assert.EqualError(t, err, "boom")
}
