package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
	hangoutCommands "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/identity/application/profile"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database"
	suggestionQueries "github.com/felixgeelhaar/rendezvous/internal/suggestions/application/queries"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	cfg := &config.Config{
		AppEnv:                 "test",
		DatabaseDriver:         "sqlite",
		SQLitePath:             ":memory:",
		UserID:                 uuid.NewString(),
		BreakerEnabled:         true,
		CalendarImportEnabled:  true,
		SuggestionDuration:     time.Hour,
		SuggestionBuffer:       15 * time.Minute,
		SuggestionMaxResults:   5,
		OutboxProcessorEnabled: false,
	}
	c, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func monday(t *testing.T, c *Container, userID uuid.UUID, start, end string) {
	t.Helper()
	day := int(time.Monday)
	_, err := c.AddSlotHandler.Handle(context.Background(), availabilityCommands.AddSlotCommand{
		UserID: userID,
		Slot:   availabilityCommands.SlotInput{DayOfWeek: &day, StartTime: start, EndTime: end},
	})
	require.NoError(t, err)
}

func TestNewContainer_SQLite(t *testing.T) {
	c := newTestContainer(t)

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.Nil(t, c.RedisClient)
	assert.NotNil(t, c.OutboxProcessor)
	assert.NotNil(t, c.GenerateSuggestionsHandler)
	assert.Nil(t, c.CalDAVSource())
	assert.Nil(t, c.NewCalendarImportWorker())
}

func TestContainer_SuggestionsEndToEnd(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	user, friend := uuid.New(), uuid.New()

	for _, id := range []uuid.UUID{user, friend} {
		_, err := c.Profiles.SetTimezone(ctx, profile.SetTimezoneCommand{UserID: id, Timezone: "Europe/London"})
		require.NoError(t, err)
	}
	monday(t, c, user, "10:00", "14:00")
	monday(t, c, friend, "11:00", "16:00")

	mutual, err := c.MutualAvailabilityHandler.Handle(ctx, availabilityQueries.MutualAvailabilityQuery{
		UserID:          user,
		FriendID:        friend,
		StartDate:       "2026-11-02",
		EndDate:         "2026-11-02",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.NotEmpty(t, mutual.Windows)

	res, err := c.GenerateSuggestionsHandler.Handle(ctx, suggestionQueries.GenerateSuggestionsQuery{
		UserID:    user,
		FriendID:  friend,
		StartDate: "2026-11-02",
		EndDate:   "2026-11-08",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Suggestions)
	assert.LessOrEqual(t, len(res.Suggestions), 5)
	for _, s := range res.Suggestions {
		assert.Equal(t, "2026-11-02", s.Date)
		assert.Equal(t, 60, s.DurationMinutes)
	}
}

func TestContainer_HangoutWritesOutbox(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()

	res, err := c.RecordHangoutHandler.Handle(ctx, hangoutCommands.RecordHangoutCommand{
		UserID:          uuid.New(),
		FriendID:        uuid.New(),
		Title:           "Coffee",
		Date:            "2026-10-12",
		StartTime:       "10:00",
		DurationMinutes: 60,
		Completed:       true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.HangoutID)

	msgs, err := c.OutboxRepo.GetUnpublished(ctx, 10, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)
}

func TestBreakerConfig(t *testing.T) {
	bc := breakerConfig(&config.Config{BreakerEnabled: false, BreakerFailureThreshold: 3, BreakerTimeout: time.Minute})
	assert.False(t, bc.Enabled)
	assert.Equal(t, uint32(3), bc.FailureThreshold)
	assert.Equal(t, time.Minute, bc.Timeout)

	bc = breakerConfig(&config.Config{BreakerEnabled: true})
	assert.True(t, bc.Enabled)
	assert.Equal(t, uint32(5), bc.FailureThreshold)
}

func TestProcessorConfig(t *testing.T) {
	pc := processorConfig(&config.Config{OutboxBatchSize: 20, OutboxRetentionDays: 2})
	assert.Equal(t, 20, pc.BatchSize)
	assert.Equal(t, 48*time.Hour, pc.Retention)
	assert.Equal(t, 5, pc.MaxRetries)
}
