package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	hangouts "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	"github.com/felixgeelhaar/rendezvous/internal/suggestions/domain"
)

func TestPatternAnalyzer_AnalyzeUser(t *testing.T) {
	ctx := context.Background()
	user, friend := uuid.New(), uuid.New()

	inactive := weekly(t, user, time.Saturday, "10:00", "14:00")
	inactive.Deactivate(now)
	slots := &memSlots{byUser: map[uuid.UUID][]*availability.Slot{user: {
		weekly(t, user, time.Monday, "09:00", "12:00"),
		weekly(t, user, time.Monday, "09:00", "12:00"),
		weekly(t, user, time.Wednesday, "18:00", "21:00"),
		inactive,
	}}}
	history := &memHangouts{items: []*hangouts.Hangout{
		hangout(t, user, friend, "2024-01-03", "19:00", 90, true),
		hangout(t, friend, user, "2024-01-05", "12:00", 30, true),
		hangout(t, user, friend, "2024-01-02", "12:00", 240, false),
	}}
	analyzer := NewPatternAnalyzer(slots, history, zoneMap{user: "Europe/Paris"}, nil)

	p := analyzer.AnalyzeUser(ctx, user)
	assert.False(t, p.Degraded)
	assert.Equal(t, "Europe/Paris", p.Timezone)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, p.PreferredDays)
	assert.Equal(t, []domain.TimeRange{
		{Start: availability.MustClockTime("09:00"), End: availability.MustClockTime("12:00"), Frequency: 1},
		{Start: availability.MustClockTime("18:00"), End: availability.MustClockTime("21:00"), Frequency: 1},
	}, p.PreferredTimeRanges)
	assert.Equal(t, time.Hour, p.AverageMeetingDuration)
	assert.Equal(t, []time.Weekday{time.Wednesday, time.Friday}, p.CommonMeetingDays)

	t.Run("no history", func(t *testing.T) {
		p := analyzer.AnalyzeUser(ctx, uuid.New())
		assert.False(t, p.Degraded)
		assert.Empty(t, p.PreferredDays)
		assert.NotNil(t, p.PreferredTimeRanges)
		assert.Equal(t, domain.DefaultMeetingDuration, p.AverageMeetingDuration)
	})
}

func TestPatternAnalyzer_IgnoresDeactivatedSlots(t *testing.T) {
	user := uuid.New()
	paused := weekly(t, user, time.Thursday, "08:00", "10:00")
	paused.Deactivate(now)
	slots := &memSlots{byUser: map[uuid.UUID][]*availability.Slot{user: {paused}}}

	p := NewPatternAnalyzer(slots, &memHangouts{}, zoneMap{}, nil).AnalyzeUser(context.Background(), user)

	assert.False(t, p.Degraded)
	assert.Empty(t, p.PreferredDays)
	assert.Empty(t, p.PreferredTimeRanges)

	paused.Activate(now)
	p = NewPatternAnalyzer(slots, &memHangouts{}, zoneMap{}, nil).AnalyzeUser(context.Background(), user)
	assert.Equal(t, []time.Weekday{time.Thursday}, p.PreferredDays)
	assert.Len(t, p.PreferredTimeRanges, 1)
}

func TestPatternAnalyzer_DegradesOnFailure(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	analyzer := NewPatternAnalyzer(&memSlots{err: errors.New("db down")}, &memHangouts{}, zoneMap{user: "Asia/Tokyo"}, logger)
	p := analyzer.AnalyzeUser(ctx, user)

	assert.True(t, p.Degraded)
	assert.Equal(t, "Asia/Tokyo", p.Timezone)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, p.PreferredDays)
	assert.Equal(t, domain.DefaultMeetingDuration, p.AverageMeetingDuration)
	assert.Contains(t, buf.String(), "pattern analysis degraded")
	assert.Contains(t, buf.String(), "db down")
}

func TestPatternAnalyzer_AnalyzePair(t *testing.T) {
	ctx := context.Background()
	user, friend, other := uuid.New(), uuid.New(), uuid.New()
	history := &memHangouts{items: []*hangouts.Hangout{
		hangout(t, user, friend, "2024-01-06", "19:00", 120, true),
		hangout(t, friend, user, "2024-01-13", "19:00", 60, true),
		hangout(t, user, friend, "2024-01-10", "12:30", 90, true),
		hangout(t, user, friend, "2024-01-17", "08:00", 60, false),
		hangout(t, user, other, "2024-01-20", "10:00", 60, true),
	}}
	analyzer := NewPatternAnalyzer(&memSlots{}, history, zoneMap{}, nil)

	h := analyzer.AnalyzePair(ctx, user, friend)
	require.NotNil(t, h)
	require.Len(t, h.SuccessfulMeetingTimes, 3, "shared hangouts are counted once")
	assert.Equal(t, 90*time.Minute, h.PreferredDuration)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Wednesday}, h.CommonDays)
	assert.Equal(t, domain.DefaultNoticeTime, h.AverageNoticeTime)
	assert.Equal(t, []availability.ClockTime{availability.MustClockTime("19:00"), availability.MustClockTime("12:30")}, h.TopStartTimes(3))

	assert.Nil(t, analyzer.AnalyzePair(ctx, user, uuid.New()), "strangers have no history")

	history.fail = map[uuid.UUID]error{friend: errors.New("timeout")}
	assert.Nil(t, analyzer.AnalyzePair(ctx, user, friend))
}
