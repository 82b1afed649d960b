package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityServices "github.com/felixgeelhaar/rendezvous/internal/availability/application/services"
	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	hangouts "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	"github.com/felixgeelhaar/rendezvous/internal/suggestions/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

type engineFixture struct {
	user, friend uuid.UUID
	slots        *memSlots
	hangouts     *memHangouts
	zones        zoneMap
	finder       *stubFinder
}

func newEngineFixture() *engineFixture {
	return &engineFixture{
		user:     uuid.New(),
		friend:   uuid.New(),
		slots:    &memSlots{byUser: map[uuid.UUID][]*availability.Slot{}},
		hangouts: &memHangouts{},
		zones:    zoneMap{},
		finder: &stubFinder{result: &availabilityServices.MutualAvailability{
			UserTimezone:   "UTC",
			FriendTimezone: "UTC",
			Windows:        []availability.Window{},
		}},
	}
}

func (f *engineFixture) engine(config EngineConfig) *SuggestionEngine {
	analyzer := NewPatternAnalyzer(f.slots, f.hangouts, f.zones, nil)
	return NewSuggestionEngine(f.finder, analyzer, config, nil)
}

func (f *engineFixture) request() domain.SuggestionRequest {
	return domain.SuggestionRequest{UserID: f.user, FriendID: f.friend, StartDate: "2024-03-04", EndDate: "2024-03-10"}
}

func window(date, start, end string, userSpan, friendSpan time.Duration) availability.Window {
	day, _ := availability.ParseDate(date)
	return availability.Window{
		Date:           date,
		Start:          timezone.At(day, availability.MustClockTime(start).Minutes(), time.UTC),
		End:            timezone.At(day, availability.MustClockTime(end).Minutes(), time.UTC),
		UserSlotSpan:   userSpan,
		FriendSlotSpan: friendSpan,
	}
}

func sources(slots []domain.MutualTimeSlot) []domain.Source {
	out := make([]domain.Source, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Source)
	}
	return out
}

func TestGenerateSmartSuggestions_NoHistorySkipsPatternCandidates(t *testing.T) {
	f := newEngineFixture()
	f.slots.byUser[f.user] = []*availability.Slot{weekly(t, f.user, time.Monday, "09:00", "12:00")}
	f.slots.byUser[f.friend] = []*availability.Slot{weekly(t, f.friend, time.Monday, "10:00", "13:00")}
	f.finder.result.Windows = []availability.Window{window("2024-03-04", "10:00", "12:00", 3*time.Hour, 3*time.Hour)}

	res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)

	assert.Nil(t, res.MutualHistory)
	assert.Equal(t, 2, res.TotalAnalyzed)
	assert.ElementsMatch(t, []domain.Source{domain.SourceAvailability, domain.SourcePreference}, sources(res.Suggestions))
	for _, s := range res.Suggestions {
		assert.False(t, s.PatternBased)
		assert.Equal(t, "10:00", s.StartTime.Format("15:04"))
		assert.Equal(t, "12:00", s.EndTime.Format("15:04"))
		assert.GreaterOrEqual(t, s.Confidence, 0.0)
		assert.LessOrEqual(t, s.Confidence, 1.0)
	}
	assert.InDelta(t, 0.7, res.PatternConfidence, 1e-9)

	assert.Equal(t, time.Hour, f.finder.got.Duration)
	assert.Equal(t, 15*time.Minute, f.finder.got.Buffer)
}

func TestGenerateSmartSuggestions_TopNStableByConfidence(t *testing.T) {
	f := newEngineFixture()
	// Confidence falls as the longer slot span grows; two windows tie.
	steps := []struct {
		date string
		step int
	}{
		{"2024-03-06", 3}, {"2024-03-05", 0}, {"2024-03-04", 0}, {"2024-03-07", 7}, {"2024-03-08", 1},
		{"2024-03-04", 9}, {"2024-03-05", 5}, {"2024-03-06", 4}, {"2024-03-07", 8}, {"2024-03-08", 6},
	}
	for _, s := range steps {
		span := 2*time.Hour + time.Duration(s.step)*30*time.Minute
		f.finder.result.Windows = append(f.finder.result.Windows, window(s.date, "10:00", "12:00", span, 2*time.Hour))
	}
	req := f.request()
	req.MaxSuggestions = 3

	res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 10, res.TotalAnalyzed)
	require.Len(t, res.Suggestions, 3)
	assert.Equal(t, "2024-03-05", res.Suggestions[0].Date, "ties keep insertion order")
	assert.Equal(t, "2024-03-04", res.Suggestions[1].Date)
	assert.Equal(t, "2024-03-08", res.Suggestions[2].Date)
	assert.InDelta(t, 1.0, res.Suggestions[0].Confidence, 1e-9)
	assert.Greater(t, res.Suggestions[1].Confidence, res.Suggestions[2].Confidence-1e-9)
}

func TestGenerateSmartSuggestions_PatternCandidates(t *testing.T) {
	f := newEngineFixture()
	f.hangouts.items = []*hangouts.Hangout{
		hangout(t, f.user, f.friend, "2024-01-06", "19:00", 120, true),
		hangout(t, f.friend, f.user, "2024-01-13", "19:00", 120, true),
		hangout(t, f.user, f.friend, "2024-01-10", "12:30", 60, true),
	}

	res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)
	require.NotNil(t, res.MutualHistory)
	assert.Equal(t, 4, res.TotalAnalyzed)
	assert.Len(t, res.Suggestions, 4)
	for _, s := range res.Suggestions {
		assert.True(t, s.PatternBased)
		assert.Equal(t, domain.SourcePattern, s.Source)
		assert.Equal(t, 100*time.Minute, s.Duration())
		assert.Contains(t, s.Reasoning, "Matches when you have met before")
	}
	assert.InDelta(t, 1.0, res.PatternConfidence, 1e-9)

	t.Run("weekends excluded", func(t *testing.T) {
		req := f.request()
		no := false
		req.IncludeWeekends = &no
		res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, res.Suggestions, 2)
		for _, s := range res.Suggestions {
			assert.Equal(t, "2024-03-06", s.Date)
		}
	})

	t.Run("evening only", func(t *testing.T) {
		req := f.request()
		req.TimeOfDayPreference = domain.TimeOfDayEvening
		res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, res.Suggestions, 2)
		for _, s := range res.Suggestions {
			assert.Equal(t, "19:00", s.StartTime.Format("15:04"))
		}
	})
}

func TestGenerateSmartSuggestions_CrossZonePreferences(t *testing.T) {
	f := newEngineFixture()
	f.zones[f.user] = "America/New_York"
	f.zones[f.friend] = "Europe/London"
	f.finder.result.UserTimezone = "America/New_York"
	f.finder.result.FriendTimezone = "Europe/London"
	f.slots.byUser[f.user] = []*availability.Slot{weekly(t, f.user, time.Monday, "09:00", "17:00")}
	f.slots.byUser[f.friend] = []*availability.Slot{weekly(t, f.friend, time.Monday, "09:00", "17:00")}

	res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 1)
	s := res.Suggestions[0]
	assert.Equal(t, domain.SourcePreference, s.Source)
	assert.Equal(t, "09:00", s.StartTime.Format("15:04"))
	assert.Equal(t, "12:00", s.EndTime.Format("15:04"))
	assert.Equal(t, "America/New_York", s.StartTime.Location().String())
}

func TestGenerateSmartSuggestions_PartyPreferenceScoring(t *testing.T) {
	f := newEngineFixture()
	f.slots.byUser[f.user] = []*availability.Slot{weekly(t, f.user, time.Tuesday, "18:00", "22:00")}
	f.slots.byUser[f.friend] = []*availability.Slot{weekly(t, f.friend, time.Tuesday, "18:00", "22:00")}
	f.finder.result.Windows = []availability.Window{window("2024-03-05", "18:00", "22:00", 4*time.Hour, 4*time.Hour)}

	parity, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)
	party, err := f.engine(EngineConfig{Scorer: domain.ScorerConfig{UsePartyPreferences: true}}).GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)

	require.NotEmpty(t, parity.Suggestions)
	require.NotEmpty(t, party.Suggestions)
	assert.InDelta(t, 0.6, parity.Suggestions[0].Confidence, 1e-9)
	assert.InDelta(t, 1.0, party.Suggestions[0].Confidence, 1e-9)
}

func TestGenerateSmartSuggestions_Idempotent(t *testing.T) {
	f := newEngineFixture()
	f.slots.byUser[f.user] = []*availability.Slot{weekly(t, f.user, time.Wednesday, "12:00", "15:00")}
	f.slots.byUser[f.friend] = []*availability.Slot{weekly(t, f.friend, time.Wednesday, "13:00", "16:00")}
	f.hangouts.items = []*hangouts.Hangout{hangout(t, f.user, f.friend, "2024-02-07", "13:00", 60, true)}
	f.finder.result.Windows = []availability.Window{window("2024-03-06", "13:00", "15:00", 3*time.Hour, 3*time.Hour)}
	engine := f.engine(EngineConfig{})

	first, err := engine.GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)
	second, err := engine.GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateSmartSuggestions_EmptyResultIsNotNil(t *testing.T) {
	f := newEngineFixture()
	res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(context.Background(), f.request())
	require.NoError(t, err)
	assert.NotNil(t, res.Suggestions)
	assert.Empty(t, res.Suggestions)
	assert.Zero(t, res.TotalAnalyzed)
	assert.NotNil(t, res.UserPattern)
	assert.NotNil(t, res.FriendPattern)
}

func TestGenerateSmartSuggestions_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("availability failure", func(t *testing.T) {
		f := newEngineFixture()
		cause := errors.New("connection refused")
		f.finder.err = cause
		_, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(ctx, f.request())
		assert.ErrorIs(t, err, domain.ErrSuggestionGenerationFailed)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		f := newEngineFixture()
		f.finder.err = fmt.Errorf("resolve: %w", timezone.ErrInvalidTimezone)
		_, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(ctx, f.request())
		assert.ErrorIs(t, err, domain.ErrSuggestionGenerationFailed)
		assert.ErrorIs(t, err, timezone.ErrInvalidTimezone)
	})

	t.Run("pattern failure does not fail the request", func(t *testing.T) {
		f := newEngineFixture()
		f.slots.err = errors.New("slots unavailable")
		res, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(ctx, f.request())
		require.NoError(t, err)
		assert.True(t, res.UserPattern.Degraded)
		assert.True(t, res.FriendPattern.Degraded)
	})

	t.Run("invalid request", func(t *testing.T) {
		f := newEngineFixture()
		req := f.request()
		req.FriendID = req.UserID
		_, err := f.engine(EngineConfig{}).GenerateSmartSuggestions(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}
