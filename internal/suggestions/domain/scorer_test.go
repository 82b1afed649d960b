package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

func at(t *testing.T, tz, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	require.NoError(t, err)
	return ts
}

func slot(t *testing.T, userTz, friendTz, start, end string) *MutualTimeSlot {
	t.Helper()
	s := &MutualTimeSlot{
		Date:           start[:10],
		StartTime:      at(t, userTz, start),
		EndTime:        at(t, userTz, end),
		UserTimezone:   userTz,
		FriendTimezone: friendTz,
		BufferBefore:   15 * time.Minute,
		BufferAfter:    15 * time.Minute,
		Source:         SourceAvailability,
	}
	s.UserSlotSpan = s.Duration()
	s.FriendSlotSpan = s.Duration()
	return s
}

func TestScorer_ParityWindow(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})

	s := slot(t, "UTC", "UTC", "2024-03-04 10:00", "2024-03-04 12:00")
	b := scorer.Score(s, ScoreInput{})
	assert.Equal(t, 1.0, b.BothPreferred)
	assert.Equal(t, 1.0, b.TimezoneConvenience)
	assert.Equal(t, 1.0, b.AvailabilityOverlap)
	assert.Equal(t, 1.0, b.BufferAdequacy)
	assert.InDelta(t, 1.0, s.Confidence, 1e-9)
	assert.Contains(t, s.Reasoning, "Optimal time for both users")
	assert.Contains(t, s.Reasoning, "Within preferred hours")

	evening := slot(t, "UTC", "UTC", "2024-03-04 18:00", "2024-03-04 20:00")
	b = scorer.Score(evening, ScoreInput{})
	assert.Equal(t, 0.0, b.BothPreferred, "18:00 is outside the half-open window")
	assert.InDelta(t, 0.6, evening.Confidence, 1e-9)
	assert.NotContains(t, evening.Reasoning, "Optimal time for both users")
}

func TestScorer_ParityIgnoresPartyRanges(t *testing.T) {
	user := &UserPattern{PreferredTimeRanges: []TimeRange{{Start: 19 * 60, End: 22 * 60}}}
	s := slot(t, "UTC", "UTC", "2024-03-04 10:00", "2024-03-04 11:00")

	parity := NewScorer(ScorerConfig{}).Score(s, ScoreInput{User: user, Friend: user})
	assert.Equal(t, 1.0, parity.BothPreferred)

	party := NewScorer(ScorerConfig{UsePartyPreferences: true}).Score(s, ScoreInput{User: user, Friend: user})
	assert.Equal(t, 0.0, party.BothPreferred)
}

func TestScorer_PartyPreferences(t *testing.T) {
	scorer := NewScorer(ScorerConfig{UsePartyPreferences: true})
	user := &UserPattern{PreferredTimeRanges: []TimeRange{{Start: 9 * 60, End: 12 * 60}}}
	// The friend's range is in London time, five hours ahead.
	friend := &UserPattern{PreferredTimeRanges: []TimeRange{{Start: 15 * 60, End: 18 * 60}}}

	both := slot(t, "America/New_York", "Europe/London", "2024-03-04 10:30", "2024-03-04 11:30")
	assert.Equal(t, 1.0, scorer.Score(both, ScoreInput{User: user, Friend: friend}).BothPreferred)

	one := slot(t, "America/New_York", "Europe/London", "2024-03-04 09:30", "2024-03-04 10:30")
	assert.Equal(t, 0.5, scorer.Score(one, ScoreInput{User: user, Friend: friend}).BothPreferred)
	assert.Contains(t, one.Reasoning, "Within preferred hours for one of you")

	none := slot(t, "America/New_York", "Europe/London", "2024-03-04 13:00", "2024-03-04 14:00")
	assert.Equal(t, 0.0, scorer.Score(none, ScoreInput{User: user, Friend: friend}).BothPreferred)
}

func TestScorer_TimezoneConvenience(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})
	tests := []struct {
		start string
		want  float64
	}{
		{"2024-03-04 10:00", 0.8},
		{"2024-03-04 15:59", 0.8},
		{"2024-03-04 16:00", 0.5},
		{"2024-03-04 09:59", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			end := at(t, "America/New_York", tt.start).Add(time.Hour).Format("2006-01-02 15:04")
			s := slot(t, "America/New_York", "Europe/London", tt.start, end)
			assert.Equal(t, tt.want, scorer.Score(s, ScoreInput{}).TimezoneConvenience)
		})
	}
}

func TestScorer_OverlapAndBuffer(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})
	s := slot(t, "UTC", "UTC", "2024-03-04 10:00", "2024-03-04 12:00")
	s.UserSlotSpan = 3 * time.Hour
	s.FriendSlotSpan = 4 * time.Hour
	s.BufferBefore = 5 * time.Minute
	s.BufferAfter = 30 * time.Minute

	b := scorer.Score(s, ScoreInput{})
	assert.InDelta(t, 0.5, b.AvailabilityOverlap, 1e-9)
	assert.InDelta(t, 1.0/3, b.BufferAdequacy, 1e-9)

	s.UserSlotSpan, s.FriendSlotSpan = 0, 0
	assert.Equal(t, 0.0, scorer.Score(s, ScoreInput{}).AvailabilityOverlap)
}

func TestScorer_PatternBonusNeedsHistory(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})
	s := slot(t, "UTC", "UTC", "2024-03-04 19:00", "2024-03-04 20:00")
	s.PatternBased = true

	without := scorer.Score(s, ScoreInput{HasHistory: false})
	assert.Equal(t, 0.0, without.Bonus)
	base := s.Confidence

	with := scorer.Score(s, ScoreInput{HasHistory: true})
	assert.Equal(t, PatternBonus, with.Bonus)
	assert.InDelta(t, base+PatternBonus, s.Confidence, 1e-9)
	assert.Contains(t, s.Reasoning, "Matches when you have met before")
}

func TestScorer_AlwaysWithinUnitInterval(t *testing.T) {
	scorers := []*Scorer{NewScorer(ScorerConfig{}), NewScorer(ScorerConfig{UsePartyPreferences: true})}
	user := &UserPattern{PreferredTimeRanges: []TimeRange{{Start: 0, End: availability.MinutesPerDay}}}
	for _, scorer := range scorers {
		for hour := 0; hour < 24; hour++ {
			for _, pattern := range []bool{false, true} {
				start := time.Date(2024, 3, 4, hour, 0, 0, 0, time.UTC)
				s := &MutualTimeSlot{
					StartTime:      start,
					EndTime:        start.Add(time.Hour),
					UserTimezone:   "UTC",
					FriendTimezone: "Asia/Tokyo",
					BufferBefore:   time.Hour,
					BufferAfter:    time.Hour,
					UserSlotSpan:   30 * time.Minute,
					PatternBased:   pattern,
				}
				scorer.Score(s, ScoreInput{User: user, Friend: user, HasHistory: true})
				assert.GreaterOrEqual(t, s.Confidence, 0.0)
				assert.LessOrEqual(t, s.Confidence, 1.0)
				assert.NotEmpty(t, s.Reasoning)
			}
		}
	}
}
