package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

// TimeOfDay narrows suggestions to a part of the day in the user's zone.
type TimeOfDay string

const (
	TimeOfDayAny       TimeOfDay = "any"
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
)

var timeOfDayBuckets = map[TimeOfDay]TimeRange{
	TimeOfDayMorning:   {Start: 6 * 60, End: 12 * 60},
	TimeOfDayAfternoon: {Start: 12 * 60, End: 17 * 60},
	TimeOfDayEvening:   {Start: 17 * 60, End: 22 * 60},
}

// ParseTimeOfDay accepts the bucket names; empty means any.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch t := TimeOfDay(s); t {
	case "", TimeOfDayAny:
		return TimeOfDayAny, nil
	case TimeOfDayMorning, TimeOfDayAfternoon, TimeOfDayEvening:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown time of day %q", ErrInvalidRequest, s)
}

// Allows reports whether a candidate starting at c is in the bucket.
func (t TimeOfDay) Allows(c availability.ClockTime) bool {
	r, ok := timeOfDayBuckets[t]
	if !ok {
		return true
	}
	return r.Contains(c)
}

const (
	DefaultDurationMinutes = 60
	DefaultMaxSuggestions  = 5
)

// SuggestionRequest asks for the best times for two users to meet between
// StartDate and EndDate inclusive. Zero values take defaults; a nil
// IncludeWeekends includes weekends.
type SuggestionRequest struct {
	UserID              uuid.UUID
	FriendID            uuid.UUID
	StartDate           string
	EndDate             string
	PreferredDuration   int
	BufferMinutes       int
	MaxSuggestions      int
	IncludeWeekends     *bool
	TimeOfDayPreference TimeOfDay
}

func (r SuggestionRequest) Validate() error {
	if r.UserID == uuid.Nil || r.FriendID == uuid.Nil {
		return fmt.Errorf("%w: user_id and friend_id are required", ErrInvalidRequest)
	}
	if r.UserID == r.FriendID {
		return fmt.Errorf("%w: user and friend must differ", ErrInvalidRequest)
	}
	if r.PreferredDuration < 0 || r.BufferMinutes < 0 || r.MaxSuggestions < 0 {
		return fmt.Errorf("%w: duration, buffer and max suggestions must not be negative", ErrInvalidRequest)
	}
	if _, err := ParseTimeOfDay(string(r.TimeOfDayPreference)); err != nil {
		return err
	}
	if _, err := availability.DatesBetween(r.StartDate, r.EndDate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// WithDefaults fills zero fields from the given defaults.
func (r SuggestionRequest) WithDefaults(duration, buffer time.Duration, maxSuggestions int) SuggestionRequest {
	if r.PreferredDuration == 0 {
		r.PreferredDuration = int(duration / time.Minute)
	}
	if r.BufferMinutes == 0 {
		r.BufferMinutes = int(buffer / time.Minute)
	}
	if r.MaxSuggestions == 0 {
		r.MaxSuggestions = maxSuggestions
	}
	if r.TimeOfDayPreference == "" {
		r.TimeOfDayPreference = TimeOfDayAny
	}
	return r
}

func (r SuggestionRequest) Duration() time.Duration {
	return time.Duration(r.PreferredDuration) * time.Minute
}

func (r SuggestionRequest) Buffer() time.Duration {
	return time.Duration(r.BufferMinutes) * time.Minute
}

// WeekendsIncluded reports whether Saturday and Sunday dates are kept.
func (r SuggestionRequest) WeekendsIncluded() bool {
	return r.IncludeWeekends == nil || *r.IncludeWeekends
}

// SuggestionResult is the ranked output. Suggestions is never nil and
// MutualHistory is nil when the pair has not met.
type SuggestionResult struct {
	Suggestions       []MutualTimeSlot
	TotalAnalyzed     int
	PatternConfidence float64
	UserPattern       *UserPattern
	FriendPattern     *UserPattern
	MutualHistory     *HistoricalPattern
}

// PatternConfidence rates how much the suggestions can lean on history.
func PatternConfidence(user, friend *UserPattern, history *HistoricalPattern) float64 {
	c := 0.5
	if history != nil && len(history.SuccessfulMeetingTimes) > 2 {
		c += 0.3
	}
	if user != nil && friend != nil && len(user.PreferredDays) > 0 && len(friend.PreferredDays) > 0 {
		c += 0.2
	}
	return min(c, 1)
}
