package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

// Source tells which pool a candidate came from.
type Source string

const (
	SourceAvailability Source = "availability"
	SourcePattern      Source = "pattern"
	SourcePreference   Source = "preference"
)

// MutualTimeSlot is a scored candidate. StartTime and EndTime are in the
// user's zone.
type MutualTimeSlot struct {
	Date           string
	StartTime      time.Time
	EndTime        time.Time
	Confidence     float64
	UserTimezone   string
	FriendTimezone string
	BufferBefore   time.Duration
	BufferAfter    time.Duration
	Reasoning      []string
	Source         Source
	PatternBased   bool
	UserSlotSpan   time.Duration
	FriendSlotSpan time.Duration
}

// Duration returns the candidate's length.
func (s MutualTimeSlot) Duration() time.Duration { return s.EndTime.Sub(s.StartTime) }

// TimeRange is a daily window in its owner's zone.
type TimeRange struct {
	Start     availability.ClockTime
	End       availability.ClockTime
	Frequency float64
}

// Contains reports whether c falls in [Start, End).
func (r TimeRange) Contains(c availability.ClockTime) bool {
	return c >= r.Start && c < r.End
}

// UserPattern summarises one user's availability and completed hangouts.
type UserPattern struct {
	UserID                 uuid.UUID
	PreferredDays          []time.Weekday
	PreferredTimeRanges    []TimeRange
	AverageMeetingDuration time.Duration
	CommonMeetingDays      []time.Weekday
	Timezone               string
	Degraded               bool
}

// PrefersDay reports whether day is among the preferred days.
func (p *UserPattern) PrefersDay(day time.Weekday) bool {
	if p == nil {
		return false
	}
	for _, d := range p.PreferredDays {
		if d == day {
			return true
		}
	}
	return false
}

// DefaultMeetingDuration is assumed when there is no history.
const DefaultMeetingDuration = 120 * time.Minute

// DefaultUserPattern is used when a user's history cannot be read:
// weekdays, 09:00 to 17:00.
func DefaultUserPattern(userID uuid.UUID, tz string) *UserPattern {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	return &UserPattern{
		UserID:        userID,
		PreferredDays: weekdays,
		PreferredTimeRanges: []TimeRange{
			{Start: availability.MustClockTime("09:00"), End: availability.MustClockTime("17:00"), Frequency: 1},
		},
		AverageMeetingDuration: DefaultMeetingDuration,
		CommonMeetingDays:      append([]time.Weekday{}, weekdays...),
		Timezone:               tz,
		Degraded:               true,
	}
}

// MeetingTime is one completed hangout between the pair.
type MeetingTime struct {
	Date      string
	StartTime availability.ClockTime
	Duration  time.Duration
	DayOfWeek time.Weekday
}

// DefaultNoticeTime is reported as the pair's average notice.
const DefaultNoticeTime = 24 * time.Hour

// HistoricalPattern summarises a pair's completed hangouts.
type HistoricalPattern struct {
	UserID                 uuid.UUID
	FriendID               uuid.UUID
	SuccessfulMeetingTimes []MeetingTime
	PreferredDuration      time.Duration
	CommonDays             []time.Weekday
	// AverageNoticeTime is DefaultNoticeTime; hangouts do not record when
	// they were agreed.
	AverageNoticeTime time.Duration
}

// TopStartTimes returns up to n distinct start times by frequency. Ties keep
// the order in which the times first occurred.
func (h *HistoricalPattern) TopStartTimes(n int) []availability.ClockTime {
	if h == nil {
		return []availability.ClockTime{}
	}
	counts := map[availability.ClockTime]int{}
	order := make([]availability.ClockTime, 0)
	for _, m := range h.SuccessfulMeetingTimes {
		if counts[m.StartTime] == 0 {
			order = append(order, m.StartTime)
		}
		counts[m.StartTime]++
	}
	slices.SortStableFunc(order, func(a, b availability.ClockTime) int { return counts[b] - counts[a] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// HasCommonDay reports whether day is one of the pair's common days.
func (h *HistoricalPattern) HasCommonDay(day time.Weekday) bool {
	if h == nil {
		return false
	}
	for _, d := range h.CommonDays {
		if d == day {
			return true
		}
	}
	return false
}

// TopWeekdays ranks weekdays by count, highest first, ties to the lower
// weekday, dropping zero counts and keeping at most n (n <= 0 keeps all).
func TopWeekdays(counts [7]int, n int) []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if counts[d] > 0 {
			days = append(days, d)
		}
	}
	slices.SortStableFunc(days, func(a, b time.Weekday) int { return counts[b] - counts[a] })
	if n > 0 && len(days) > n {
		days = days[:n]
	}
	return days
}
