package services

import (
	"time"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/suggestions/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// placeholderConfidence is carried by availability candidates until they
// are scored.
const placeholderConfidence = 0.5

// candidateSet holds what every generator needs for one request.
type candidateSet struct {
	dates     []string
	userTz    string
	friendTz  string
	userLoc   *time.Location
	friendLoc *time.Location
	duration  time.Duration
	buffer    time.Duration
}

func (c candidateSet) base(date string, start, end time.Time, source domain.Source) domain.MutualTimeSlot {
	return domain.MutualTimeSlot{
		Date:           date,
		StartTime:      start.In(c.userLoc),
		EndTime:        end.In(c.userLoc),
		UserTimezone:   c.userTz,
		FriendTimezone: c.friendTz,
		Reasoning:      []string{},
		Source:         source,
	}
}

// slack is the padding a window of length span leaves on each side of the
// meeting, capped at the requested buffer.
func (c candidateSet) slack(span time.Duration) time.Duration {
	return max(min((span-c.duration)/2, c.buffer), 0)
}

// fromAvailability emits one candidate per mutual window. Windows already
// hold duration plus both buffers.
func (c candidateSet) fromAvailability(windows []availability.Window) []domain.MutualTimeSlot {
	out := make([]domain.MutualTimeSlot, 0, len(windows))
	for _, w := range windows {
		s := c.base(w.Date, w.Start, w.End, domain.SourceAvailability)
		s.Confidence = placeholderConfidence
		s.BufferBefore = c.buffer
		s.BufferAfter = c.buffer
		s.UserSlotSpan = w.UserSlotSpan
		s.FriendSlotSpan = w.FriendSlotSpan
		out = append(out, s)
	}
	return out
}

// fromHistory emits, on each of the pair's common days, one candidate at
// each of their most frequent start times. The window is exactly the
// meeting, so it claims no buffer.
func (c candidateSet) fromHistory(history *domain.HistoricalPattern) []domain.MutualTimeSlot {
	out := make([]domain.MutualTimeSlot, 0)
	if history == nil {
		return out
	}
	starts := history.TopStartTimes(topStartTimes)
	length := history.PreferredDuration
	if length <= 0 {
		length = c.duration
	}
	for _, date := range c.dates {
		day, _ := availability.ParseDate(date)
		if !history.HasCommonDay(day.Weekday()) {
			continue
		}
		for _, st := range starts {
			start := timezone.At(day, st.Minutes(), c.userLoc)
			s := c.base(date, start, start.Add(length), domain.SourcePattern)
			s.PatternBased = true
			s.UserSlotSpan = length
			s.FriendSlotSpan = length
			out = append(out, s)
		}
	}
	return out
}

// fromPreferences emits, on days both users prefer, one candidate per
// overlapping pair of preferred ranges that can hold the meeting. Friend
// ranges are read in the friend's zone. The buffer claimed is whatever the
// overlap leaves around the meeting.
func (c candidateSet) fromPreferences(user, friend *domain.UserPattern) []domain.MutualTimeSlot {
	out := make([]domain.MutualTimeSlot, 0)
	if user == nil || friend == nil {
		return out
	}
	for _, date := range c.dates {
		day, _ := availability.ParseDate(date)
		weekday := day.Weekday()
		if !user.PrefersDay(weekday) || !friend.PrefersDay(weekday) {
			continue
		}
		for _, ur := range user.PreferredTimeRanges {
			u := place(day, ur, c.userLoc)
			for _, fr := range friend.PreferredTimeRanges {
				f := place(day, fr, c.friendLoc)
				overlap, ok := u.Intersect(f)
				if !ok || overlap.Duration() < c.duration {
					continue
				}
				s := c.base(date, overlap.Start, overlap.End, domain.SourcePreference)
				s.BufferBefore = c.slack(overlap.Duration())
				s.BufferAfter = s.BufferBefore
				s.UserSlotSpan = u.Duration()
				s.FriendSlotSpan = f.Duration()
				out = append(out, s)
			}
		}
	}
	return out
}

func place(day time.Time, r domain.TimeRange, loc *time.Location) availability.Interval {
	return availability.Interval{
		Start: timezone.At(day, r.Start.Minutes(), loc),
		End:   timezone.At(day, r.End.Minutes(), loc),
	}
}

// filter applies the weekend and time-of-day preferences of req.
func filter(slots []domain.MutualTimeSlot, req domain.SuggestionRequest) []domain.MutualTimeSlot {
	out := slots[:0]
	for _, s := range slots {
		weekday, err := availability.WeekdayOf(s.Date)
		if err != nil {
			continue
		}
		if !req.WeekendsIncluded() && availability.IsWeekend(weekday) {
			continue
		}
		if !req.TimeOfDayPreference.Allows(availability.ClockOf(s.StartTime)) {
			continue
		}
		out = append(out, s)
	}
	return out
}
