package domain

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// DefaultBuffer is the padding required on each side of a meeting.
const DefaultBuffer = 15 * time.Minute

// Interval is a half-open span [Start, End) of absolute time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval's length.
func (i Interval) Duration() time.Duration { return i.End.Sub(i.Start) }

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Intersect returns the common part of two intervals, if non-empty.
func (i Interval) Intersect(other Interval) (Interval, bool) {
	start := i.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := i.End
	if other.End.Before(end) {
		end = other.End
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Party is one side of a mutual availability computation.
type Party struct {
	Timezone string
	Slots    []*Slot
	// Busy holds calendar events and exceptions as absolute intervals.
	Busy []Interval
}

// DayQuery asks for the mutual windows of two parties on one civil date.
type DayQuery struct {
	Date     string
	User     Party
	Friend   Party
	Duration time.Duration
	Buffer   time.Duration
}

// Window is a viable overlap. Start and End are expressed in the user's zone
// and cover the whole overlap, buffers included.
type Window struct {
	Date           string
	Start          time.Time
	End            time.Time
	UserSlotSpan   time.Duration
	FriendSlotSpan time.Duration
}

// Duration returns the window's length.
func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

// MutualWindows intersects every applicable user slot with every applicable
// friend slot on q.Date. An overlap is viable when it fits the meeting plus a
// buffer on both sides; viable overlaps touching any busy interval of either
// party are dropped whole.
func MutualWindows(q DayQuery) ([]Window, error) {
	if q.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	weekday, err := WeekdayOf(q.Date)
	if err != nil {
		return nil, err
	}
	userLoc, err := timezone.Load(q.User.Timezone)
	if err != nil {
		return nil, err
	}
	friendLoc, err := timezone.Load(q.Friend.Timezone)
	if err != nil {
		return nil, err
	}

	userSlots := slotIntervals(q.User.Slots, q.Date, weekday, userLoc)
	friendSlots := slotIntervals(q.Friend.Slots, q.Date, weekday, friendLoc)
	required := q.Duration + 2*q.Buffer

	windows := make([]Window, 0)
	for _, us := range userSlots {
		for _, fs := range friendSlots {
			overlap, ok := us.interval.Intersect(fs.interval)
			if !ok || overlap.Duration() < required {
				continue
			}
			if conflicts(overlap, q.User.Busy) || conflicts(overlap, q.Friend.Busy) {
				continue
			}
			windows = append(windows, Window{
				Date:           q.Date,
				Start:          overlap.Start.In(userLoc),
				End:            overlap.End.In(userLoc),
				UserSlotSpan:   us.span,
				FriendSlotSpan: fs.span,
			})
		}
	}
	return windows, nil
}

type placedSlot struct {
	interval Interval
	span     time.Duration
}

// slotIntervals pins each applicable slot to date in loc. Each slot is
// placed separately so a DST change on that date is honoured.
func slotIntervals(slots []*Slot, date string, weekday time.Weekday, loc *time.Location) []placedSlot {
	day, _ := ParseDate(date)
	placed := make([]placedSlot, 0, len(slots))
	for _, s := range slots {
		if s == nil || !s.AppliesOn(date, weekday) {
			continue
		}
		iv := Interval{
			Start: timezone.At(day, s.Start().Minutes(), loc),
			End:   timezone.At(day, s.End().Minutes(), loc),
		}
		placed = append(placed, placedSlot{interval: iv, span: iv.Duration()})
	}
	return placed
}

func conflicts(window Interval, busy []Interval) bool {
	for _, b := range busy {
		if window.Overlaps(b) {
			return true
		}
	}
	return false
}

// ExceptionIntervals converts exceptions into busy intervals in loc.
func ExceptionIntervals(exceptions []*Exception, tz string) ([]Interval, error) {
	loc, err := timezone.Load(tz)
	if err != nil {
		return nil, err
	}
	out := make([]Interval, 0, len(exceptions))
	for _, e := range exceptions {
		day, err := ParseDate(e.Date())
		if err != nil {
			return nil, fmt.Errorf("exception %s: %w", e.ID(), err)
		}
		out = append(out, Interval{
			Start: timezone.At(day, e.Start().Minutes(), loc),
			End:   timezone.At(day, e.End().Minutes(), loc),
		})
	}
	return out, nil
}
