package domain

import (
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a start time and the
// inclusive upper bound of an end time ("24:00").
const MinutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day in minutes since midnight.
type ClockTime int

// NewClockTime builds a clock time from hours and minutes.
func NewClockTime(hour, minute int) (ClockTime, error) {
	c := ClockTime(hour*60 + minute)
	if hour < 0 || minute < 0 || minute > 59 || c > MinutesPerDay {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidClockTime, hour, minute)
	}
	return c, nil
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS". Seconds are dropped.
func ParseClockTime(value string) (ClockTime, error) {
	value = strings.TrimSpace(value)
	if value == "24:00" || value == "24:00:00" {
		return MinutesPerDay, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return ClockTime(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
}

// MustClockTime parses value and panics on failure. Intended for literals.
func MustClockTime(value string) ClockTime {
	c, err := ParseClockTime(value)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns t's wall-clock time in t's own location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) Minutes() int   { return int(c) }
func (c ClockTime) Hour() int      { return int(c) / 60 }
func (c ClockTime) Minute() int    { return int(c) % 60 }
func (c ClockTime) IsValid() bool  { return c >= 0 && c <= MinutesPerDay }
func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

// Add shifts c by d, without wrapping past midnight.
func (c ClockTime) Add(d time.Duration) ClockTime {
	return c + ClockTime(d/time.Minute)
}
