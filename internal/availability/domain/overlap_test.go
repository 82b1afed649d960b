package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

const monday = "2024-01-15"

func recurring(t *testing.T, day time.Weekday, start, end string) *Slot {
	t.Helper()
	s, err := NewRecurringSlot(uuid.New(), day, MustClockTime(start), MustClockTime(end), testNow)
	require.NoError(t, err)
	return s
}

func at(t *testing.T, date, clock, tz string) time.Time {
	t.Helper()
	v, err := timezone.ZonedDate(date, clock, tz)
	require.NoError(t, err)
	return v
}

func sameZoneQuery(t *testing.T, userSlot, friendSlot *Slot) DayQuery {
	return DayQuery{
		Date:     monday,
		User:     Party{Timezone: "UTC", Slots: []*Slot{userSlot}},
		Friend:   Party{Timezone: "UTC", Slots: []*Slot{friendSlot}},
		Duration: 60 * time.Minute,
		Buffer:   DefaultBuffer,
	}
}

func TestMutualWindows_SameZoneOverlap(t *testing.T) {
	q := sameZoneQuery(t,
		recurring(t, time.Monday, "09:00", "12:00"),
		recurring(t, time.Monday, "10:00", "13:00"),
	)

	windows, err := MutualWindows(q)
	require.NoError(t, err)
	require.Len(t, windows, 1)

	w := windows[0]
	assert.True(t, w.Start.Equal(at(t, monday, "10:00", "UTC")))
	assert.True(t, w.End.Equal(at(t, monday, "12:00", "UTC")))
	assert.Equal(t, 2*time.Hour, w.Duration())
	assert.Equal(t, 3*time.Hour, w.UserSlotSpan)
	assert.Equal(t, 3*time.Hour, w.FriendSlotSpan)
	assert.Equal(t, monday, w.Date)
}

func TestMutualWindows_CalendarEventDropsWholeWindow(t *testing.T) {
	q := sameZoneQuery(t,
		recurring(t, time.Monday, "09:00", "12:00"),
		recurring(t, time.Monday, "10:00", "13:00"),
	)
	q.User.Busy = []Interval{{Start: at(t, monday, "10:30", "UTC"), End: at(t, monday, "11:00", "UTC")}}

	windows, err := MutualWindows(q)
	require.NoError(t, err)
	assert.NotNil(t, windows)
	assert.Empty(t, windows)
}

func TestMutualWindows_CrossZone(t *testing.T) {
	q := DayQuery{
		Date:     monday,
		User:     Party{Timezone: "America/New_York", Slots: []*Slot{recurring(t, time.Monday, "09:00", "17:00")}},
		Friend:   Party{Timezone: "Europe/London", Slots: []*Slot{recurring(t, time.Monday, "09:00", "17:00")}},
		Duration: 60 * time.Minute,
		Buffer:   DefaultBuffer,
	}

	windows, err := MutualWindows(q)
	require.NoError(t, err)
	require.Len(t, windows, 1)

	w := windows[0]
	// London 14:00-17:00 is New York 09:00-12:00 in January.
	assert.Equal(t, "America/New_York", w.Start.Location().String())
	assert.Equal(t, 9, w.Start.Hour())
	assert.Equal(t, 12, w.End.Hour())
	assert.True(t, w.Start.Equal(at(t, monday, "14:00", "Europe/London")))
	assert.Equal(t, 3*time.Hour, w.Duration())
}

func TestMutualWindows_Threshold(t *testing.T) {
	// Overlap 10:00-11:30 is exactly 60 + 2*15 minutes.
	exact := sameZoneQuery(t,
		recurring(t, time.Monday, "09:00", "11:30"),
		recurring(t, time.Monday, "10:00", "13:00"),
	)
	windows, err := MutualWindows(exact)
	require.NoError(t, err)
	assert.Len(t, windows, 1)

	short := sameZoneQuery(t,
		recurring(t, time.Monday, "09:00", "11:29"),
		recurring(t, time.Monday, "10:00", "13:00"),
	)
	windows, err = MutualWindows(short)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestMutualWindows_TouchingBusyBlocksDoNotConflict(t *testing.T) {
	q := sameZoneQuery(t,
		recurring(t, time.Monday, "09:00", "12:00"),
		recurring(t, time.Monday, "10:00", "13:00"),
	)
	q.User.Busy = []Interval{{Start: at(t, monday, "09:00", "UTC"), End: at(t, monday, "10:00", "UTC")}}
	q.Friend.Busy = []Interval{{Start: at(t, monday, "12:00", "UTC"), End: at(t, monday, "13:00", "UTC")}}

	windows, err := MutualWindows(q)
	require.NoError(t, err)
	assert.Len(t, windows, 1)

	q.Friend.Busy = []Interval{{Start: at(t, monday, "11:59", "UTC"), End: at(t, monday, "13:00", "UTC")}}
	windows, err = MutualWindows(q)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestMutualWindows_AllApplicableSlotsPair(t *testing.T) {
	user := []*Slot{
		recurring(t, time.Monday, "08:00", "10:00"),
		recurring(t, time.Monday, "14:00", "18:00"),
		recurring(t, time.Tuesday, "08:00", "18:00"),
	}
	dated, err := NewDateSlot(uuid.New(), monday, MustClockTime("19:00"), MustClockTime("22:00"), testNow)
	require.NoError(t, err)
	friend := []*Slot{recurring(t, time.Monday, "08:00", "17:00"), dated}

	windows, err := MutualWindows(DayQuery{
		Date:     monday,
		User:     Party{Timezone: "UTC", Slots: append(user, mustDated(t, "19:30", "21:30"))},
		Friend:   Party{Timezone: "UTC", Slots: friend},
		Duration: 60 * time.Minute,
		Buffer:   DefaultBuffer,
	})
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, 8, windows[0].Start.Hour())
	assert.Equal(t, 14, windows[1].Start.Hour())
	assert.Equal(t, 19, windows[2].Start.Hour())
	assert.Equal(t, 30, windows[2].Start.Minute())
}

func mustDated(t *testing.T, start, end string) *Slot {
	t.Helper()
	s, err := NewDateSlot(uuid.New(), monday, MustClockTime(start), MustClockTime(end), testNow)
	require.NoError(t, err)
	return s
}

func TestMutualWindows_InactiveSlotsIgnored(t *testing.T) {
	userSlot := recurring(t, time.Monday, "09:00", "12:00")
	userSlot.Deactivate(testNow)

	windows, err := MutualWindows(sameZoneQuery(t, userSlot, recurring(t, time.Monday, "09:00", "12:00")))
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestMutualWindows_DSTDay(t *testing.T) {
	// 2024-03-10: clocks jump from 02:00 to 03:00 in New York.
	q := DayQuery{
		Date:     "2024-03-10",
		User:     Party{Timezone: "America/New_York", Slots: []*Slot{recurring(t, time.Sunday, "00:00", "06:00")}},
		Friend:   Party{Timezone: "America/New_York", Slots: []*Slot{recurring(t, time.Sunday, "00:00", "06:00")}},
		Duration: 60 * time.Minute,
		Buffer:   DefaultBuffer,
	}
	windows, err := MutualWindows(q)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, 5*time.Hour, windows[0].Duration())
}

func TestMutualWindows_Errors(t *testing.T) {
	q := sameZoneQuery(t, recurring(t, time.Monday, "09:00", "12:00"), recurring(t, time.Monday, "09:00", "12:00"))

	bad := q
	bad.User.Timezone = "Moon/Base"
	_, err := MutualWindows(bad)
	assert.ErrorIs(t, err, timezone.ErrInvalidTimezone)

	bad = q
	bad.Duration = 0
	_, err = MutualWindows(bad)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	bad = q
	bad.Date = "15/01/2024"
	_, err = MutualWindows(bad)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestInterval(t *testing.T) {
	base := at(t, monday, "10:00", "UTC")
	a := Interval{Start: base, End: base.Add(time.Hour)}
	b := Interval{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
	c := Interval{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)}

	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
	assert.True(t, a.Overlaps(c))

	_, ok := a.Intersect(b)
	assert.False(t, ok)
	got, ok := a.Intersect(c)
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, got.Duration())
}

func TestExceptionIntervals(t *testing.T) {
	e, err := NewException(uuid.New(), monday, MustClockTime("12:00"), MustClockTime("13:00"), "lunch", testNow)
	require.NoError(t, err)

	busy, err := ExceptionIntervals([]*Exception{e}, "Europe/London")
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.True(t, busy[0].Start.Equal(at(t, monday, "12:00", "Europe/London")))

	_, err = ExceptionIntervals(nil, "Nowhere/Else")
	assert.ErrorIs(t, err, timezone.ErrInvalidTimezone)
}
