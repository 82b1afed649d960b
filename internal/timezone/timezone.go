// Package timezone converts between IANA zones and builds zoned instants
// for civil dates.
package timezone

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultTimezone is used when neither a profile nor the host provide a zone.
const DefaultTimezone = "UTC"

const (
	dateLayout      = "2006-01-02"
	locationCacheSz = 256
)

var ErrInvalidTimezone = errors.New("invalid timezone")

var locations *lru.Cache[string, *time.Location]

func init() {
	cache, err := lru.New[string, *time.Location](locationCacheSz)
	if err != nil {
		panic(fmt.Sprintf("timezone: location cache: %v", err))
	}
	locations = cache
}

// Load resolves an IANA identifier. Empty names are rejected rather than
// silently mapped to UTC.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrInvalidTimezone)
	}
	if loc, ok := locations.Get(name); ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	locations.Add(name, loc)
	return loc, nil
}

// IsValid reports whether name is a loadable IANA identifier.
func IsValid(name string) bool {
	_, err := Load(name)
	return err == nil
}

// Local returns the host's zone name, honouring TZ, falling back to UTC.
func Local() string {
	if tz := os.Getenv("TZ"); tz != "" && IsValid(tz) {
		return tz
	}
	name := time.Local.String()
	if name == "" || name == "Local" || !IsValid(name) {
		return DefaultTimezone
	}
	return name
}

// OffsetOf renders the UTC offset of tz at instant as "+HH:MM".
// The offset is the difference between the instant's wall clock in tz and
// the same instant's wall clock in UTC.
func OffsetOf(tz string, instant time.Time) (string, error) {
	loc, err := Load(tz)
	if err != nil {
		return "", err
	}
	local := instant.In(loc)
	utc := instant.UTC()
	wallLocal := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, time.UTC)
	wallUTC := time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), 0, 0, time.UTC)
	return formatOffset(wallLocal.Sub(wallUTC)), nil
}

func formatOffset(d time.Duration) string {
	sign := '+'
	if d < 0 {
		sign = '-'
		d = -d
	}
	total := int(d.Minutes())
	return fmt.Sprintf("%c%02d:%02d", sign, total/60, total%60)
}

// Abbreviation returns the zone abbreviation in effect at instant ("EST", "BST").
func Abbreviation(tz string, instant time.Time) (string, error) {
	loc, err := Load(tz)
	if err != nil {
		return "", err
	}
	name, _ := instant.In(loc).Zone()
	return name, nil
}

// Convert interprets t's wall clock as a time in fromTz and returns the same
// instant expressed in toTz.
func Convert(t time.Time, fromTz, toTz string) (time.Time, error) {
	from, err := Load(fromTz)
	if err != nil {
		return time.Time{}, err
	}
	to, err := Load(toTz)
	if err != nil {
		return time.Time{}, err
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), from)
	return wall.In(to), nil
}

// ZonedDate builds the absolute instant for a civil date ("2006-01-02") and
// wall time ("15:04" or "15:04:05") pinned to tz. DST gaps and folds are
// resolved by the IANA rules through time.Date.
func ZonedDate(dateStr, timeStr, tz string) (time.Time, error) {
	loc, err := Load(tz)
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	h, m, s, err := parseWallTime(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, loc), nil
}

// At pins a civil date plus minutes-since-midnight to loc.
func At(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minutes, 0, 0, loc)
}

func parseWallTime(value string) (int, int, int, error) {
	layouts := []string{"15:04:05", "15:04"}
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Hour(), t.Minute(), t.Second(), nil
		}
	}
	return 0, 0, 0, fmt.Errorf("invalid time %q, use HH:MM", value)
}

// Format renders t in tz for display, e.g. "2024-01-15 14:00 EST (-05:00)".
func Format(t time.Time, tz string) (string, error) {
	loc, err := Load(tz)
	if err != nil {
		return "", err
	}
	local := t.In(loc)
	offset, err := OffsetOf(tz, t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)", local.Format("2006-01-02 15:04 MST"), offset), nil
}

// CivilDate returns t's calendar date in loc as "2006-01-02".
func CivilDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}
