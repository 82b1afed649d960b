package domain

import (
	"time"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

const (
	WeightBothPreferred       = 0.4
	WeightTimezoneConvenience = 0.3
	WeightAvailabilityOverlap = 0.2
	WeightBufferAdequacy      = 0.1

	// PatternBonus is added for pattern candidates when the pair has history.
	PatternBonus = 0.3
)

var (
	preferredWindow = TimeRange{Start: 9 * 60, End: 18 * 60}
	convenientStart = TimeRange{Start: 10 * 60, End: 16 * 60}
)

// ScorerConfig tunes the scorer. With UsePartyPreferences unset both sides
// of bothPreferred are checked against the fixed 09:00-18:00 window; set, each
// party is checked against its own preferred ranges in its own zone.
type ScorerConfig struct {
	UsePartyPreferences bool
}

// ScoreInput is everything the scorer looks at besides the candidate.
type ScoreInput struct {
	User       *UserPattern
	Friend     *UserPattern
	HasHistory bool
}

// Breakdown holds the weighted factors before clamping.
type Breakdown struct {
	BothPreferred       float64
	TimezoneConvenience float64
	AvailabilityOverlap float64
	BufferAdequacy      float64
	Bonus               float64
}

// Total is the clamped weighted sum.
func (b Breakdown) Total() float64 {
	sum := WeightBothPreferred*b.BothPreferred +
		WeightTimezoneConvenience*b.TimezoneConvenience +
		WeightAvailabilityOverlap*b.AvailabilityOverlap +
		WeightBufferAdequacy*b.BufferAdequacy +
		b.Bonus
	return clamp(sum)
}

// Scorer assigns confidences. It holds no state between calls.
type Scorer struct {
	config ScorerConfig
}

func NewScorer(config ScorerConfig) *Scorer {
	return &Scorer{config: config}
}

// Score sets slot's Confidence and Reasoning and returns the breakdown.
func (s *Scorer) Score(slot *MutualTimeSlot, in ScoreInput) Breakdown {
	b := Breakdown{
		BothPreferred:       s.bothPreferred(slot, in),
		TimezoneConvenience: timezoneConvenience(slot),
		AvailabilityOverlap: overlapRatio(slot),
		BufferAdequacy:      bufferAdequacy(slot),
	}
	if slot.PatternBased && in.HasHistory {
		b.Bonus = PatternBonus
	}
	slot.Confidence = b.Total()
	slot.Reasoning = reasoning(slot, b)
	return b
}

func (s *Scorer) bothPreferred(slot *MutualTimeSlot, in ScoreInput) float64 {
	start := availability.ClockOf(slot.StartTime)
	if !s.config.UsePartyPreferences {
		user := preferredWindow.Contains(start)
		friend := preferredWindow.Contains(start)
		if user && friend {
			return 1
		}
		return 0
	}

	hits := 0.0
	if in.User != nil && inRanges(in.User.PreferredTimeRanges, start) {
		hits++
	}
	if in.Friend != nil {
		friendStart := start
		if loc, err := timezone.Load(slot.FriendTimezone); err == nil {
			friendStart = availability.ClockOf(slot.StartTime.In(loc))
		}
		if inRanges(in.Friend.PreferredTimeRanges, friendStart) {
			hits++
		}
	}
	return hits / 2
}

func inRanges(ranges []TimeRange, c availability.ClockTime) bool {
	for _, r := range ranges {
		if r.Contains(c) {
			return true
		}
	}
	return false
}

func timezoneConvenience(slot *MutualTimeSlot) float64 {
	if slot.UserTimezone == slot.FriendTimezone {
		return 1
	}
	if convenientStart.Contains(availability.ClockOf(slot.StartTime)) {
		return 0.8
	}
	return 0.5
}

func overlapRatio(slot *MutualTimeSlot) float64 {
	longest := max(slot.UserSlotSpan, slot.FriendSlotSpan)
	if longest <= 0 {
		return 0
	}
	return clamp(float64(slot.Duration()) / float64(longest))
}

func bufferAdequacy(slot *MutualTimeSlot) float64 {
	actual := min(slot.BufferBefore, slot.BufferAfter)
	return clamp(float64(actual) / float64(availability.DefaultBuffer))
}

func reasoning(slot *MutualTimeSlot, b Breakdown) []string {
	out := make([]string, 0, 4)
	if slot.Confidence > 0.8 {
		out = append(out, "Optimal time for both users")
	}
	switch {
	case b.BothPreferred == 1:
		out = append(out, "Within preferred hours")
	case b.BothPreferred > 0:
		out = append(out, "Within preferred hours for one of you")
	}
	if b.TimezoneConvenience == 1 {
		out = append(out, "Same timezone")
	} else if b.TimezoneConvenience >= 0.8 {
		out = append(out, "Convenient across timezones")
	}
	if b.Bonus > 0 {
		out = append(out, "Matches when you have met before")
	}
	switch d := slot.Duration(); {
	case d >= 3*time.Hour:
		out = append(out, "Plenty of time for a long hangout")
	case d >= time.Hour:
		out = append(out, "Enough time for a relaxed meetup")
	default:
		out = append(out, "Short window, good for a quick catch-up")
	}
	return out
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}
