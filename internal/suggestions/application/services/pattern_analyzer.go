package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	hangouts "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	"github.com/felixgeelhaar/rendezvous/internal/suggestions/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

const (
	preferredDayCount = 4
	commonDayCount    = 3
	topStartTimes     = 3
)

// ZoneResolver returns a user's zone.
type ZoneResolver interface {
	Timezone(ctx context.Context, userID uuid.UUID) (string, error)
}

// PatternAnalyzer mines availability rows and completed hangouts. It never
// fails: unreadable history degrades to domain.DefaultUserPattern for a
// user and to no history for a pair.
type PatternAnalyzer struct {
	slots    availability.SlotRepository
	hangouts hangouts.Repository
	zones    ZoneResolver
	logger   *slog.Logger
}

func NewPatternAnalyzer(slots availability.SlotRepository, hangoutRepo hangouts.Repository, zones ZoneResolver, logger *slog.Logger) *PatternAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternAnalyzer{slots: slots, hangouts: hangoutRepo, zones: zones, logger: logger}
}

// AnalyzeUser builds a user's pattern.
func (a *PatternAnalyzer) AnalyzeUser(ctx context.Context, userID uuid.UUID) *domain.UserPattern {
	tz, err := a.zones.Timezone(ctx, userID)
	if err != nil {
		return a.degraded(userID, timezone.Local(), err)
	}
	slots, err := a.slots.FindByUser(ctx, userID)
	if err != nil {
		return a.degraded(userID, tz, err)
	}
	history, err := a.hangouts.FindByUser(ctx, userID)
	if err != nil {
		return a.degraded(userID, tz, err)
	}

	var dayCounts, meetingCounts [7]int
	ranges := make([]domain.TimeRange, 0)
	seen := map[domain.TimeRange]bool{}
	for _, s := range slots {
		if !s.IsActive() {
			continue
		}
		dayCounts[s.DayOfWeek()]++
		r := domain.TimeRange{Start: s.Start(), End: s.End(), Frequency: 1}
		if !seen[r] {
			seen[r] = true
			ranges = append(ranges, r)
		}
	}

	var total time.Duration
	completed := 0
	for _, h := range history {
		if h.Status() != hangouts.StatusCompleted {
			continue
		}
		day := h.Weekday()
		dayCounts[day]++
		meetingCounts[day]++
		total += h.Duration()
		completed++
	}

	avg := domain.DefaultMeetingDuration
	if completed > 0 {
		avg = total / time.Duration(completed)
	}
	return &domain.UserPattern{
		UserID:                 userID,
		PreferredDays:          domain.TopWeekdays(dayCounts, preferredDayCount),
		PreferredTimeRanges:    ranges,
		AverageMeetingDuration: avg,
		CommonMeetingDays:      domain.TopWeekdays(meetingCounts, 0),
		Timezone:               tz,
	}
}

func (a *PatternAnalyzer) degraded(userID uuid.UUID, tz string, err error) *domain.UserPattern {
	a.logger.Warn("pattern analysis degraded",
		"user_id", userID,
		"error", err,
	)
	return domain.DefaultUserPattern(userID, tz)
}

// AnalyzePair builds the pair's history from completed hangouts between
// them. It returns nil when they have not met or history is unreadable.
func (a *PatternAnalyzer) AnalyzePair(ctx context.Context, userID, friendID uuid.UUID) *domain.HistoricalPattern {
	mine, err := a.hangouts.FindByUser(ctx, userID)
	if err != nil {
		a.logger.Warn("mutual history unavailable", "user_id", userID, "friend_id", friendID, "error", err)
		return nil
	}
	theirs, err := a.hangouts.FindByUser(ctx, friendID)
	if err != nil {
		a.logger.Warn("mutual history unavailable", "user_id", userID, "friend_id", friendID, "error", err)
		return nil
	}

	seen := map[uuid.UUID]bool{}
	meetings := make([]domain.MeetingTime, 0)
	var days [7]int
	var total time.Duration
	for _, h := range append(mine, theirs...) {
		if seen[h.ID()] || h.Status() != hangouts.StatusCompleted || !between(h, userID, friendID) {
			continue
		}
		seen[h.ID()] = true
		day := h.Weekday()
		days[day]++
		total += h.Duration()
		meetings = append(meetings, domain.MeetingTime{
			Date:      h.ScheduledDate(),
			StartTime: h.ScheduledTime(),
			Duration:  h.Duration(),
			DayOfWeek: day,
		})
	}
	if len(meetings) == 0 {
		return nil
	}

	return &domain.HistoricalPattern{
		UserID:                 userID,
		FriendID:               friendID,
		SuccessfulMeetingTimes: meetings,
		PreferredDuration:      total / time.Duration(len(meetings)),
		CommonDays:             domain.TopWeekdays(days, commonDayCount),
		AverageNoticeTime:      domain.DefaultNoticeTime,
	}
}

func between(h *hangouts.Hangout, a, b uuid.UUID) bool {
	return (h.OrganizerID() == a && h.FriendID() == b) || (h.OrganizerID() == b && h.FriendID() == a)
}
