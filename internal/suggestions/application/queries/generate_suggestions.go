package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/suggestions/domain"
)

// GenerateSuggestionsQuery is the adapter-facing form of a suggestion
// request.
type GenerateSuggestionsQuery struct {
	UserID              uuid.UUID
	FriendID            uuid.UUID
	StartDate           string
	EndDate             string
	DurationMinutes     int
	BufferMinutes       int
	MaxSuggestions      int
	IncludeWeekends     *bool
	TimeOfDayPreference string
}

type SuggestionDTO struct {
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	StartsAt        string   `json:"starts_at"`
	Confidence      float64  `json:"confidence"`
	UserTimezone    string   `json:"user_timezone"`
	FriendTimezone  string   `json:"friend_timezone"`
	BufferBefore    int      `json:"buffer_before_minutes"`
	BufferAfter     int      `json:"buffer_after_minutes"`
	Source          string   `json:"source"`
	PatternBased    bool     `json:"pattern_based"`
	Reasoning       []string `json:"reasoning"`
	DurationMinutes int      `json:"duration_minutes"`
}

type TimeRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type UserPatternDTO struct {
	UserID                 uuid.UUID      `json:"user_id"`
	PreferredDays          []string       `json:"preferred_days"`
	PreferredTimeRanges    []TimeRangeDTO `json:"preferred_time_ranges"`
	AverageMeetingDuration int            `json:"average_meeting_duration_minutes"`
	CommonMeetingDays      []string       `json:"common_meeting_days"`
	Timezone               string         `json:"timezone"`
	Degraded               bool           `json:"degraded,omitempty"`
}

type MutualHistoryDTO struct {
	SuccessfulMeetings     int      `json:"successful_meetings"`
	PreferredDuration      int      `json:"preferred_duration_minutes"`
	CommonDays             []string `json:"common_days"`
	AverageNoticeTimeHours float64  `json:"average_notice_time_hours"`
}

// SuggestionsDTO is the response shape. MutualHistory is omitted when the
// pair has not met.
type SuggestionsDTO struct {
	Suggestions       []SuggestionDTO   `json:"suggestions"`
	TotalAnalyzed     int               `json:"total_analyzed"`
	PatternConfidence float64           `json:"pattern_confidence"`
	UserPatterns      UserPatternDTO    `json:"user_patterns"`
	FriendPatterns    UserPatternDTO    `json:"friend_patterns"`
	MutualHistory     *MutualHistoryDTO `json:"mutual_history,omitempty"`
}

// SuggestionGenerator is implemented by services.SuggestionEngine.
type SuggestionGenerator interface {
	GenerateSmartSuggestions(ctx context.Context, req domain.SuggestionRequest) (*domain.SuggestionResult, error)
}

// GenerateSuggestionsHandler handles GenerateSuggestionsQuery.
type GenerateSuggestionsHandler struct {
	engine SuggestionGenerator
}

func NewGenerateSuggestionsHandler(engine SuggestionGenerator) *GenerateSuggestionsHandler {
	return &GenerateSuggestionsHandler{engine: engine}
}

func (h *GenerateSuggestionsHandler) Handle(ctx context.Context, q GenerateSuggestionsQuery) (*SuggestionsDTO, error) {
	tod, err := domain.ParseTimeOfDay(q.TimeOfDayPreference)
	if err != nil {
		return nil, err
	}
	res, err := h.engine.GenerateSmartSuggestions(ctx, domain.SuggestionRequest{
		UserID:              q.UserID,
		FriendID:            q.FriendID,
		StartDate:           q.StartDate,
		EndDate:             q.EndDate,
		PreferredDuration:   q.DurationMinutes,
		BufferMinutes:       q.BufferMinutes,
		MaxSuggestions:      q.MaxSuggestions,
		IncludeWeekends:     q.IncludeWeekends,
		TimeOfDayPreference: tod,
	})
	if err != nil {
		return nil, err
	}

	out := &SuggestionsDTO{
		Suggestions:       make([]SuggestionDTO, 0, len(res.Suggestions)),
		TotalAnalyzed:     res.TotalAnalyzed,
		PatternConfidence: res.PatternConfidence,
		UserPatterns:      patternDTO(res.UserPattern),
		FriendPatterns:    patternDTO(res.FriendPattern),
	}
	for _, s := range res.Suggestions {
		out.Suggestions = append(out.Suggestions, SuggestionDTO{
			Date:            s.Date,
			StartTime:       s.StartTime.Format("15:04"),
			EndTime:         s.EndTime.Format("15:04"),
			StartsAt:        s.StartTime.Format(time.RFC3339),
			Confidence:      s.Confidence,
			UserTimezone:    s.UserTimezone,
			FriendTimezone:  s.FriendTimezone,
			BufferBefore:    minutes(s.BufferBefore),
			BufferAfter:     minutes(s.BufferAfter),
			Source:          string(s.Source),
			PatternBased:    s.PatternBased,
			Reasoning:       append([]string{}, s.Reasoning...),
			DurationMinutes: minutes(s.Duration()),
		})
	}
	if hist := res.MutualHistory; hist != nil {
		out.MutualHistory = &MutualHistoryDTO{
			SuccessfulMeetings:     len(hist.SuccessfulMeetingTimes),
			PreferredDuration:      minutes(hist.PreferredDuration),
			CommonDays:             dayNames(hist.CommonDays),
			AverageNoticeTimeHours: hist.AverageNoticeTime.Hours(),
		}
	}
	return out, nil
}

func patternDTO(p *domain.UserPattern) UserPatternDTO {
	if p == nil {
		return UserPatternDTO{PreferredDays: []string{}, PreferredTimeRanges: []TimeRangeDTO{}, CommonMeetingDays: []string{}}
	}
	ranges := make([]TimeRangeDTO, 0, len(p.PreferredTimeRanges))
	for _, r := range p.PreferredTimeRanges {
		ranges = append(ranges, TimeRangeDTO{Start: r.Start.String(), End: r.End.String()})
	}
	return UserPatternDTO{
		UserID:                 p.UserID,
		PreferredDays:          dayNames(p.PreferredDays),
		PreferredTimeRanges:    ranges,
		AverageMeetingDuration: minutes(p.AverageMeetingDuration),
		CommonMeetingDays:      dayNames(p.CommonMeetingDays),
		Timezone:               p.Timezone,
		Degraded:               p.Degraded,
	}
}

func dayNames(days []time.Weekday) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}

func minutes(d time.Duration) int { return int(d / time.Minute) }
