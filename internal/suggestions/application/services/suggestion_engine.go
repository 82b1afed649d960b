package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	availabilityServices "github.com/felixgeelhaar/rendezvous/internal/availability/application/services"
	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/suggestions/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// MutualFinder is implemented by the availability context's MutualFinder.
type MutualFinder interface {
	FindMutualAvailability(ctx context.Context, req availabilityServices.MutualRequest) (*availabilityServices.MutualAvailability, error)
}

// EngineConfig holds request defaults.
type EngineConfig struct {
	DefaultDuration       time.Duration
	DefaultBuffer         time.Duration
	DefaultMaxSuggestions int
	Scorer                domain.ScorerConfig
}

// DefaultEngineConfig returns a one-hour meeting, a 15 minute buffer and
// five suggestions.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultDuration:       domain.DefaultDurationMinutes * time.Minute,
		DefaultBuffer:         availability.DefaultBuffer,
		DefaultMaxSuggestions: domain.DefaultMaxSuggestions,
	}
}

// SuggestionEngine ranks candidate times for two users.
type SuggestionEngine struct {
	finder   MutualFinder
	analyzer *PatternAnalyzer
	scorer   *domain.Scorer
	config   EngineConfig
	logger   *slog.Logger
}

func NewSuggestionEngine(finder MutualFinder, analyzer *PatternAnalyzer, config EngineConfig, logger *slog.Logger) *SuggestionEngine {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultEngineConfig()
	if config.DefaultDuration <= 0 {
		config.DefaultDuration = defaults.DefaultDuration
	}
	if config.DefaultBuffer <= 0 {
		config.DefaultBuffer = defaults.DefaultBuffer
	}
	if config.DefaultMaxSuggestions <= 0 {
		config.DefaultMaxSuggestions = defaults.DefaultMaxSuggestions
	}
	return &SuggestionEngine{
		finder:   finder,
		analyzer: analyzer,
		scorer:   domain.NewScorer(config.Scorer),
		config:   config,
		logger:   logger,
	}
}

// GenerateSmartSuggestions fetches both patterns, the pair's history and
// their mutual availability concurrently, then scores and ranks every
// candidate. Availability, calendar and profile failures are returned
// wrapped in domain.ErrSuggestionGenerationFailed.
func (e *SuggestionEngine) GenerateSmartSuggestions(ctx context.Context, req domain.SuggestionRequest) (*domain.SuggestionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.WithDefaults(e.config.DefaultDuration, e.config.DefaultBuffer, e.config.DefaultMaxSuggestions)
	dates, err := availability.DatesBetween(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var (
		userPattern, friendPattern *domain.UserPattern
		history                    *domain.HistoricalPattern
		mutual                     *availabilityServices.MutualAvailability
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		userPattern = e.analyzer.AnalyzeUser(gctx, req.UserID)
		return nil
	})
	g.Go(func() error {
		friendPattern = e.analyzer.AnalyzeUser(gctx, req.FriendID)
		return nil
	})
	g.Go(func() error {
		history = e.analyzer.AnalyzePair(gctx, req.UserID, req.FriendID)
		return nil
	})
	g.Go(func() error {
		res, err := e.finder.FindMutualAvailability(gctx, availabilityServices.MutualRequest{
			UserID:    req.UserID,
			FriendID:  req.FriendID,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Duration:  req.Duration(),
			Buffer:    req.Buffer(),
		})
		mutual = res
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSuggestionGenerationFailed, err)
	}

	userLoc, err := timezone.Load(mutual.UserTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSuggestionGenerationFailed, err)
	}
	friendLoc, err := timezone.Load(mutual.FriendTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSuggestionGenerationFailed, err)
	}
	set := candidateSet{
		dates:     dates,
		userTz:    mutual.UserTimezone,
		friendTz:  mutual.FriendTimezone,
		userLoc:   userLoc,
		friendLoc: friendLoc,
		duration:  req.Duration(),
		buffer:    req.Buffer(),
	}

	candidates := set.fromAvailability(mutual.Windows)
	candidates = append(candidates, set.fromHistory(history)...)
	candidates = append(candidates, set.fromPreferences(userPattern, friendPattern)...)
	candidates = filter(candidates, req)

	in := domain.ScoreInput{User: userPattern, Friend: friendPattern, HasHistory: history != nil}
	for i := range candidates {
		e.scorer.Score(&candidates[i], in)
	}
	slices.SortStableFunc(candidates, func(a, b domain.MutualTimeSlot) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})

	result := &domain.SuggestionResult{
		TotalAnalyzed:     len(candidates),
		PatternConfidence: domain.PatternConfidence(userPattern, friendPattern, history),
		UserPattern:       userPattern,
		FriendPattern:     friendPattern,
		MutualHistory:     history,
	}
	if len(candidates) > req.MaxSuggestions {
		candidates = candidates[:req.MaxSuggestions]
	}
	result.Suggestions = candidates

	e.logger.Debug("suggestions generated",
		"user_id", req.UserID,
		"friend_id", req.FriendID,
		"analyzed", result.TotalAnalyzed,
		"returned", len(result.Suggestions),
	)
	return result, nil
}
