package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	sharedApplication "github.com/felixgeelhaar/rendezvous/internal/shared/application"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// EventSource reads busy blocks for a user from somewhere outside the app.
// An import replaces everything previously imported from the same source
// in the imported range.
type EventSource interface {
	Source() domain.Source
	Events(ctx context.Context, userID uuid.UUID, from, to time.Time, loc *time.Location) ([]*domain.Event, error)
}

// ZoneResolver returns the zone floating calendar times are read in.
type ZoneResolver interface {
	Timezone(ctx context.Context, userID uuid.UUID) (string, error)
}

// ImportCommand imports a user's events intersecting [From, To).
type ImportCommand struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

// Validate validates the command.
func (c ImportCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if !c.From.Before(c.To) {
		return errors.New("from must be before to")
	}
	return nil
}

// ImportResult reports what an import stored.
type ImportResult struct {
	Imported int
	Removed  int64
	Timezone string
}

// ImportService copies external busy blocks into the event store.
type ImportService struct {
	repo   domain.EventRepository
	zones  ZoneResolver
	uow    sharedApplication.UnitOfWork
	logger *slog.Logger
}

func NewImportService(repo domain.EventRepository, zones ZoneResolver, uow sharedApplication.UnitOfWork, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{repo: repo, zones: zones, uow: uow, logger: logger}
}

// Import reads src, upserts every block and drops blocks from the same
// source in range that src no longer reports, in one transaction.
func (s *ImportService) Import(ctx context.Context, cmd ImportCommand, src EventSource) (*ImportResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	tz, err := s.zones.Timezone(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}
	loc, err := timezone.Load(tz)
	if err != nil {
		return nil, err
	}

	events, err := src.Events(ctx, cmd.UserID, cmd.From, cmd.To, loc)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}

	keep := make([]string, 0, len(events))
	for _, e := range events {
		keep = append(keep, e.ExternalID())
	}

	var removed int64
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.repo.SaveAll(txCtx, events); err != nil {
			return err
		}
		n, err := s.repo.DeleteMissing(txCtx, cmd.UserID, src.Source(), cmd.From, cmd.To, keep)
		removed = n
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("calendar imported", "user_id", cmd.UserID, "source", src.Source(), "events", len(events), "removed", removed, "timezone", tz)
	return &ImportResult{Imported: len(events), Removed: removed, Timezone: tz}, nil
}

// Clear removes every imported block for a user.
func (s *ImportService) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, errors.New("user_id is required")
	}
	return s.repo.DeleteByUser(ctx, userID)
}
