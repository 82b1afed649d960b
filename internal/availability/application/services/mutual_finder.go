package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// ZoneResolver returns the zone a user's availability is written in.
type ZoneResolver interface {
	Timezone(ctx context.Context, userID uuid.UUID) (string, error)
}

// MutualRequest asks for the windows two users share between two civil
// dates, inclusive. A zero Buffer means DefaultBuffer.
type MutualRequest struct {
	UserID    uuid.UUID
	FriendID  uuid.UUID
	StartDate string
	EndDate   string
	Duration  time.Duration
	Buffer    time.Duration
}

func (r MutualRequest) Validate() error {
	if r.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if r.FriendID == uuid.Nil {
		return errors.New("friend_id is required")
	}
	if r.Duration <= 0 {
		return domain.ErrInvalidDuration
	}
	if r.Buffer < 0 {
		return errors.New("buffer must not be negative")
	}
	return nil
}

// MutualAvailability holds the viable windows, expressed in the user's zone.
type MutualAvailability struct {
	UserTimezone   string
	FriendTimezone string
	Windows        []domain.Window
}

// MutualFinder combines both users' slots, exceptions and calendar events
// into the windows they could meet in.
type MutualFinder struct {
	slots      domain.SlotRepository
	exceptions domain.ExceptionRepository
	events     calendarDomain.EventRepository
	zones      ZoneResolver
	logger     *slog.Logger
}

func NewMutualFinder(
	slots domain.SlotRepository,
	exceptions domain.ExceptionRepository,
	events calendarDomain.EventRepository,
	zones ZoneResolver,
	logger *slog.Logger,
) *MutualFinder {
	if logger == nil {
		logger = slog.Default()
	}
	return &MutualFinder{
		slots:      slots,
		exceptions: exceptions,
		events:     events,
		zones:      zones,
		logger:     logger,
	}
}

// FindMutualAvailability returns every viable window on every date of the
// request, in date order. Windows is never nil.
func (f *MutualFinder) FindMutualAvailability(ctx context.Context, req MutualRequest) (*MutualAvailability, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Buffer == 0 {
		req.Buffer = domain.DefaultBuffer
	}
	dates, err := domain.DatesBetween(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var (
		user, friend domain.Party
		events       []*calendarDomain.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := f.party(gctx, req.UserID, req.StartDate, req.EndDate)
		user = p
		return err
	})
	g.Go(func() error {
		p, err := f.party(gctx, req.FriendID, req.StartDate, req.EndDate)
		friend = p
		return err
	})
	g.Go(func() error {
		from, to := eventRange(req.StartDate, req.EndDate)
		found, err := f.events.FindByUsersAndRange(gctx, []uuid.UUID{req.UserID, req.FriendID}, from, to)
		if err != nil {
			return fmt.Errorf("load calendar events: %w", err)
		}
		events = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, e := range events {
		iv := domain.Interval{Start: e.StartTime(), End: e.EndTime()}
		switch e.UserID() {
		case req.UserID:
			user.Busy = append(user.Busy, iv)
		case req.FriendID:
			friend.Busy = append(friend.Busy, iv)
		}
	}

	result := &MutualAvailability{
		UserTimezone:   user.Timezone,
		FriendTimezone: friend.Timezone,
		Windows:        make([]domain.Window, 0),
	}
	for _, date := range dates {
		windows, err := domain.MutualWindows(domain.DayQuery{
			Date:     date,
			User:     user,
			Friend:   friend,
			Duration: req.Duration,
			Buffer:   req.Buffer,
		})
		if err != nil {
			return nil, err
		}
		result.Windows = append(result.Windows, windows...)
	}

	f.logger.Debug("mutual availability computed",
		"user_id", req.UserID,
		"friend_id", req.FriendID,
		"dates", len(dates),
		"windows", len(result.Windows),
	)
	return result, nil
}

// party loads one user's zone, slots and exceptions. Calendar events are
// attached by the caller.
func (f *MutualFinder) party(ctx context.Context, userID uuid.UUID, from, to string) (domain.Party, error) {
	tz, err := f.zones.Timezone(ctx, userID)
	if err != nil {
		return domain.Party{}, fmt.Errorf("resolve timezone for %s: %w", userID, err)
	}
	if _, err := timezone.Load(tz); err != nil {
		return domain.Party{}, err
	}

	slots, err := f.slots.FindByUser(ctx, userID)
	if err != nil {
		return domain.Party{}, fmt.Errorf("load slots for %s: %w", userID, err)
	}
	exceptions, err := f.exceptions.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return domain.Party{}, fmt.Errorf("load exceptions for %s: %w", userID, err)
	}
	busy, err := domain.ExceptionIntervals(exceptions, tz)
	if err != nil {
		return domain.Party{}, err
	}
	return domain.Party{Timezone: tz, Slots: slots, Busy: busy}, nil
}

// eventRange widens the civil range by a day on each side so that events
// in any zone are included.
func eventRange(startDate, endDate string) (time.Time, time.Time) {
	from, _ := domain.ParseDate(startDate)
	to, _ := domain.ParseDate(endDate)
	return from.AddDate(0, 0, -1), to.AddDate(0, 0, 2)
}
