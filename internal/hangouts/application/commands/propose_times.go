package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	sharedApplication "github.com/felixgeelhaar/rendezvous/internal/shared/application"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/outbox"
)

// ProposeTimesCommand opens a pending hangout and offers the friend a set of
// times. The hangout is provisionally scheduled at the first time.
type ProposeTimesCommand struct {
	UserID          uuid.UUID
	FriendID        uuid.UUID
	Title           string
	DurationMinutes int
	Times           []domain.ProposedTime
}

func (c ProposeTimesCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if c.FriendID == uuid.Nil {
		return errors.New("friend_id is required")
	}
	if c.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be positive")
	}
	if len(c.Times) == 0 {
		return domain.ErrNoProposedTimes
	}
	return nil
}

// ProposeTimesResult contains the pending hangout.
type ProposeTimesResult struct {
	HangoutID uuid.UUID
	Proposed  int
}

// ProposeTimesHandler handles ProposeTimesCommand.
type ProposeTimesHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewProposeTimesHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ProposeTimesHandler {
	return &ProposeTimesHandler{repo: repo, outboxRepo: outboxRepo, uow: uow}
}

func (h *ProposeTimesHandler) Handle(ctx context.Context, cmd ProposeTimesCommand) (*ProposeTimesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	first := cmd.Times[0]
	start, err := availability.ParseClockTime(first.StartTime)
	if err != nil {
		return nil, err
	}

	var result *ProposeTimesResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		now := time.Now().UTC()
		hangout, err := domain.NewHangout(cmd.UserID, cmd.FriendID, cmd.Title, first.Date, start,
			time.Duration(cmd.DurationMinutes)*time.Minute, now)
		if err != nil {
			return err
		}
		if err := hangout.ProposeTimes(cmd.Times, now); err != nil {
			return err
		}
		if err := saveWithEvents(txCtx, h.repo, h.outboxRepo, hangout, cmd.UserID); err != nil {
			return err
		}
		result = &ProposeTimesResult{HangoutID: hangout.ID(), Proposed: len(cmd.Times)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
