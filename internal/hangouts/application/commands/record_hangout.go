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

// RecordHangoutCommand adds a hangout to the history. Completed marks a
// meeting that already took place.
type RecordHangoutCommand struct {
	UserID          uuid.UUID
	FriendID        uuid.UUID
	Title           string
	Date            string
	StartTime       string
	DurationMinutes int
	Completed       bool
}

func (c RecordHangoutCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if c.FriendID == uuid.Nil {
		return errors.New("friend_id is required")
	}
	if c.Date == "" || c.StartTime == "" {
		return errors.New("date and start_time are required")
	}
	if c.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be positive")
	}
	return nil
}

// RecordHangoutResult contains the stored hangout.
type RecordHangoutResult struct {
	HangoutID uuid.UUID
	Status    domain.Status
}

// RecordHangoutHandler handles RecordHangoutCommand.
type RecordHangoutHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewRecordHangoutHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RecordHangoutHandler {
	return &RecordHangoutHandler{repo: repo, outboxRepo: outboxRepo, uow: uow}
}

func (h *RecordHangoutHandler) Handle(ctx context.Context, cmd RecordHangoutCommand) (*RecordHangoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	start, err := availability.ParseClockTime(cmd.StartTime)
	if err != nil {
		return nil, err
	}

	var result *RecordHangoutResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		now := time.Now().UTC()
		hangout, err := domain.NewHangout(cmd.UserID, cmd.FriendID, cmd.Title, cmd.Date, start,
			time.Duration(cmd.DurationMinutes)*time.Minute, now)
		if err != nil {
			return err
		}
		if cmd.Completed {
			if err := hangout.Complete(now); err != nil {
				return err
			}
		}
		if err := saveWithEvents(txCtx, h.repo, h.outboxRepo, hangout, cmd.UserID); err != nil {
			return err
		}
		result = &RecordHangoutResult{HangoutID: hangout.ID(), Status: hangout.Status()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
