package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	sharedApplication "github.com/felixgeelhaar/rendezvous/internal/shared/application"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/outbox"
)

// Action is a lifecycle step requested by a participant.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionDecline  Action = "decline"
)

// ChangeStatusCommand moves a hangout through its lifecycle. Date and
// StartTime are only read by ActionConfirm and may be empty to keep the
// proposed time.
type ChangeStatusCommand struct {
	UserID    uuid.UUID
	HangoutID uuid.UUID
	Action    Action
	Date      string
	StartTime string
}

func (c ChangeStatusCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if c.HangoutID == uuid.Nil {
		return errors.New("hangout_id is required")
	}
	switch c.Action {
	case ActionConfirm, ActionComplete, ActionCancel, ActionDecline:
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
	if c.Action == ActionConfirm && (c.Date == "") != (c.StartTime == "") {
		return errors.New("date and start_time must be given together")
	}
	return nil
}

// ChangeStatusHandler handles ChangeStatusCommand.
type ChangeStatusHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewChangeStatusHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangeStatusHandler {
	return &ChangeStatusHandler{repo: repo, outboxRepo: outboxRepo, uow: uow}
}

func (h *ChangeStatusHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) (domain.Status, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	var status domain.Status
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		hangout, err := h.repo.FindByID(txCtx, cmd.HangoutID)
		if err != nil {
			return err
		}
		if !hangout.Involves(cmd.UserID) {
			return domain.ErrNotParticipant
		}
		if err := apply(hangout, cmd, time.Now().UTC()); err != nil {
			return err
		}
		if err := saveWithEvents(txCtx, h.repo, h.outboxRepo, hangout, cmd.UserID); err != nil {
			return err
		}
		status = hangout.Status()
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func apply(h *domain.Hangout, cmd ChangeStatusCommand, now time.Time) error {
	switch cmd.Action {
	case ActionConfirm:
		if cmd.Date == "" {
			return h.Confirm("", 0, now)
		}
		start, err := availability.ParseClockTime(cmd.StartTime)
		if err != nil {
			return err
		}
		return h.Confirm(cmd.Date, start, now)
	case ActionComplete:
		return h.Complete(now)
	case ActionCancel:
		return h.Cancel(now)
	default:
		// Only the invited friend can turn a hangout down.
		if cmd.UserID != h.FriendID() {
			return domain.ErrNotParticipant
		}
		return h.Decline(now)
	}
}
