package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/rendezvous/internal/shared/application"
)

// ReplaceWeeklyCommand swaps a user's recurring slots for a new set. Dated
// slots are left alone.
type ReplaceWeeklyCommand struct {
	UserID uuid.UUID
	Slots  []SlotInput
}

func (c ReplaceWeeklyCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	for _, s := range c.Slots {
		if s.DayOfWeek == nil || s.Date != "" {
			return errors.New("weekly slots need a day_of_week and no date")
		}
	}
	return nil
}

// ReplaceWeeklyHandler handles ReplaceWeeklyCommand.
type ReplaceWeeklyHandler struct {
	repo domain.SlotRepository
	uow  sharedApplication.UnitOfWork
}

func NewReplaceWeeklyHandler(repo domain.SlotRepository, uow sharedApplication.UnitOfWork) *ReplaceWeeklyHandler {
	return &ReplaceWeeklyHandler{repo: repo, uow: uow}
}

// Handle returns the number of slots written.
func (h *ReplaceWeeklyHandler) Handle(ctx context.Context, cmd ReplaceWeeklyCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	slots := make([]*domain.Slot, 0, len(cmd.Slots))
	for _, in := range cmd.Slots {
		s, err := in.build(cmd.UserID, now)
		if err != nil {
			return 0, err
		}
		slots = append(slots, s)
	}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.repo.FindByUser(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		for _, s := range existing {
			if !s.IsRecurring() {
				continue
			}
			if err := h.repo.Delete(txCtx, s.ID()); err != nil {
				return err
			}
		}
		for _, s := range slots {
			if err := h.repo.Save(txCtx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}
