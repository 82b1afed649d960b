package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

// AddSlotCommand adds one availability slot.
type AddSlotCommand struct {
	UserID uuid.UUID
	Slot   SlotInput
}

func (c AddSlotCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	return nil
}

// AddSlotHandler handles AddSlotCommand.
type AddSlotHandler struct {
	repo domain.SlotRepository
}

func NewAddSlotHandler(repo domain.SlotRepository) *AddSlotHandler {
	return &AddSlotHandler{repo: repo}
}

func (h *AddSlotHandler) Handle(ctx context.Context, cmd AddSlotCommand) (uuid.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return uuid.Nil, err
	}
	slot, err := cmd.Slot.build(cmd.UserID, time.Now().UTC())
	if err != nil {
		return uuid.Nil, err
	}
	if err := h.repo.Save(ctx, slot); err != nil {
		return uuid.Nil, err
	}
	return slot.ID(), nil
}
