package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

// SetSlotActiveCommand hides a slot from matching or brings it back.
type SetSlotActiveCommand struct {
	UserID uuid.UUID
	SlotID uuid.UUID
	Active bool
}

// DeleteSlotCommand removes a slot for good.
type DeleteSlotCommand struct {
	UserID uuid.UUID
	SlotID uuid.UUID
}

// SlotHandler handles commands on an existing slot. Slots owned by another
// user are reported as not found.
type SlotHandler struct {
	repo domain.SlotRepository
}

func NewSlotHandler(repo domain.SlotRepository) *SlotHandler {
	return &SlotHandler{repo: repo}
}

func (h *SlotHandler) SetActive(ctx context.Context, cmd SetSlotActiveCommand) error {
	slot, err := h.owned(ctx, cmd.UserID, cmd.SlotID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if cmd.Active {
		slot.Activate(now)
	} else {
		slot.Deactivate(now)
	}
	return h.repo.Save(ctx, slot)
}

func (h *SlotHandler) Delete(ctx context.Context, cmd DeleteSlotCommand) error {
	if _, err := h.owned(ctx, cmd.UserID, cmd.SlotID); err != nil {
		return err
	}
	return h.repo.Delete(ctx, cmd.SlotID)
}

func (h *SlotHandler) owned(ctx context.Context, userID, slotID uuid.UUID) (*domain.Slot, error) {
	if userID == uuid.Nil || slotID == uuid.Nil {
		return nil, errors.New("user_id and slot_id are required")
	}
	slot, err := h.repo.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.UserID() != userID {
		return nil, domain.ErrSlotNotFound
	}
	return slot, nil
}
