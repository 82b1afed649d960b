package domain

import (
	"context"

	"github.com/google/uuid"
)

// SlotRepository stores availability slots.
type SlotRepository interface {
	Save(ctx context.Context, slot *Slot) error
	FindByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	// FindByUser returns all of a user's slots, active or not, ordered by
	// weekday and start. The result is never nil.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Slot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExceptionRepository stores availability exceptions.
type ExceptionRepository interface {
	Save(ctx context.Context, exception *Exception) error
	// FindByUserAndRange returns exceptions dated from..to inclusive.
	FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to string) ([]*Exception, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
