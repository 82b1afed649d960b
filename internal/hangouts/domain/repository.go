package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores hangouts.
type Repository interface {
	Save(ctx context.Context, h *Hangout) error
	FindByID(ctx context.Context, id uuid.UUID) (*Hangout, error)
	// FindByUser returns hangouts where the user is organizer or friend,
	// ordered by scheduled date and time. The result is never nil.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Hangout, error)
}
