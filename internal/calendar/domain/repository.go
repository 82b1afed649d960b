package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventRepository stores imported busy blocks. Range lookups return events
// intersecting [start, end), ordered by start time, never nil.
type EventRepository interface {
	FindByUsersAndRange(ctx context.Context, userIDs []uuid.UUID, start, end time.Time) ([]*Event, error)
	FindByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*Event, error)
	// SaveAll upserts by (user, external id).
	SaveAll(ctx context.Context, events []*Event) error
	// DeleteMissing removes the user's events from source intersecting
	// [from, to) whose external id is not in keep.
	DeleteMissing(ctx context.Context, userID uuid.UUID, source Source, from, to time.Time, keep []string) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
