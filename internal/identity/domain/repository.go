package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository stores profiles.
type ProfileRepository interface {
	// FindByUserID returns nil, nil when the user has no profile.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
}
