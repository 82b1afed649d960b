package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/identity/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// SetTimezoneCommand changes a user's zone, creating the profile if needed.
type SetTimezoneCommand struct {
	UserID   uuid.UUID
	Timezone string
}

// Validate validates the command.
func (c SetTimezoneCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if c.Timezone == "" {
		return errors.New("timezone is required")
	}
	return nil
}

// Service manages profiles and resolves the zone each user's availability
// is written in.
type Service struct {
	repo     domain.ProfileRepository
	fallback string
	now      func() time.Time
}

// NewService creates a profile service. Users without a zone resolve to
// fallback, or the machine's local zone when fallback is empty.
func NewService(repo domain.ProfileRepository, fallback string) *Service {
	if fallback == "" {
		fallback = timezone.Local()
	}
	return &Service{repo: repo, fallback: fallback, now: time.Now}
}

// Get returns a user's profile, nil when absent.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Timezone returns the user's zone or the fallback.
func (s *Service) Timezone(ctx context.Context, userID uuid.UUID) (string, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.EffectiveTimezone(s.fallback), nil
}

// SetTimezone executes the SetTimezoneCommand.
func (s *Service) SetTimezone(ctx context.Context, cmd SetTimezoneCommand) (*domain.Profile, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p, err = domain.NewProfile(cmd.UserID, "", cmd.Timezone, s.now())
	} else {
		err = p.SetTimezone(cmd.Timezone, s.now())
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename sets the display name, creating the profile if needed.
func (s *Service) Rename(ctx context.Context, userID uuid.UUID, name string) (*domain.Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		if p, err = domain.NewProfile(userID, name, "", s.now()); err != nil {
			return nil, err
		}
	} else {
		p.Rename(name, s.now())
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
