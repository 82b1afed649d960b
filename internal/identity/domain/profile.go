package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the part of a user account the scheduler reads: who they are
// and which zone their availability is written in.
type Profile struct {
	userID      uuid.UUID
	displayName string
	timezone    string
	updatedAt   time.Time
}

// NewProfile creates a profile. An empty timezone means "not set".
func NewProfile(userID uuid.UUID, displayName, tz string, now time.Time) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidProfile)
	}
	p := &Profile{
		userID:      userID,
		displayName: strings.TrimSpace(displayName),
		updatedAt:   now.UTC(),
	}
	if err := p.SetTimezone(tz, now); err != nil {
		return nil, err
	}
	return p, nil
}

// RehydrateProfile rebuilds a profile from storage without validation, so a
// zone later removed from the tz database still loads.
func RehydrateProfile(userID uuid.UUID, displayName, tz string, updatedAt time.Time) *Profile {
	return &Profile{
		userID:      userID,
		displayName: displayName,
		timezone:    tz,
		updatedAt:   updatedAt.UTC(),
	}
}

func (p *Profile) UserID() uuid.UUID    { return p.userID }
func (p *Profile) DisplayName() string  { return p.displayName }
func (p *Profile) Timezone() string     { return p.timezone }
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// SetTimezone changes the profile's IANA zone.
func (p *Profile) SetTimezone(tz string, now time.Time) error {
	tz = strings.TrimSpace(tz)
	if tz != "" {
		if _, err := timezone.Load(tz); err != nil {
			return err
		}
	}
	p.timezone = tz
	p.updatedAt = now.UTC()
	return nil
}

// Rename changes the display name.
func (p *Profile) Rename(name string, now time.Time) {
	p.displayName = strings.TrimSpace(name)
	p.updatedAt = now.UTC()
}

// EffectiveTimezone returns the profile zone, or fallback when unset.
func (p *Profile) EffectiveTimezone(fallback string) string {
	if p == nil || p.timezone == "" {
		return fallback
	}
	return p.timezone
}
