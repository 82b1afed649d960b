package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/identity/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/resilience"
)

// GuardedProfileRepository routes profile storage through a circuit breaker.
type GuardedProfileRepository struct {
	inner   domain.ProfileRepository
	breaker *resilience.Breaker
}

func NewGuardedProfileRepository(inner domain.ProfileRepository, breaker *resilience.Breaker) *GuardedProfileRepository {
	return &GuardedProfileRepository{inner: inner, breaker: breaker}
}

func (r *GuardedProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return resilience.Do(r.breaker, func() (*domain.Profile, error) { return r.inner.FindByUserID(ctx, userID) })
}

func (r *GuardedProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	return resilience.Run(r.breaker, func() error { return r.inner.Save(ctx, p) })
}

var (
	_ domain.ProfileRepository = (*GuardedProfileRepository)(nil)
	_ domain.ProfileRepository = (*SQLiteProfileRepository)(nil)
	_ domain.ProfileRepository = (*PostgresProfileRepository)(nil)
)
