package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/resilience"
)

// GuardedHangoutRepository routes hangout storage through a circuit breaker.
type GuardedHangoutRepository struct {
	inner   domain.Repository
	breaker *resilience.Breaker
}

func NewGuardedHangoutRepository(inner domain.Repository, breaker *resilience.Breaker) *GuardedHangoutRepository {
	return &GuardedHangoutRepository{inner: inner, breaker: breaker}
}

func (r *GuardedHangoutRepository) Save(ctx context.Context, h *domain.Hangout) error {
	return resilience.Run(r.breaker, func() error { return r.inner.Save(ctx, h) })
}

func (r *GuardedHangoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Hangout, error) {
	return resilience.Do(r.breaker, func() (*domain.Hangout, error) { return r.inner.FindByID(ctx, id) })
}

func (r *GuardedHangoutRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Hangout, error) {
	return resilience.Do(r.breaker, func() ([]*domain.Hangout, error) { return r.inner.FindByUser(ctx, userID) })
}

var (
	_ domain.Repository = (*GuardedHangoutRepository)(nil)
	_ domain.Repository = (*SQLiteHangoutRepository)(nil)
	_ domain.Repository = (*PostgresHangoutRepository)(nil)
)
