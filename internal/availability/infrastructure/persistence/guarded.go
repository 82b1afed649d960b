package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/resilience"
)

// GuardedSlotRepository routes slot storage through a circuit breaker.
type GuardedSlotRepository struct {
	inner   domain.SlotRepository
	breaker *resilience.Breaker
}

func NewGuardedSlotRepository(inner domain.SlotRepository, breaker *resilience.Breaker) *GuardedSlotRepository {
	return &GuardedSlotRepository{inner: inner, breaker: breaker}
}

func (r *GuardedSlotRepository) Save(ctx context.Context, slot *domain.Slot) error {
	return resilience.Run(r.breaker, func() error { return r.inner.Save(ctx, slot) })
}

func (r *GuardedSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	return resilience.Do(r.breaker, func() (*domain.Slot, error) { return r.inner.FindByID(ctx, id) })
}

func (r *GuardedSlotRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Slot, error) {
	return resilience.Do(r.breaker, func() ([]*domain.Slot, error) { return r.inner.FindByUser(ctx, userID) })
}

func (r *GuardedSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return resilience.Run(r.breaker, func() error { return r.inner.Delete(ctx, id) })
}

// GuardedExceptionRepository routes exception storage through a circuit breaker.
type GuardedExceptionRepository struct {
	inner   domain.ExceptionRepository
	breaker *resilience.Breaker
}

func NewGuardedExceptionRepository(inner domain.ExceptionRepository, breaker *resilience.Breaker) *GuardedExceptionRepository {
	return &GuardedExceptionRepository{inner: inner, breaker: breaker}
}

func (r *GuardedExceptionRepository) Save(ctx context.Context, e *domain.Exception) error {
	return resilience.Run(r.breaker, func() error { return r.inner.Save(ctx, e) })
}

func (r *GuardedExceptionRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to string) ([]*domain.Exception, error) {
	return resilience.Do(r.breaker, func() ([]*domain.Exception, error) {
		return r.inner.FindByUserAndRange(ctx, userID, from, to)
	})
}

func (r *GuardedExceptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return resilience.Run(r.breaker, func() error { return r.inner.Delete(ctx, id) })
}

var (
	_ domain.SlotRepository      = (*GuardedSlotRepository)(nil)
	_ domain.ExceptionRepository = (*GuardedExceptionRepository)(nil)
	_ domain.SlotRepository      = (*SQLiteSlotRepository)(nil)
	_ domain.ExceptionRepository = (*SQLiteExceptionRepository)(nil)
	_ domain.SlotRepository      = (*PostgresSlotRepository)(nil)
	_ domain.ExceptionRepository = (*PostgresExceptionRepository)(nil)
)
