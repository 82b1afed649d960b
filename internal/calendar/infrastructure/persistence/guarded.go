package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/resilience"
)

// GuardedEventRepository routes event storage through a circuit breaker.
type GuardedEventRepository struct {
	inner   domain.EventRepository
	breaker *resilience.Breaker
}

func NewGuardedEventRepository(inner domain.EventRepository, breaker *resilience.Breaker) *GuardedEventRepository {
	return &GuardedEventRepository{inner: inner, breaker: breaker}
}

func (r *GuardedEventRepository) FindByUsersAndRange(ctx context.Context, userIDs []uuid.UUID, start, end time.Time) ([]*domain.Event, error) {
	return resilience.Do(r.breaker, func() ([]*domain.Event, error) {
		return r.inner.FindByUsersAndRange(ctx, userIDs, start, end)
	})
}

func (r *GuardedEventRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Event, error) {
	return resilience.Do(r.breaker, func() ([]*domain.Event, error) {
		return r.inner.FindByUserAndRange(ctx, userID, start, end)
	})
}

func (r *GuardedEventRepository) SaveAll(ctx context.Context, events []*domain.Event) error {
	return resilience.Run(r.breaker, func() error { return r.inner.SaveAll(ctx, events) })
}

func (r *GuardedEventRepository) DeleteMissing(ctx context.Context, userID uuid.UUID, source domain.Source, from, to time.Time, keep []string) (int64, error) {
	return resilience.Do(r.breaker, func() (int64, error) {
		return r.inner.DeleteMissing(ctx, userID, source, from, to, keep)
	})
}

func (r *GuardedEventRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return resilience.Do(r.breaker, func() (int64, error) { return r.inner.DeleteByUser(ctx, userID) })
}

var (
	_ domain.EventRepository = (*GuardedEventRepository)(nil)
	_ domain.EventRepository = (*SQLiteEventRepository)(nil)
	_ domain.EventRepository = (*PostgresEventRepository)(nil)
)
