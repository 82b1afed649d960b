package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

const eventColumns = `id, user_id, external_id, source, title, start_time, end_time, created_at, updated_at`

// PostgresEventRepository implements domain.EventRepository on PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

func (r *PostgresEventRepository) FindByUsersAndRange(ctx context.Context, userIDs []uuid.UUID, start, end time.Time) ([]*domain.Event, error) {
	if len(userIDs) == 0 {
		return []*domain.Event{}, nil
	}
	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	rows, err := persistence.Pg(ctx, r.pool).Query(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE user_id = ANY($1::uuid[]) AND start_time < $3 AND end_time > $2
		ORDER BY start_time, id
	`, pq.Array(ids), start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query calendar events: %w", err)
	}
	return scanPgEvents(rows)
}

func (r *PostgresEventRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Event, error) {
	return r.FindByUsersAndRange(ctx, []uuid.UUID{userID}, start, end)
}

func (r *PostgresEventRepository) SaveAll(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(`
			INSERT INTO calendar_events (`+eventColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id, external_id) DO UPDATE SET
				source = EXCLUDED.source,
				title = EXCLUDED.title,
				start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time,
				updated_at = EXCLUDED.updated_at
		`, e.ID(), e.UserID(), e.ExternalID(), string(e.Source()), e.Title(),
			e.StartTime(), e.EndTime(), e.CreatedAt(), e.UpdatedAt())
	}

	results := persistence.Pg(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()
	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save calendar events: %w", err)
		}
	}
	return nil
}

func (r *PostgresEventRepository) DeleteMissing(ctx context.Context, userID uuid.UUID, source domain.Source, from, to time.Time, keep []string) (int64, error) {
	if keep == nil {
		keep = []string{}
	}
	tag, err := persistence.Pg(ctx, r.pool).Exec(ctx, `
		DELETE FROM calendar_events
		WHERE user_id = $1 AND source = $2 AND start_time < $4 AND end_time > $3
			AND NOT (external_id = ANY($5::text[]))
	`, userID, string(source), from.UTC(), to.UTC(), pq.Array(keep))
	if err != nil {
		return 0, fmt.Errorf("delete stale calendar events: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresEventRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := persistence.Pg(ctx, r.pool).Exec(ctx, `DELETE FROM calendar_events WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanPgEvents(rows pgx.Rows) ([]*domain.Event, error) {
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		var (
			id, userID                       uuid.UUID
			externalID, source, title        string
			start, end, createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &userID, &externalID, &source, &title, &start, &end, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		e, err := domain.RehydrateEvent(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
			userID, externalID, domain.Source(source), title, start, end)
		if err != nil {
			return nil, fmt.Errorf("calendar event %s: %w", id, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
