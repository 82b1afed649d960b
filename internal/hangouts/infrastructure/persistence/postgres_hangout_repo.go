package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

const hangoutColumns = `id, organizer_id, friend_id, title, status, scheduled_date, scheduled_minute, duration_minutes, created_at, updated_at`

// PostgresHangoutRepository implements domain.Repository on PostgreSQL.
type PostgresHangoutRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresHangoutRepository(pool *pgxpool.Pool) *PostgresHangoutRepository {
	return &PostgresHangoutRepository{pool: pool}
}

func (r *PostgresHangoutRepository) Save(ctx context.Context, h *domain.Hangout) error {
	date, err := availability.ParseDate(h.ScheduledDate())
	if err != nil {
		return err
	}
	_, err = persistence.Pg(ctx, r.pool).Exec(ctx, `
		INSERT INTO hangouts (`+hangoutColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			scheduled_date = EXCLUDED.scheduled_date,
			scheduled_minute = EXCLUDED.scheduled_minute,
			duration_minutes = EXCLUDED.duration_minutes,
			updated_at = EXCLUDED.updated_at
	`, h.ID(), h.OrganizerID(), h.FriendID(), h.Title(), string(h.Status()), date,
		h.ScheduledTime().Minutes(), h.DurationMinutes(), h.CreatedAt(), h.UpdatedAt())
	if err != nil {
		return fmt.Errorf("save hangout: %w", err)
	}
	return nil
}

func (r *PostgresHangoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Hangout, error) {
	rows, err := persistence.Pg(ctx, r.pool).Query(ctx, `SELECT `+hangoutColumns+` FROM hangouts WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	hangouts, err := scanPgHangouts(rows)
	if err != nil {
		return nil, err
	}
	if len(hangouts) == 0 {
		return nil, domain.ErrHangoutNotFound
	}
	return hangouts[0], nil
}

func (r *PostgresHangoutRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Hangout, error) {
	rows, err := persistence.Pg(ctx, r.pool).Query(ctx, `
		SELECT `+hangoutColumns+`
		FROM hangouts
		WHERE organizer_id = $1 OR friend_id = $1
		ORDER BY scheduled_date, scheduled_minute, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return scanPgHangouts(rows)
}

func scanPgHangouts(rows pgx.Rows) ([]*domain.Hangout, error) {
	defer rows.Close()

	out := make([]*domain.Hangout, 0)
	for rows.Next() {
		var (
			id, organizerID, friendID  uuid.UUID
			title, status              string
			date, createdAt, updatedAt time.Time
			minute, duration           int
		)
		if err := rows.Scan(&id, &organizerID, &friendID, &title, &status, &date, &minute, &duration, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		h, err := domain.RehydrateHangout(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
			organizerID, friendID, title, domain.Status(status), date.Format(availability.DateLayout),
			availability.ClockTime(minute), time.Duration(duration)*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("hangout %s: %w", id, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
