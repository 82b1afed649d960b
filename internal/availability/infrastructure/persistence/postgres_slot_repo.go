package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

const pgSlotColumns = `id, user_id, day_of_week, specific_date, start_minute, end_minute, is_recurring, is_active, created_at, updated_at`

// PostgresSlotRepository implements domain.SlotRepository on PostgreSQL.
type PostgresSlotRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSlotRepository(pool *pgxpool.Pool) *PostgresSlotRepository {
	return &PostgresSlotRepository{pool: pool}
}

func (r *PostgresSlotRepository) Save(ctx context.Context, slot *domain.Slot) error {
	row := toSlotRow(slot)
	var date *time.Time
	if row.specificDate != "" {
		d, err := domain.ParseDate(row.specificDate)
		if err != nil {
			return err
		}
		date = &d
	}

	_, err := persistence.Pg(ctx, r.pool).Exec(ctx, `
		INSERT INTO availability_slots (`+pgSlotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			day_of_week = EXCLUDED.day_of_week,
			specific_date = EXCLUDED.specific_date,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			is_recurring = EXCLUDED.is_recurring,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`, row.id, row.userID, row.dayOfWeek, date, row.startMinute, row.endMinute,
		row.recurring, row.active, row.createdAt, row.updatedAt)
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

func (r *PostgresSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	rows, err := persistence.Pg(ctx, r.pool).Query(ctx,
		`SELECT `+pgSlotColumns+` FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	slots, err := scanPgSlots(rows)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, domain.ErrSlotNotFound
	}
	return slots[0], nil
}

func (r *PostgresSlotRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Slot, error) {
	rows, err := persistence.Pg(ctx, r.pool).Query(ctx, `
		SELECT `+pgSlotColumns+`
		FROM availability_slots
		WHERE user_id = $1
		ORDER BY COALESCE(day_of_week, EXTRACT(DOW FROM specific_date)::smallint), specific_date NULLS FIRST, start_minute, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return scanPgSlots(rows)
}

func (r *PostgresSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := persistence.Pg(ctx, r.pool).Exec(ctx, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

func scanPgSlots(rows pgx.Rows) ([]*domain.Slot, error) {
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		var (
			row  slotRow
			day  *int16
			date *time.Time
		)
		if err := rows.Scan(&row.id, &row.userID, &day, &date, &row.startMinute, &row.endMinute,
			&row.recurring, &row.active, &row.createdAt, &row.updatedAt); err != nil {
			return nil, err
		}
		if day != nil {
			d := int(*day)
			row.dayOfWeek = &d
		}
		if date != nil {
			row.specificDate = date.Format(domain.DateLayout)
		}
		slot, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", row.id, err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// PostgresExceptionRepository implements domain.ExceptionRepository on PostgreSQL.
type PostgresExceptionRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresExceptionRepository(pool *pgxpool.Pool) *PostgresExceptionRepository {
	return &PostgresExceptionRepository{pool: pool}
}

func (r *PostgresExceptionRepository) Save(ctx context.Context, e *domain.Exception) error {
	date, err := domain.ParseDate(e.Date())
	if err != nil {
		return err
	}
	_, err = persistence.Pg(ctx, r.pool).Exec(ctx, `
		INSERT INTO availability_exceptions (id, user_id, exception_date, start_minute, end_minute, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			exception_date = EXCLUDED.exception_date,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			reason = EXCLUDED.reason
	`, e.ID(), e.UserID(), date, e.Start().Minutes(), e.End().Minutes(), e.Reason(), e.CreatedAt())
	if err != nil {
		return fmt.Errorf("save exception: %w", err)
	}
	return nil
}

func (r *PostgresExceptionRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to string) ([]*domain.Exception, error) {
	fromDate, err := domain.ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := domain.ParseDate(to)
	if err != nil {
		return nil, err
	}

	rows, err := persistence.Pg(ctx, r.pool).Query(ctx, `
		SELECT id, user_id, exception_date, start_minute, end_minute, reason, created_at
		FROM availability_exceptions
		WHERE user_id = $1 AND exception_date BETWEEN $2 AND $3
		ORDER BY exception_date, start_minute
	`, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Exception, 0)
	for rows.Next() {
		var row exceptionRow
		var date time.Time
		if err := rows.Scan(&row.id, &row.userID, &date, &row.startMinute, &row.endMinute, &row.reason, &row.createdAt); err != nil {
			return nil, err
		}
		row.date = date.Format(domain.DateLayout)
		e, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("exception %s: %w", row.id, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresExceptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := persistence.Pg(ctx, r.pool).Exec(ctx, `DELETE FROM availability_exceptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExceptionNotFound
	}
	return nil
}
