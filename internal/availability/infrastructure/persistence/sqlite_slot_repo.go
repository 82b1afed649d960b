package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

const sqliteSlotColumns = `id, user_id, day_of_week, specific_date, start_minute, end_minute, is_recurring, is_active, created_at, updated_at`

// SQLiteSlotRepository implements domain.SlotRepository on SQLite.
type SQLiteSlotRepository struct {
	db *sql.DB
}

func NewSQLiteSlotRepository(db *sql.DB) *SQLiteSlotRepository {
	return &SQLiteSlotRepository{db: db}
}

func (r *SQLiteSlotRepository) Save(ctx context.Context, slot *domain.Slot) error {
	row := toSlotRow(slot)
	var date sql.NullString
	if row.specificDate != "" {
		date = sql.NullString{String: row.specificDate, Valid: true}
	}

	_, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, `
		INSERT INTO availability_slots (`+sqliteSlotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			day_of_week = excluded.day_of_week,
			specific_date = excluded.specific_date,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			is_recurring = excluded.is_recurring,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`, row.id.String(), row.userID.String(), row.dayOfWeek, date, row.startMinute, row.endMinute,
		row.recurring, row.active, persistence.SQLiteTime(row.createdAt), persistence.SQLiteTime(row.updatedAt))
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

func (r *SQLiteSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	rows, err := persistence.SQLite(ctx, r.db).QueryContext(ctx,
		`SELECT `+sqliteSlotColumns+` FROM availability_slots WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	slots, err := scanSQLiteSlots(rows)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, domain.ErrSlotNotFound
	}
	return slots[0], nil
}

func (r *SQLiteSlotRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Slot, error) {
	rows, err := persistence.SQLite(ctx, r.db).QueryContext(ctx, `
		SELECT `+sqliteSlotColumns+`
		FROM availability_slots
		WHERE user_id = ?
		ORDER BY COALESCE(day_of_week, CAST(strftime('%w', specific_date) AS INTEGER)),
		         specific_date IS NOT NULL, specific_date, start_minute, id
	`, userID.String())
	if err != nil {
		return nil, err
	}
	return scanSQLiteSlots(rows)
}

func (r *SQLiteSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, `DELETE FROM availability_slots WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

func scanSQLiteSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		var row slotRow
		var id, userID, createdAt, updatedAt string
		var day sql.NullInt64
		var date sql.NullString
		if err := rows.Scan(&id, &userID, &day, &date, &row.startMinute, &row.endMinute,
			&row.recurring, &row.active, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := parseSQLiteIdentity(&row.id, &row.userID, id, userID); err != nil {
			return nil, err
		}
		if day.Valid {
			d := int(day.Int64)
			row.dayOfWeek = &d
		}
		row.specificDate = date.String
		var err error
		if row.createdAt, err = persistence.ParseSQLiteTime(createdAt); err != nil {
			return nil, err
		}
		if row.updatedAt, err = persistence.ParseSQLiteTime(updatedAt); err != nil {
			return nil, err
		}
		slot, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", id, err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func parseSQLiteIdentity(id, userID *uuid.UUID, rawID, rawUser string) error {
	var err error
	if *id, err = uuid.Parse(rawID); err != nil {
		return fmt.Errorf("invalid id %q: %w", rawID, err)
	}
	if *userID, err = uuid.Parse(rawUser); err != nil {
		return fmt.Errorf("invalid user id %q: %w", rawUser, err)
	}
	return nil
}

// SQLiteExceptionRepository implements domain.ExceptionRepository on SQLite.
type SQLiteExceptionRepository struct {
	db *sql.DB
}

func NewSQLiteExceptionRepository(db *sql.DB) *SQLiteExceptionRepository {
	return &SQLiteExceptionRepository{db: db}
}

func (r *SQLiteExceptionRepository) Save(ctx context.Context, e *domain.Exception) error {
	_, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, `
		INSERT INTO availability_exceptions (id, user_id, exception_date, start_minute, end_minute, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			exception_date = excluded.exception_date,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			reason = excluded.reason
	`, e.ID().String(), e.UserID().String(), e.Date(), e.Start().Minutes(), e.End().Minutes(), e.Reason(),
		persistence.SQLiteTime(e.CreatedAt()))
	if err != nil {
		return fmt.Errorf("save exception: %w", err)
	}
	return nil
}

func (r *SQLiteExceptionRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to string) ([]*domain.Exception, error) {
	rows, err := persistence.SQLite(ctx, r.db).QueryContext(ctx, `
		SELECT id, user_id, exception_date, start_minute, end_minute, reason, created_at
		FROM availability_exceptions
		WHERE user_id = ? AND exception_date BETWEEN ? AND ?
		ORDER BY exception_date, start_minute
	`, userID.String(), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Exception, 0)
	for rows.Next() {
		var row exceptionRow
		var id, user, createdAt string
		if err := rows.Scan(&id, &user, &row.date, &row.startMinute, &row.endMinute, &row.reason, &createdAt); err != nil {
			return nil, err
		}
		if err := parseSQLiteIdentity(&row.id, &row.userID, id, user); err != nil {
			return nil, err
		}
		var err error
		if row.createdAt, err = persistence.ParseSQLiteTime(createdAt); err != nil {
			return nil, err
		}
		e, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("exception %s: %w", id, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteExceptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, `DELETE FROM availability_exceptions WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrExceptionNotFound
	}
	return nil
}
