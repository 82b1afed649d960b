package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	availability "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

// SQLiteHangoutRepository implements domain.Repository on SQLite.
type SQLiteHangoutRepository struct {
	db *sql.DB
}

func NewSQLiteHangoutRepository(db *sql.DB) *SQLiteHangoutRepository {
	return &SQLiteHangoutRepository{db: db}
}

func (r *SQLiteHangoutRepository) Save(ctx context.Context, h *domain.Hangout) error {
	_, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, `
		INSERT INTO hangouts (`+hangoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			scheduled_date = excluded.scheduled_date,
			scheduled_minute = excluded.scheduled_minute,
			duration_minutes = excluded.duration_minutes,
			updated_at = excluded.updated_at
	`, h.ID().String(), h.OrganizerID().String(), h.FriendID().String(), h.Title(), string(h.Status()),
		h.ScheduledDate(), h.ScheduledTime().Minutes(), h.DurationMinutes(),
		persistence.SQLiteTime(h.CreatedAt()), persistence.SQLiteTime(h.UpdatedAt()))
	if err != nil {
		return fmt.Errorf("save hangout: %w", err)
	}
	return nil
}

func (r *SQLiteHangoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Hangout, error) {
	rows, err := persistence.SQLite(ctx, r.db).QueryContext(ctx, `SELECT `+hangoutColumns+` FROM hangouts WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	hangouts, err := scanSQLiteHangouts(rows)
	if err != nil {
		return nil, err
	}
	if len(hangouts) == 0 {
		return nil, domain.ErrHangoutNotFound
	}
	return hangouts[0], nil
}

func (r *SQLiteHangoutRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Hangout, error) {
	rows, err := persistence.SQLite(ctx, r.db).QueryContext(ctx, `
		SELECT `+hangoutColumns+`
		FROM hangouts
		WHERE organizer_id = ?1 OR friend_id = ?1
		ORDER BY scheduled_date, scheduled_minute, id
	`, userID.String())
	if err != nil {
		return nil, err
	}
	return scanSQLiteHangouts(rows)
}

func scanSQLiteHangouts(rows *sql.Rows) ([]*domain.Hangout, error) {
	defer rows.Close()

	out := make([]*domain.Hangout, 0)
	for rows.Next() {
		var (
			rawID, rawOrganizer, rawFriend string
			title, status, date            string
			createdAt, updatedAt           string
			minute, duration               int
		)
		if err := rows.Scan(&rawID, &rawOrganizer, &rawFriend, &title, &status, &date, &minute, &duration, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		h, err := sqliteHangout(rawID, rawOrganizer, rawFriend, title, status, date, minute, duration, createdAt, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("hangout %s: %w", rawID, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func sqliteHangout(rawID, rawOrganizer, rawFriend, title, status, date string, minute, duration int, createdAt, updatedAt string) (*domain.Hangout, error) {
	ids := make([]uuid.UUID, 3)
	for i, raw := range []string{rawID, rawOrganizer, rawFriend} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	created, err := persistence.ParseSQLiteTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := persistence.ParseSQLiteTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateHangout(sharedDomain.RehydrateBaseEntity(ids[0], created, updated),
		ids[1], ids[2], title, domain.Status(status), date,
		availability.ClockTime(minute), time.Duration(duration)*time.Minute)
}
