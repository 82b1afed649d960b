package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

// SQLiteEventRepository implements domain.EventRepository on SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) FindByUsersAndRange(ctx context.Context, userIDs []uuid.UUID, start, end time.Time) ([]*domain.Event, error) {
	if len(userIDs) == 0 {
		return []*domain.Event{}, nil
	}
	placeholders := make([]string, len(userIDs))
	args := make([]any, 0, len(userIDs)+2)
	for i, id := range userIDs {
		placeholders[i] = "?"
		args = append(args, id.String())
	}
	args = append(args, persistence.SQLiteTime(end), persistence.SQLiteTime(start))

	rows, err := persistence.SQLite(ctx, r.db).QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE user_id IN (`+strings.Join(placeholders, ", ")+`) AND start_time < ? AND end_time > ?
		ORDER BY start_time, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query calendar events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		var id, userID, externalID, source, title, startAt, endAt, createdAt, updatedAt string
		if err := rows.Scan(&id, &userID, &externalID, &source, &title, &startAt, &endAt, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		e, err := sqliteEvent(id, userID, externalID, source, title, startAt, endAt, createdAt, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("calendar event %s: %w", id, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Event, error) {
	return r.FindByUsersAndRange(ctx, []uuid.UUID{userID}, start, end)
}

func (r *SQLiteEventRepository) SaveAll(ctx context.Context, events []*domain.Event) error {
	exec := persistence.SQLite(ctx, r.db)
	for _, e := range events {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO calendar_events (`+eventColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, external_id) DO UPDATE SET
				source = excluded.source,
				title = excluded.title,
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				updated_at = excluded.updated_at
		`, e.ID().String(), e.UserID().String(), e.ExternalID(), string(e.Source()), e.Title(),
			persistence.SQLiteTime(e.StartTime()), persistence.SQLiteTime(e.EndTime()),
			persistence.SQLiteTime(e.CreatedAt()), persistence.SQLiteTime(e.UpdatedAt()))
		if err != nil {
			return fmt.Errorf("save calendar event %s: %w", e.ExternalID(), err)
		}
	}
	return nil
}

func (r *SQLiteEventRepository) DeleteMissing(ctx context.Context, userID uuid.UUID, source domain.Source, from, to time.Time, keep []string) (int64, error) {
	query := `DELETE FROM calendar_events WHERE user_id = ? AND source = ? AND start_time < ? AND end_time > ?`
	args := []any{userID.String(), string(source), persistence.SQLiteTime(to), persistence.SQLiteTime(from)}
	if len(keep) > 0 {
		placeholders := make([]string, len(keep))
		for i, id := range keep {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += ` AND external_id NOT IN (` + strings.Join(placeholders, ", ") + `)`
	}

	res, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete stale calendar events: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteEventRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, `DELETE FROM calendar_events WHERE user_id = ?`, userID.String())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func sqliteEvent(id, userID, externalID, source, title, startAt, endAt, createdAt, updatedAt string) (*domain.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 4)
	for i, raw := range []string{startAt, endAt, createdAt, updatedAt} {
		if times[i], err = persistence.ParseSQLiteTime(raw); err != nil {
			return nil, err
		}
	}
	return domain.RehydrateEvent(sharedDomain.RehydrateBaseEntity(eventID, times[2], times[3]),
		owner, externalID, domain.Source(source), title, times[0], times[1])
}
