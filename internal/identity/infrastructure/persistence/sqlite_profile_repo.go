package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/identity/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

// SQLiteProfileRepository implements domain.ProfileRepository on SQLite.
type SQLiteProfileRepository struct {
	db *sql.DB
}

func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

func (r *SQLiteProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var name, tz, updatedAt string
	err := persistence.SQLite(ctx, r.db).QueryRowContext(ctx,
		`SELECT display_name, timezone, updated_at FROM profiles WHERE user_id = ?`, userID.String(),
	).Scan(&name, &tz, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	at, err := persistence.ParseSQLiteTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateProfile(userID, name, tz, at), nil
}

func (r *SQLiteProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	_, err := persistence.SQLite(ctx, r.db).ExecContext(ctx, `
		INSERT INTO profiles (user_id, display_name, timezone, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = excluded.display_name,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at
	`, p.UserID().String(), p.DisplayName(), p.Timezone(), persistence.SQLiteTime(p.UpdatedAt()))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
