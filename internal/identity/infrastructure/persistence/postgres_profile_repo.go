package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/rendezvous/internal/identity/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
)

// PostgresProfileRepository implements domain.ProfileRepository on PostgreSQL.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var (
		name, tz  string
		updatedAt time.Time
	)
	err := persistence.Pg(ctx, r.pool).QueryRow(ctx,
		`SELECT display_name, timezone, updated_at FROM profiles WHERE user_id = $1`, userID,
	).Scan(&name, &tz, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return domain.RehydrateProfile(userID, name, tz, updatedAt), nil
}

func (r *PostgresProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	_, err := persistence.Pg(ctx, r.pool).Exec(ctx, `
		INSERT INTO profiles (user_id, display_name, timezone, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			timezone = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at
	`, p.UserID(), p.DisplayName(), p.Timezone(), p.UpdatedAt())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
