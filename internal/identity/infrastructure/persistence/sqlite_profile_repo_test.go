package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/rendezvous/internal/identity/domain"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, migrations.RunSQLite(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteProfileRepository(setupTestDB(t))
	userID := uuid.New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("missing profile is nil without error", func(t *testing.T) {
		p, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	p, err := domain.NewProfile(userID, "Ana", "Europe/London", now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, p.SetTimezone("America/New_York", now.Add(time.Hour)))
	require.NoError(t, repo.Save(ctx, p))

	loaded, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Ana", loaded.DisplayName())
	assert.Equal(t, "America/New_York", loaded.Timezone())
	assert.True(t, loaded.UpdatedAt().Equal(now.Add(time.Hour)))
}
