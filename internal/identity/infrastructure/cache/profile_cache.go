// Package cache keeps a read-through copy of profiles in Redis. The cache
// is best effort: Redis failures fall through to the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/rendezvous/internal/identity/domain"
)

// DefaultTTL bounds how stale a cached profile may get.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "rendezvous:profile:"

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type cachedProfile struct {
	DisplayName string    `json:"display_name"`
	Timezone    string    `json:"timezone"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileRepository decorates a store with Redis.
type ProfileRepository struct {
	inner  domain.ProfileRepository
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewProfileRepository(inner domain.ProfileRepository, client Client, ttl time.Duration, logger *slog.Logger) *ProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func key(userID uuid.UUID) string { return keyPrefix + userID.String() }

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	raw, err := r.client.Get(ctx, key(userID)).Bytes()
	switch {
	case err == nil:
		var c cachedProfile
		if jsonErr := json.Unmarshal(raw, &c); jsonErr == nil {
			return domain.RehydrateProfile(userID, c.DisplayName, c.Timezone, c.UpdatedAt), nil
		}
		r.logger.Warn("discarding corrupt cached profile", "user_id", userID)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("profile cache read failed", "user_id", userID, "error", err)
	}

	p, err := r.inner.FindByUserID(ctx, userID)
	if err != nil || p == nil {
		return p, err
	}

	payload, err := json.Marshal(cachedProfile{
		DisplayName: p.DisplayName(),
		Timezone:    p.Timezone(),
		UpdatedAt:   p.UpdatedAt(),
	})
	if err == nil {
		if err := r.client.Set(ctx, key(userID), payload, r.ttl).Err(); err != nil {
			r.logger.Warn("profile cache write failed", "user_id", userID, "error", err)
		}
	}
	return p, nil
}

// Save writes through and drops the cached copy.
func (r *ProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	if err := r.inner.Save(ctx, p); err != nil {
		return err
	}
	if err := r.client.Del(ctx, key(p.UserID())).Err(); err != nil {
		r.logger.Warn("profile cache invalidation failed", "user_id", p.UserID(), "error", err)
	}
	return nil
}

var _ domain.ProfileRepository = (*ProfileRepository)(nil)
