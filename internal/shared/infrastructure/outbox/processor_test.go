package outbox_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/outbox"
)

type flakyPublisher struct {
	mu       sync.Mutex
	failKeys map[string]bool
	sent     []eventbus.Envelope
}

func newFlakyPublisher(failKeys ...string) *flakyPublisher {
	p := &flakyPublisher{failKeys: map[string]bool{}}
	for _, k := range failKeys {
		p.failKeys[k] = true
	}
	return p
}

func (p *flakyPublisher) Publish(_ context.Context, env eventbus.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failKeys[env.RoutingKey] {
		return errors.New("broker unavailable")
	}
	p.sent = append(p.sent, env)
	return nil
}

func (p *flakyPublisher) Close() error { return nil }

func (p *flakyPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func newSQLiteOutbox(t *testing.T) (*outbox.SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLite(context.Background(), db))
	return outbox.NewSQLiteRepository(db), db
}

func message(routingKey string, at time.Time) *outbox.Message {
	return &outbox.Message{
		EventID:       uuid.New(),
		AggregateType: "Hangout",
		AggregateID:   uuid.New(),
		EventType:     routingKey,
		RoutingKey:    routingKey,
		Payload:       []byte(`{"ok":true}`),
		Metadata:      []byte(`{}`),
		CreatedAt:     at,
	}
}

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func TestProcessor_PublishesAndMarks(t *testing.T) {
	repo, _ := newSQLiteOutbox(t)
	ctx := context.Background()
	first, second := message("hangouts.times.proposed", t0), message("hangouts.hangout.completed", t0.Add(time.Second))
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{first, second}))

	pub := newFlakyPublisher()
	p := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), nil)
	p.SetClock(func() time.Time { return t0.Add(time.Minute) })

	require.NoError(t, p.ProcessOnce(ctx))

	require.Equal(t, 2, pub.count())
	assert.Equal(t, first.EventID.String(), pub.sent[0].MessageID)
	assert.Equal(t, "hangouts.times.proposed", pub.sent[0].RoutingKey)
	assert.JSONEq(t, `{"ok":true}`, string(pub.sent[0].Payload))

	left, err := repo.GetUnpublished(ctx, 10, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, uint64(2), p.GetStats().PublishedCount)
}

func TestProcessor_RetriesThenDeadLetters(t *testing.T) {
	repo, db := newSQLiteOutbox(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{message("broken", t0)}))

	cfg := outbox.DefaultProcessorConfig()
	cfg.MaxRetries = 2
	now := t0
	p := outbox.NewProcessor(repo, newFlakyPublisher("broken"), cfg, nil)
	p.SetClock(func() time.Time { return now })

	require.NoError(t, p.ProcessOnce(ctx))
	assert.Equal(t, uint64(1), p.GetStats().FailedCount)

	// Still backing off.
	pending, err := repo.GetUnpublished(ctx, 10, now)
	require.NoError(t, err)
	assert.Empty(t, pending)

	now = t0.Add(time.Hour)
	pending, err = repo.GetUnpublished(ctx, 10, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "broker unavailable", *pending[0].LastError)

	require.NoError(t, p.ProcessOnce(ctx))
	assert.Equal(t, uint64(1), p.GetStats().DeadCount)
	assert.Equal(t, "broker unavailable", p.GetStats().LastError)

	var reason string
	require.NoError(t, db.QueryRow(`SELECT dead_letter_reason FROM outbox`).Scan(&reason))
	assert.Equal(t, "broker unavailable", reason)
}

func TestProcessor_RetryBackoff(t *testing.T) {
	cfg := outbox.ProcessorConfig{RetryBackoffBase: time.Second, RetryBackoffMax: 10 * time.Second}
	p := outbox.NewProcessor(nil, nil, cfg, nil)

	assert.Equal(t, time.Second, p.RetryBackoff(1))
	assert.Equal(t, 2*time.Second, p.RetryBackoff(2))
	assert.Equal(t, 8*time.Second, p.RetryBackoff(4))
	assert.Equal(t, 10*time.Second, p.RetryBackoff(5))
	assert.Equal(t, 10*time.Second, p.RetryBackoff(60))
}

func TestProcessor_Cleanup(t *testing.T) {
	repo, _ := newSQLiteOutbox(t)
	ctx := context.Background()
	old, fresh := message("a", t0), message("b", t0)
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{old, fresh}))
	require.NoError(t, repo.MarkPublished(ctx, old.ID, t0))
	require.NoError(t, repo.MarkPublished(ctx, fresh.ID, t0.Add(10*24*time.Hour)))

	cfg := outbox.DefaultProcessorConfig()
	p := outbox.NewProcessor(repo, newFlakyPublisher(), cfg, nil)
	p.SetClock(func() time.Time { return t0.Add(12 * 24 * time.Hour) })

	removed, err := p.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestProcessor_StartStop(t *testing.T) {
	repo, _ := newSQLiteOutbox(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{message("tick", time.Now().Add(-time.Second))}))

	pub := newFlakyPublisher()
	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	p := outbox.NewProcessor(repo, pub, cfg, nil)

	p.Start(ctx)
	p.Start(ctx)
	assert.True(t, p.IsRunning())

	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.False(t, p.GetStats().IsRunning)
}
