package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/calendar/application"
)

// DefaultImportInterval is the default interval between import cycles.
const DefaultImportInterval = 15 * time.Minute

// DefaultLookAheadDays is how far ahead to import busy blocks.
const DefaultLookAheadDays = 30

// DefaultMaxImportErrors is the number of consecutive failed cycles before
// the worker gives up.
const DefaultMaxImportErrors = 5

// ErrTooManyFailures is returned by Run after repeated failed cycles.
var ErrTooManyFailures = errors.New("calendar import failed repeatedly")

// Importer stores events read from a source.
type Importer interface {
	Import(ctx context.Context, cmd application.ImportCommand, src application.EventSource) (*application.ImportResult, error)
}

// CalendarImportWorkerConfig configures the import worker.
type CalendarImportWorkerConfig struct {
	Interval        time.Duration
	LookAheadDays   int
	MaxImportErrors int
}

// DefaultImportWorkerConfig returns the default configuration.
func DefaultImportWorkerConfig() CalendarImportWorkerConfig {
	return CalendarImportWorkerConfig{
		Interval:        DefaultImportInterval,
		LookAheadDays:   DefaultLookAheadDays,
		MaxImportErrors: DefaultMaxImportErrors,
	}
}

// CalendarImportWorker periodically pulls busy blocks from an external
// calendar for a fixed set of users.
type CalendarImportWorker struct {
	importer Importer
	source   application.EventSource
	users    []uuid.UUID
	config   CalendarImportWorkerConfig
	logger   *slog.Logger
	now      func() time.Time

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	failures int
}

// NewCalendarImportWorker creates a new calendar import worker.
func NewCalendarImportWorker(
	importer Importer,
	source application.EventSource,
	users []uuid.UUID,
	config CalendarImportWorkerConfig,
	logger *slog.Logger,
) *CalendarImportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultImportInterval
	}
	if config.LookAheadDays <= 0 {
		config.LookAheadDays = DefaultLookAheadDays
	}
	if config.MaxImportErrors <= 0 {
		config.MaxImportErrors = DefaultMaxImportErrors
	}
	return &CalendarImportWorker{
		importer: importer,
		source:   source,
		users:    users,
		config:   config,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Run imports immediately, then on every tick, until ctx is cancelled,
// Stop is called or too many cycles fail in a row.
func (w *CalendarImportWorker) Run(ctx context.Context) error {
	if w.importer == nil || w.source == nil || len(w.users) == 0 {
		w.logger.Warn("calendar import not configured, worker will not start")
		return nil
	}

	w.running.Store(true)
	defer w.running.Store(false)
	w.logger.Info("calendar import worker started",
		"interval", w.config.Interval,
		"look_ahead_days", w.config.LookAheadDays,
		"users", len(w.users),
	)

	if err := w.cycle(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("calendar import worker stopped (context cancelled)")
			return ctx.Err()
		case <-w.stopCh:
			w.logger.Info("calendar import worker stopped (stop signal)")
			return nil
		case <-ticker.C:
			if err := w.cycle(ctx); err != nil {
				return err
			}
		}
	}
}

// Stop signals the worker to stop gracefully.
func (w *CalendarImportWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// IsRunning returns true if the worker is currently running.
func (w *CalendarImportWorker) IsRunning() bool {
	return w.running.Load()
}

// RunOnce imports for every user and reports how many imports failed.
func (w *CalendarImportWorker) RunOnce(ctx context.Context) int {
	from := w.now()
	to := from.AddDate(0, 0, w.config.LookAheadDays)

	failed := 0
	for _, userID := range w.users {
		if ctx.Err() != nil {
			return failed
		}
		res, err := w.importer.Import(ctx, application.ImportCommand{UserID: userID, From: from, To: to}, w.source)
		if err != nil {
			failed++
			w.logger.Error("calendar import failed", "user_id", userID, "error", err)
			continue
		}
		w.logger.Debug("calendar import completed", "user_id", userID, "events", res.Imported)
	}
	return failed
}

func (w *CalendarImportWorker) cycle(ctx context.Context) error {
	if w.RunOnce(ctx) < len(w.users) {
		w.failures = 0
		return nil
	}
	w.failures++
	if w.failures >= w.config.MaxImportErrors {
		w.logger.Error("calendar import giving up", "consecutive_failures", w.failures)
		return ErrTooManyFailures
	}
	return nil
}
