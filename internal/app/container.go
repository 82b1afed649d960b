package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
	availabilityServices "github.com/felixgeelhaar/rendezvous/internal/availability/application/services"
	availabilityDomain "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	calendarApp "github.com/felixgeelhaar/rendezvous/internal/calendar/application"
	calendarWorkers "github.com/felixgeelhaar/rendezvous/internal/calendar/application/workers"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/caldav"
	"github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/ics"
	hangoutCommands "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
	hangoutQueries "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/queries"
	hangoutsDomain "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	"github.com/felixgeelhaar/rendezvous/internal/identity/application/profile"
	identityDomain "github.com/felixgeelhaar/rendezvous/internal/identity/domain"
	"github.com/felixgeelhaar/rendezvous/internal/identity/infrastructure/cache"
	sharedApplication "github.com/felixgeelhaar/rendezvous/internal/shared/application"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/resilience"
	suggestionQueries "github.com/felixgeelhaar/rendezvous/internal/suggestions/application/queries"
	suggestionServices "github.com/felixgeelhaar/rendezvous/internal/suggestions/application/services"
	suggestionDomain "github.com/felixgeelhaar/rendezvous/internal/suggestions/domain"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	SlotRepo      availabilityDomain.SlotRepository
	ExceptionRepo availabilityDomain.ExceptionRepository
	EventRepo     calendarDomain.EventRepository
	HangoutRepo   hangoutsDomain.Repository
	ProfileRepo   identityDomain.ProfileRepository
	OutboxRepo    outbox.Repository

	// Publishers
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Services
	Profiles         *profile.Service
	MutualFinder     *availabilityServices.MutualFinder
	PatternAnalyzer  *suggestionServices.PatternAnalyzer
	SuggestionEngine *suggestionServices.SuggestionEngine
	CalendarImporter *calendarApp.ImportService
	ICSParser        *ics.Parser

	// Availability Command Handlers
	AddSlotHandler         *availabilityCommands.AddSlotHandler
	ReplaceWeeklyHandler   *availabilityCommands.ReplaceWeeklyHandler
	SlotHandler            *availabilityCommands.SlotHandler
	AddExceptionHandler    *availabilityCommands.AddExceptionHandler
	DeleteExceptionHandler *availabilityCommands.DeleteExceptionHandler

	// Availability Query Handlers
	ListAvailabilityHandler   *availabilityQueries.ListAvailabilityHandler
	MutualAvailabilityHandler *availabilityQueries.MutualAvailabilityHandler

	// Hangout Command Handlers
	RecordHangoutHandler *hangoutCommands.RecordHangoutHandler
	ProposeTimesHandler  *hangoutCommands.ProposeTimesHandler
	ChangeStatusHandler  *hangoutCommands.ChangeStatusHandler

	// Hangout Query Handlers
	ListHangoutsHandler *hangoutQueries.ListHangoutsHandler

	// Suggestion Query Handlers
	GenerateSuggestionsHandler *suggestionQueries.GenerateSuggestionsHandler
}

// NewContainer creates a new dependency injection container. An empty
// DATABASE_URL selects the local SQLite store; Redis and RabbitMQ are
// optional and skipped when unset.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()

	if err := runMigrations(ctx, conn, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := c.wire(ctx); err != nil {
		c.Close()
		return nil, err
	}

	logger.Info("container initialized", "driver", c.DBDriver, "redis", c.RedisClient != nil)
	return c, nil
}

// wire builds repositories, services and handlers on top of DBConn.
func (c *Container) wire(ctx context.Context) error {
	cfg := c.Config
	factory := NewRepositoryFactory(c.DBConn, breakerConfig(cfg), c.Logger)

	var err error
	if c.SlotRepo, err = factory.SlotRepository(); err != nil {
		return err
	}
	if c.ExceptionRepo, err = factory.ExceptionRepository(); err != nil {
		return err
	}
	if c.EventRepo, err = factory.EventRepository(); err != nil {
		return err
	}
	if c.HangoutRepo, err = factory.HangoutRepository(); err != nil {
		return err
	}
	if c.ProfileRepo, err = factory.ProfileRepository(); err != nil {
		return err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return err
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		return err
	}

	if cfg.RedisURL != "" {
		c.RedisClient = connectRedis(ctx, cfg.RedisURL, c.Logger)
	}
	if c.RedisClient != nil {
		c.ProfileRepo = cache.NewProfileRepository(c.ProfileRepo, c.RedisClient, cfg.ProfileCacheTTL, c.Logger)
	}

	c.EventPublisher = eventbus.NewLogPublisher(c.Logger)
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		if err != nil {
			c.Logger.Warn("RabbitMQ unavailable, logging events instead", "error", err)
		} else {
			c.EventPublisher = publisher
		}
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig(cfg), c.Logger)

	c.Profiles = profile.NewService(c.ProfileRepo, "")
	c.MutualFinder = availabilityServices.NewMutualFinder(c.SlotRepo, c.ExceptionRepo, c.EventRepo, c.Profiles, c.Logger)
	c.PatternAnalyzer = suggestionServices.NewPatternAnalyzer(c.SlotRepo, c.HangoutRepo, c.Profiles, c.Logger)
	c.SuggestionEngine = suggestionServices.NewSuggestionEngine(c.MutualFinder, c.PatternAnalyzer, suggestionServices.EngineConfig{
		DefaultDuration:       cfg.SuggestionDuration,
		DefaultBuffer:         cfg.SuggestionBuffer,
		DefaultMaxSuggestions: cfg.SuggestionMaxResults,
		Scorer:                suggestionDomain.ScorerConfig{UsePartyPreferences: cfg.SuggestionPartyPreference},
	}, c.Logger)
	c.CalendarImporter = calendarApp.NewImportService(c.EventRepo, c.Profiles, c.UnitOfWork, c.Logger)
	c.ICSParser = ics.NewParser(c.Logger)

	c.AddSlotHandler = availabilityCommands.NewAddSlotHandler(c.SlotRepo)
	c.ReplaceWeeklyHandler = availabilityCommands.NewReplaceWeeklyHandler(c.SlotRepo, c.UnitOfWork)
	c.SlotHandler = availabilityCommands.NewSlotHandler(c.SlotRepo)
	c.AddExceptionHandler = availabilityCommands.NewAddExceptionHandler(c.ExceptionRepo)
	c.DeleteExceptionHandler = availabilityCommands.NewDeleteExceptionHandler(c.ExceptionRepo)
	c.ListAvailabilityHandler = availabilityQueries.NewListAvailabilityHandler(c.SlotRepo, c.ExceptionRepo)
	c.MutualAvailabilityHandler = availabilityQueries.NewMutualAvailabilityHandler(c.MutualFinder)

	c.RecordHangoutHandler = hangoutCommands.NewRecordHangoutHandler(c.HangoutRepo, c.OutboxRepo, c.UnitOfWork)
	c.ProposeTimesHandler = hangoutCommands.NewProposeTimesHandler(c.HangoutRepo, c.OutboxRepo, c.UnitOfWork)
	c.ChangeStatusHandler = hangoutCommands.NewChangeStatusHandler(c.HangoutRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListHangoutsHandler = hangoutQueries.NewListHangoutsHandler(c.HangoutRepo)

	c.GenerateSuggestionsHandler = suggestionQueries.NewGenerateSuggestionsHandler(c.SuggestionEngine)
	return nil
}

// CalDAVSource returns the configured CalDAV importer, nil when unset.
func (c *Container) CalDAVSource() calendarApp.EventSource {
	if !c.Config.CalDAVConfigured() {
		return nil
	}
	return caldav.NewImporter(c.Config.CalDAVURL, c.Config.CalDAVUsername, c.Config.CalDAVPassword, c.Logger)
}

// NewCalendarImportWorker builds the periodic CalDAV import for the local
// user. It returns nil when import is disabled or CalDAV is not configured.
func (c *Container) NewCalendarImportWorker() *calendarWorkers.CalendarImportWorker {
	if !c.Config.CalendarImportEnabled {
		return nil
	}
	src := c.CalDAVSource()
	if src == nil {
		return nil
	}
	userID, err := uuid.Parse(c.Config.UserID)
	if err != nil {
		c.Logger.Warn("invalid RENDEZVOUS_USER_ID, calendar import disabled", "error", err)
		return nil
	}
	return calendarWorkers.NewCalendarImportWorker(c.CalendarImporter, src, []uuid.UUID{userID}, calendarWorkers.CalendarImportWorkerConfig{
		Interval:      c.Config.CalendarImportInterval,
		LookAheadDays: c.Config.CalendarLookAheadDays,
	}, c.Logger)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}

// runMigrations applies the schema for the connection's driver.
func runMigrations(ctx context.Context, conn database.Connection, logger *slog.Logger) error {
	logger.Info("running migrations", "driver", conn.Driver())
	switch c := conn.(type) {
	case interface{ DB() *sql.DB }:
		return migrations.RunSQLite(ctx, c.DB())
	case interface{ Pool() *pgxpool.Pool }:
		return migrations.RunPostgres(ctx, c.Pool())
	default:
		return fmt.Errorf("unsupported driver: %s", conn.Driver())
	}
}

// connectRedis returns nil when Redis cannot be reached; the profile cache
// is optional.
func connectRedis(ctx context.Context, url string, logger *slog.Logger) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("invalid REDIS_URL, profile cache disabled", "error", err)
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, profile cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("connected to Redis")
	return client
}

func breakerConfig(cfg *config.Config) resilience.Config {
	bc := resilience.DefaultConfig()
	bc.Enabled = cfg.BreakerEnabled
	if cfg.BreakerFailureThreshold > 0 {
		bc.FailureThreshold = convert.IntToUint32Clamped(cfg.BreakerFailureThreshold)
	}
	if cfg.BreakerTimeout > 0 {
		bc.Timeout = cfg.BreakerTimeout
	}
	return bc
}

func processorConfig(cfg *config.Config) outbox.ProcessorConfig {
	pc := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		pc.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		pc.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		pc.MaxRetries = cfg.OutboxMaxRetries
	}
	if cfg.OutboxRetentionDays > 0 {
		pc.Retention = time.Duration(cfg.OutboxRetentionDays) * 24 * time.Hour
	}
	return pc
}
