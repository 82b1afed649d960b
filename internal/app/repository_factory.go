package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	availabilityDomain "github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	availabilityPersistence "github.com/felixgeelhaar/rendezvous/internal/availability/infrastructure/persistence"
	calendarDomain "github.com/felixgeelhaar/rendezvous/internal/calendar/domain"
	calendarPersistence "github.com/felixgeelhaar/rendezvous/internal/calendar/infrastructure/persistence"
	hangoutsDomain "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	hangoutsPersistence "github.com/felixgeelhaar/rendezvous/internal/hangouts/infrastructure/persistence"
	identityDomain "github.com/felixgeelhaar/rendezvous/internal/identity/domain"
	identityPersistence "github.com/felixgeelhaar/rendezvous/internal/identity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/rendezvous/internal/shared/application"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/resilience"
)

// RepositoryFactory creates repositories based on the database driver. Every
// store it returns sits behind its own circuit breaker.
type RepositoryFactory struct {
	conn    database.Connection
	driver  database.Driver
	breaker resilience.Config
	logger  *slog.Logger
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection, breaker resilience.Config, logger *slog.Logger) *RepositoryFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepositoryFactory{
		conn:    conn,
		driver:  conn.Driver(),
		breaker: breaker,
		logger:  logger,
	}
}

// SlotRepository creates the availability slot store.
func (f *RepositoryFactory) SlotRepository() (availabilityDomain.SlotRepository, error) {
	var inner availabilityDomain.SlotRepository
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		inner = availabilityPersistence.NewPostgresSlotRepository(pool)

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		inner = availabilityPersistence.NewSQLiteSlotRepository(db)

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
	b := resilience.New("availability_slots", f.breaker, f.logger, availabilityDomain.ErrSlotNotFound)
	return availabilityPersistence.NewGuardedSlotRepository(inner, b), nil
}

// ExceptionRepository creates the availability exception store.
func (f *RepositoryFactory) ExceptionRepository() (availabilityDomain.ExceptionRepository, error) {
	var inner availabilityDomain.ExceptionRepository
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		inner = availabilityPersistence.NewPostgresExceptionRepository(pool)

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		inner = availabilityPersistence.NewSQLiteExceptionRepository(db)

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
	b := resilience.New("availability_exceptions", f.breaker, f.logger, availabilityDomain.ErrExceptionNotFound)
	return availabilityPersistence.NewGuardedExceptionRepository(inner, b), nil
}

// EventRepository creates the imported calendar event store.
func (f *RepositoryFactory) EventRepository() (calendarDomain.EventRepository, error) {
	var inner calendarDomain.EventRepository
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		inner = calendarPersistence.NewPostgresEventRepository(pool)

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		inner = calendarPersistence.NewSQLiteEventRepository(db)

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
	b := resilience.New("calendar_events", f.breaker, f.logger)
	return calendarPersistence.NewGuardedEventRepository(inner, b), nil
}

// HangoutRepository creates the hangout store.
func (f *RepositoryFactory) HangoutRepository() (hangoutsDomain.Repository, error) {
	var inner hangoutsDomain.Repository
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		inner = hangoutsPersistence.NewPostgresHangoutRepository(pool)

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		inner = hangoutsPersistence.NewSQLiteHangoutRepository(db)

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
	b := resilience.New("hangouts", f.breaker, f.logger, hangoutsDomain.ErrHangoutNotFound)
	return hangoutsPersistence.NewGuardedHangoutRepository(inner, b), nil
}

// ProfileRepository creates the profile store.
func (f *RepositoryFactory) ProfileRepository() (identityDomain.ProfileRepository, error) {
	var inner identityDomain.ProfileRepository
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		inner = identityPersistence.NewPostgresProfileRepository(pool)

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		inner = identityPersistence.NewSQLiteProfileRepository(db)

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
	b := resilience.New("profiles", f.breaker, f.logger)
	return identityPersistence.NewGuardedProfileRepository(inner, b), nil
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return outbox.NewPostgresRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return outbox.NewSQLiteRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates a transaction scope for the configured driver.
func (f *RepositoryFactory) UnitOfWork() (sharedApplication.UnitOfWork, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return sharedPersistence.NewPostgresUnitOfWork(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return sharedPersistence.NewSQLiteUnitOfWork(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Helper methods to get underlying database connections

func (f *RepositoryFactory) getPostgresPool() (*pgxpool.Pool, error) {
	pgConn, ok := f.conn.(interface{ Pool() *pgxpool.Pool })
	if !ok {
		return nil, fmt.Errorf("postgres connection does not expose Pool()")
	}
	return pgConn.Pool(), nil
}

func (f *RepositoryFactory) getSQLiteDB() (*sql.DB, error) {
	sqliteConn, ok := f.conn.(interface{ DB() *sql.DB })
	if !ok {
		return nil, fmt.Errorf("sqlite connection does not expose DB()")
	}
	return sqliteConn.DB(), nil
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
