package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/todolist/internal/shared/infrastructure/database/postgres" // registers the pgx driver
	_ "github.com/felixgeelhaar/todolist/internal/shared/infrastructure/database/sqlite"   // registers the sqlite driver
	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todolist/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/todolist/pkg/config"
)

// StoreSettings selects and configures the task store backend.
type StoreSettings struct {
	Driver          string
	URL             string
	SQLitePath      string
	MaxConns        int
	MongoDatabase   string
	MongoCollection string
	RedisKeyPrefix  string
}

// StoreSettingsFromConfig extracts the store settings from cfg.
func StoreSettingsFromConfig(cfg *config.Config) StoreSettings {
	return StoreSettings{
		Driver:          cfg.StoreDriver,
		URL:             cfg.DatabaseURL,
		SQLitePath:      cfg.SQLitePath,
		MaxConns:        cfg.DatabaseMaxConns,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
		RedisKeyPrefix:  cfg.RedisKeyPrefix,
	}
}

// OpenedStore is a connected task store and the function releasing it.
type OpenedStore struct {
	Store  task.Store
	Driver database.Driver
	Close  func() error
}

// OpenTaskStore connects to the configured backend. SQL schemas are
// migrated before the store is returned.
func OpenTaskStore(ctx context.Context, s StoreSettings, logger *slog.Logger) (*OpenedStore, error) {
	driver, err := database.ResolveDriver(s.Driver, s.URL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case database.DriverPostgres, database.DriverSQLite:
		return openSQLStore(ctx, driver, s, logger)

	case database.DriverMongo:
		client, err := persistence.ConnectMongo(ctx, s.URL)
		if err != nil {
			return nil, err
		}
		store := persistence.NewMongoTaskStore(client, s.MongoDatabase, s.MongoCollection)
		logger.Info("connected to MongoDB", "database", s.MongoDatabase, "collection", s.MongoCollection)
		return &OpenedStore{Store: store, Driver: driver, Close: store.Close}, nil

	case database.DriverRedis:
		client, err := persistence.ConnectRedis(ctx, s.URL)
		if err != nil {
			return nil, err
		}
		store := persistence.NewRedisTaskStore(client, s.RedisKeyPrefix)
		logger.Info("connected to Redis", "prefix", s.RedisKeyPrefix)
		return &OpenedStore{Store: store, Driver: driver, Close: store.Close}, nil

	case database.DriverMemory:
		logger.Warn("using in-memory task store; tasks are lost on exit")
		return &OpenedStore{
			Store:  persistence.NewMemoryTaskStore(),
			Driver: driver,
			Close:  func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

func openSQLStore(ctx context.Context, driver database.Driver, s StoreSettings, logger *slog.Logger) (*OpenedStore, error) {
	dbCfg := database.Config{
		Driver:     driver,
		URL:        s.URL,
		SQLitePath: s.SQLitePath,
		MaxConns:   s.MaxConns,
	}
	if driver == database.DriverSQLite && s.URL != "" {
		dbCfg.SQLitePath = database.SQLitePathFromURL(s.URL)
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := persistence.NewSQLTaskStore(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if driver == database.DriverSQLite {
		logger.Info("connected to SQLite", "path", dbCfg.SQLitePath)
	} else {
		logger.Info("connected to PostgreSQL")
	}
	return &OpenedStore{Store: store, Driver: driver, Close: conn.Close}, nil
}
