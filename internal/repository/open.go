package repository

import (
	"context"
	"fmt"

	"ragrids/internal/config"
	"ragrids/internal/db"
)

// Stores bundles the repositories of the configured backend.
type Stores struct {
	Admins AdminRepository
	Users  UserRepository
	Close  func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.StoreDriver and prepares its
// schema or indexes.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := EnsureMongoIndexes(ctx, database); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &Stores{
			Admins: NewMongoAdminRepository(database),
			Users:  NewMongoUserRepository(database),
			Close:  database.Client().Disconnect,
		}, nil

	case config.DriverMySQL, config.DriverSQLite:
		open := db.NewMySQL
		dsn := cfg.MySQLDSN
		if cfg.StoreDriver == config.DriverSQLite {
			open, dsn = db.NewSQLite, cfg.SQLitePath
		}
		gormDB, err := open(dsn)
		if err != nil {
			return nil, err
		}
		if err := Migrate(gormDB); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, err
		}
		return &Stores{
			Admins: NewAdminRepository(gormDB),
			Users:  NewUserRepository(gormDB),
			Close:  func(context.Context) error { return sqlDB.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
