// Package database opens the GORM connection used by the stores and applies migrations.
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/axellelanca/linkpool/internal/config"
	"github.com/axellelanca/linkpool/internal/models"
)

// sqliteBusyTimeoutMs lets writers wait on a locked database instead of failing.
const sqliteBusyTimeoutMs = 5000

// Connect opens the database described by cfg and migrates the schema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return open(postgres.Open(cfg.Database.DSN), false)
	case "sqlite", "":
		return OpenSQLite(cfg.Database.Name)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// OpenSQLite opens a SQLite database file (":memory:" for a private in-memory one).
// All access goes through one connection so concurrent counter updates queue
// in the pool instead of racing for the SQLite write lock.
func OpenSQLite(name string) (*gorm.DB, error) {
	return open(sqlite.Open(name), true)
}

func open(dialector gorm.Dialector, single bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if single {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)

		pragmas := []string{
			"PRAGMA foreign_keys = ON",
			fmt.Sprintf("PRAGMA busy_timeout = %d", sqliteBusyTimeoutMs),
		}
		for _, p := range pragmas {
			if err := db.Exec(p).Error; err != nil {
				return nil, fmt.Errorf("failed to apply %q: %w", p, err)
			}
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the links and targets tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Link{}, &models.Target{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
