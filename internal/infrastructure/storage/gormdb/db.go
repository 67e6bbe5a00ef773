package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/16navigabraham/Tipjar/internal/config"
)

// Dialector picks the gorm driver for the configured database.
func Dialector(db config.Database, pg config.PostgreSQL) (gorm.Dialector, error) {
	switch db.Driver {
	case config.DriverPostgres:
		return postgres.Open(pg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(db.SQLitePath), nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", db.Driver)
	}
}

// NewDB opens the database and migrates the ledger schema.
func NewDB(dialector gorm.Dialector, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	cfg.TranslateError = true
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.AutoMigrate(&TipModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}
