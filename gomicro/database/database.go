package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/suteetoe/homeorganizer/gomicro/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database described by dbConfig and applies pool settings
func InitDB(dbConfig *config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(dbConfig)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(dbConfig.LogLevel))
	if err != nil {
		log.Error("Failed to connect to database", zap.String("driver", dbConfig.Driver), zap.Error(err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Failed to get database object", zap.Error(err))
		return nil, err
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	if dbConfig.Driver == config.DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("Database connected successfully", zap.String("driver", dbConfig.Driver))
	return db, nil
}

func dialectorFor(dbConfig *config.DBConfig) (gorm.Dialector, error) {
	switch dbConfig.Driver {
	case config.DriverPostgres, "":
		return postgres.New(postgres.Config{
			DSN:                  dbConfig.GetDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statement usage
		}), nil
	case config.DriverSQLite:
		return sqlite.Open(SQLiteDSN(dbConfig.GetDSN())), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConfig.Driver)
	}
}

// GormConfig is the gorm configuration shared by every connection. Driver
// errors are translated, so a unique violation surfaces as gorm.ErrDuplicatedKey.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		NowFunc:        Now,
		TranslateError: true,
	}
}

// Now is the clock for stored timestamps, truncated to the microsecond
// precision of postgres so a value reads back exactly as it was written
func Now() time.Time {
	return time.Now().Truncate(time.Microsecond)
}

// SQLiteDSN turns a file path into a DSN with foreign key enforcement on
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=1&_busy_timeout=5000"
}

// MigrateModels runs migrations for the provided models
func MigrateModels(db *gorm.DB, models ...interface{}) error {
	if db == nil {
		return errors.New("database is not initialized")
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
