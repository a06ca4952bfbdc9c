package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Connect opens the configured store and runs migrations.
func Connect(cfg *config.Config, log logger.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DatabaseDialect, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	conn, err := Open(dialector, level)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	log.WithField("dialect", cfg.DatabaseDialect).Info("database connection established")
	return conn, nil
}

// Open opens a gorm handle for dialector.
func Open(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
		// orders keep their user reference after the user is deleted
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

// Migrate creates or updates every table.
func Migrate(conn *gorm.DB) error {
	for _, model := range models.All() {
		if err := conn.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(dialect, dsn string, log logger.Logger) (gorm.Dialector, error) {
	switch dialect {
	case DialectPostgres, "":
		if err := ensureDatabase(dsn); err != nil {
			return nil, fmt.Errorf("failed to ensure database: %w", err)
		}
		return postgres.Open(dsn), nil
	case DialectSQLite:
		log.WithField("path", dsn).Debug("using sqlite database")
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DIALECT %q", dialect)
	}
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
