package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/migrations"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.DriverName(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// An in-memory SQLite database lives as long as its last connection
	if cfg.IsMemory() {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// NewMigrate builds a migrate instance over the embedded schema for the DB type.
// Closing the returned instance closes db as well.
func NewMigrate(db *sqlx.DB, cfg config.DBConfig) (*migrate.Migrate, error) {
	var (
		driver  migratedb.Driver
		dirName string
		err     error
	)

	switch cfg.Type {
	case config.DBTypePostgreSQL:
		dirName = "postgres"
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	case config.DBTypeMySQL:
		dirName = "mysql"
		driver, err = mysql.WithInstance(db.DB, &mysql.Config{})
	default:
		dirName = "sqlite"
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", dirName, err)
	}

	source, err := iofs.New(migrations.FS, dirName)
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dirName, driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending up migrations
func Migrate(db *sqlx.DB, cfg config.DBConfig) error {
	m, err := NewMigrate(db, cfg)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
