// Package migrations ships the tasks schema and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"todoList/internal/logger"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func newMigrate(db *sql.DB, dialect Dialect) (*migrate.Migrate, error) {
	src, err := iofs.New(files, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	var driver database.Driver
	switch dialect {
	case Postgres:
		driver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	case SQLite:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("unknown migration dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, string(dialect), driver)
}

// Up applies every pending migration. An up-to-date schema is not an error.
func Up(db *sql.DB, dialect Dialect) error {
	logger.Info("Migrations: applying", zap.String("dialect", string(dialect)))

	m, err := newMigrate(db, dialect)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: apply failed", err)
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("Migrations: schema is up to date")
	return nil
}

// Down rolls back every migration.
func Down(db *sql.DB, dialect Dialect) error {
	logger.Info("Migrations: rolling back", zap.String("dialect", string(dialect)))

	m, err := newMigrate(db, dialect)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: rollback failed", err)
		return fmt.Errorf("rollback migrations: %w", err)
	}

	logger.Info("Migrations: rolled back")
	return nil
}

// RunPostgres migrates over its own lib/pq connection, closed on return.
func RunPostgres(url string, up bool) error {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping migration connection: %w", err)
	}

	if up {
		return Up(db, Postgres)
	}
	return Down(db, Postgres)
}
