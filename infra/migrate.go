package infra

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// Migrate applies every pending up migration from source (for example
// "file://internal/migrations") to a postgres database. It is a no-op when
// the schema is current.
func Migrate(db *gorm.DB, source string) error {
	m, err := newMigrator(db, source)
	if err != nil || m == nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrateDown reverts every applied migration.
func MigrateDown(db *gorm.DB, source string) error {
	m, err := newMigrator(db, source)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("migrate down is only supported on postgres")
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// newMigrator returns nil for embedded databases, whose schema OpenSQLite
// creates with AutoMigrate.
func newMigrator(db *gorm.DB, source string) (*migrate.Migrate, error) {
	if db.Dialector.Name() != "postgres" {
		return nil, nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate source %s: %w", source, err)
	}
	return m, nil
}
