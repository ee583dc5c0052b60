// Package infra holds the storage and connectivity wiring of goldvault.
package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	infrarepo "github.com/amirasaad/goldvault/infra/repository"
	"github.com/amirasaad/goldvault/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the database named by cnf.Url. postgres:// and
// postgresql:// URLs use the postgres driver, whose schema is managed by
// Migrate. sqlite:// URLs (and the special "sqlite://:memory:") open an
// embedded database whose schema is created with AutoMigrate.
func NewDBConnection(
	cnf config.DB,
	appEnv string,
) (*gorm.DB, error) {
	databaseUrl := cnf.Url
	if databaseUrl == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}

	switch {
	case strings.HasPrefix(databaseUrl, "postgres://"), strings.HasPrefix(databaseUrl, "postgresql://"):
		connection, err := gorm.Open(postgres.Open(databaseUrl), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := connection.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
		return connection, nil

	case strings.HasPrefix(databaseUrl, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(databaseUrl, "sqlite://"), gormCfg)
	}
	return nil, fmt.Errorf("unsupported database url scheme: %q", redactURL(databaseUrl))
}

// OpenSQLite opens an embedded database at path and creates the schema. A
// single connection serializes writers, which sqlite requires anyway.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
			NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		}
	}
	dsn := path
	if path == ":memory:" || path == "" {
		dsn = "file::memory:"
	}
	connection, err := gorm.Open(sqlite.Open(dsn+"?_foreign_keys=on&_busy_timeout=5000"), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := connection.AutoMigrate(infrarepo.Models()...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return connection, nil
}

func redactURL(u string) string {
	if i := strings.Index(u, "@"); i >= 0 {
		if j := strings.Index(u, "://"); j >= 0 && j < i {
			return u[:j+3] + "***" + u[i:]
		}
	}
	return u
}
