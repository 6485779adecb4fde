package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/runtimeconfig"
)

// OpenDB opens a bun handle for driver and dsn. Supported drivers are
// sqlite3 and postgres.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = runtimeconfig.DriverSQLite
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, runtimeconfig.ErrStorageDSNRequired
	}

	switch driver {
	case runtimeconfig.DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		// Shared-cache sqlite locks on concurrent writers.
		db.SetMaxOpenConns(1)
		return db, nil
	case runtimeconfig.DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, driver)
	}
}

// configureStorage opens the configured database when the bun provider is
// selected and no handle was injected.
func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil && strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), runtimeconfig.StorageBun) {
		db, err := OpenDB(c.Config.Storage.Driver, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil {
		return nil
	}
	if err := courses.EnsureSchema(ctx, c.bunDB); err != nil {
		if c.ownsDB {
			_ = c.bunDB.Close()
		}
		return fmt.Errorf("prepare course schema: %w", err)
	}
	return nil
}

// Close releases the database opened by the container. Injected handles are
// left to their owner.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	return c.bunDB.Close()
}
