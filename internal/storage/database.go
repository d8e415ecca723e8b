package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-cache/cache"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver rejects database drivers other than sqlite and postgres.
var ErrUnsupportedDriver = errors.New("storage: unsupported database driver")

// OpenDB opens a bun database for driver and dsn.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("storage: database dsn is required")
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite, "sqlite3":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// a single connection keeps shared in-memory databases alive and
		// serialises sqlite writers
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres, "postgresql", "pgx":
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Migrate creates the records table when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: database is nil")
	}
	if _, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("storage: create records table: %w", err)
	}
	return nil
}

// NewRepositoryCache builds the go-repository-cache service and key
// serializer used by WithCache. A non-positive ttl keeps the library default.
func NewRepositoryCache(ttl time.Duration) (cache.CacheService, cache.KeySerializer, error) {
	cfg := cache.DefaultConfig()
	if ttl > 0 {
		cfg.TTL = ttl
	}
	service, err := cache.NewCacheService(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: cache service: %w", err)
	}
	return service, cache.NewDefaultKeySerializer(), nil
}
