package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// Backend identifies which database engine backs the store.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// Config selects and locates the storage backend.
type Config struct {
	// DatabaseURL is a PostgreSQL DSN. When empty the store uses a local
	// SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string
}

// Store wraps the active database connection. Exactly one of Pool or SQL is
// non-nil depending on Backend.
type Store struct {
	Backend Backend
	Pool    *pgxpool.Pool
	SQL     *sql.DB

	migrationURL string
}

// Open connects to the configured backend and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("platform/db: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("platform/db: ping postgres: %w", err)
		}
		return &Store{
			Backend:      BackendPostgres,
			Pool:         pool,
			migrationURL: pgxMigrationURL(cfg.DatabaseURL),
		}, nil
	}

	path := cfg.SQLitePath
	if path == "" {
		path = "./data/clientdesk.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("platform/db: create db directory: %w", err)
		}
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("platform/db: open sqlite: %w", err)
	}
	// Serialized access keeps single-writer semantics predictable for a
	// low-volume tool.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("platform/db: ping sqlite: %w", err)
	}
	return &Store{
		Backend:      BackendSQLite,
		SQL:          sqlDB,
		migrationURL: "sqlite://" + path,
	}, nil
}

// Ping verifies the underlying connection is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.Backend == BackendPostgres {
		return s.Pool.Ping(ctx)
	}
	return s.SQL.PingContext(ctx)
}

// Close releases the underlying connection.
func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.SQL != nil {
		_ = s.SQL.Close()
	}
}

// pgxMigrationURL rewrites common PostgreSQL URL schemes to the one the
// migration driver registers under.
func pgxMigrationURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
