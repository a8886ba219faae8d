package compare

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// Register Postgres SQL driver.
	_ "github.com/lib/pq"
	// Register SQLite SQL driver.
	_ "modernc.org/sqlite"
)

type sqlDialect string

const (
	dialectSQLite   sqlDialect = "sqlite"
	dialectPostgres sqlDialect = "postgres"
)

// SQLBackend persists values in a kv_store table on SQLite or Postgres.
type SQLBackend struct {
	db      *sql.DB
	dialect sqlDialect
}

// NewSQLiteBackend creates a SQLite-backed store.
// dsn can be a file path (e.g. /tmp/compare.db) or SQLite DSN.
func NewSQLiteBackend(dsn string) (*SQLBackend, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "pokedex-compare.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	store := &SQLBackend{db: db, dialect: dialectSQLite}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresBackend creates a Postgres-backed store.
func NewPostgresBackend(dsn string) (*SQLBackend, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	store := &SQLBackend{db: db, dialect: dialectPostgres}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLBackend) init() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("ping %s store: %w", s.dialect, err)
	}

	var ddl string
	switch s.dialect {
	case dialectPostgres:
		ddl = `
CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`
	default:
		ddl = `
CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`
	}

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("initialize %s store schema: %w", s.dialect, err)
	}
	return nil
}

// Load implements Backend.
func (s *SQLBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := s.bind("SELECT value FROM kv_store WHERE key = ?")
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %q from %s store: %w", key, s.dialect, err)
	}
	return []byte(value), nil
}

// Save implements Backend.
func (s *SQLBackend) Save(ctx context.Context, key string, value []byte) error {
	query := s.bind(`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("save %q to %s store: %w", key, s.dialect, err)
	}
	return nil
}

// Close implements Backend.
func (s *SQLBackend) Close() error { return s.db.Close() }

// bind rewrites ? placeholders to $n for Postgres.
func (s *SQLBackend) bind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
