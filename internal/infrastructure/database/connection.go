package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL backend selected by the database URL scheme.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

const sqliteScheme = "sqlite://"

// DialectOf returns the backend for a database URL: postgres:// or
// postgresql:// for PostgreSQL, sqlite:// for a SQLite file.
func DialectOf(url string) (Dialect, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres, nil
	case strings.HasPrefix(url, sqliteScheme):
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database url scheme: %q", url)
	}
}

// DB is an open connection of either dialect.
type DB struct {
	DBTX
	Dialect Dialect
	close   func()
}

func (d *DB) Close() {
	if d.close != nil {
		d.close()
	}
}

// Open connects to url and pings it.
func Open(ctx context.Context, url string, log *zap.Logger) (*DB, error) {
	dialect, err := DialectOf(url)
	if err != nil {
		return nil, err
	}
	switch dialect {
	case Postgres:
		pool, err := NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", zap.String("dialect", string(dialect)))
		return &DB{DBTX: pgxDB{pool: pool}, Dialect: dialect, close: pool.Close}, nil
	default:
		db, err := openSQLite(ctx, strings.TrimPrefix(url, sqliteScheme))
		if err != nil {
			return nil, err
		}
		log.Info("database connected", zap.String("dialect", string(dialect)))
		return &DB{DBTX: sqlDB{db: db}, Dialect: dialect, close: func() { _ = db.Close() }}, nil
	}
}

// NewPool creates a pgx connection pool for PostgreSQL.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("open sqlite: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; the bot serializes mutations anyway.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}
