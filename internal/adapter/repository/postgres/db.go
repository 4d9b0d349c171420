package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // PostgreSQL driver
)

// Options configures the connection pool
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// QueryTimeout bounds each query; zero leaves queries bounded only by the caller's context
	QueryTimeout time.Duration
}

// DB wraps the database connection
type DB struct {
	*sqlx.DB
	queryTimeout time.Duration
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=outlook sslmode=disable"
func NewDB(ctx context.Context, connectionString string, opts Options) (*DB, error) {
	db, err := sqlx.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, queryTimeout: opts.QueryTimeout}, nil
}

// Wrap adapts an existing sqlx handle
func Wrap(db *sqlx.DB, queryTimeout time.Duration) *DB {
	return &DB{DB: db, queryTimeout: queryTimeout}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// withTimeout derives the per-query context
func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// quoteTable quotes a bare or schema-qualified table name
// Names are validated against domain.ValidIdentifier when the market registry is loaded
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}
