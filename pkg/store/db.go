// Package store provides the database handle the persistence engine runs on.
//
// The handle wraps a pgx connection pool with an explicit lifecycle: opened
// once at process start, closed at process end. Nothing in this package keeps
// global state.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the store handle.
type DB struct {
	pool *pgxpool.Pool
}

// ConnectURL opens a store handle from a connection URL and verifies it with
// a ping before returning.
func ConnectURL(ctx context.Context, url string) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Exec executes a statement and returns the number of affected rows.
func (db *DB) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	result, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, &QueryError{Query: sql, Err: err}
	}
	return result.RowsAffected(), nil
}

// Query executes a query that returns rows.
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &QueryError{Query: sql, Err: err}
	}
	return rows, nil
}
