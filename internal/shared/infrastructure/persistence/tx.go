// Package persistence carries the active transaction through the request
// context so repositories join a unit of work without extra parameters.
package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errNoTx = errors.New("no transaction in context")

type pgTxKey struct{}

type sqliteTxKey struct{}

// PgTxInfo is the PostgreSQL transaction held by a unit of work.
type PgTxInfo struct {
	Tx    pgx.Tx
	Owned bool
}

// SQLiteTxInfo is the SQLite transaction held by a unit of work.
type SQLiteTxInfo struct {
	Tx    *sql.Tx
	Owned bool
}

func withPgTx(ctx context.Context, tx pgx.Tx, owned bool) context.Context {
	return context.WithValue(ctx, pgTxKey{}, PgTxInfo{Tx: tx, Owned: owned})
}

func withSQLiteTx(ctx context.Context, tx *sql.Tx, owned bool) context.Context {
	return context.WithValue(ctx, sqliteTxKey{}, SQLiteTxInfo{Tx: tx, Owned: owned})
}

// PgTxFromContext extracts the PostgreSQL transaction, if any.
func PgTxFromContext(ctx context.Context) (PgTxInfo, bool) {
	info, ok := ctx.Value(pgTxKey{}).(PgTxInfo)
	return info, ok && info.Tx != nil
}

// SQLiteTxFromContext extracts the SQLite transaction, if any.
func SQLiteTxFromContext(ctx context.Context) (SQLiteTxInfo, bool) {
	info, ok := ctx.Value(sqliteTxKey{}).(SQLiteTxInfo)
	return info, ok && info.Tx != nil
}

// PgExecutor abstracts pgxpool.Pool and pgx.Tx.
type PgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Pg returns the transaction in ctx, otherwise the pool.
func Pg(ctx context.Context, pool *pgxpool.Pool) PgExecutor {
	if info, ok := PgTxFromContext(ctx); ok {
		return info.Tx
	}
	return pool
}

// SQLiteExecutor abstracts *sql.DB and *sql.Tx.
type SQLiteExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLite returns the transaction in ctx, otherwise the database.
func SQLite(ctx context.Context, db *sql.DB) SQLiteExecutor {
	if info, ok := SQLiteTxFromContext(ctx); ok {
		return info.Tx
	}
	return db
}
