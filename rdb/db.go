package rdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/queryspec/internal/recovery"
	"github.com/hugr-lab/queryspec/internal/txcontext"
)

// DB executes compiled queries against a DuckDB database.
type DB struct {
	db  *sql.DB
	log *slog.Logger
}

type dbOptions struct {
	logger *slog.Logger
}

// DBOption configures a DB.
type DBOption func(*dbOptions)

// WithLogger routes query logging to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) DBOption {
	return func(o *dbOptions) { o.logger = logger }
}

// Open opens a DuckDB database. An empty dsn opens an in-memory database.
func Open(dsn string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("rdb: open database: %w", err)
	}
	return NewDB(db, opts...), nil
}

// NewDB wraps an existing database handle.
func NewDB(db *sql.DB, opts ...DBOption) *DB {
	o := dbOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &DB{db: db, log: o.logger}
}

// Close closes the underlying database handle.
func (d *DB) Close() error { return d.db.Close() }

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// conn returns the transaction carried by ctx, falling back to the pooled
// handle.
func (d *DB) conn(ctx context.Context) querier {
	if tx, ok := txcontext.TxFromContext(ctx); ok {
		return tx
	}
	return d.db
}

// Select runs the query and returns its rows. The caller closes them.
func (d *DB) Select(ctx context.Context, q *Query) (*sql.Rows, error) {
	query, args, err := q.Build()
	if err != nil {
		return nil, err
	}
	d.log.Debug("Running select", "entity", q.Entity(), "sql", query)
	rows, err := d.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rdb: select %s: %w", q.Entity(), err)
	}
	return rows, nil
}

// Count runs the query as COUNT(*) over the filtered set.
func (d *DB) Count(ctx context.Context, q *Query) (int64, error) {
	sb, err := q.CountBuilder()
	if err != nil {
		return 0, err
	}
	query, args := sb.Build()
	d.log.Debug("Running count", "entity", q.Entity(), "sql", query)
	var n int64
	if err := d.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("rdb: count %s: %w", q.Entity(), err)
	}
	return n, nil
}

// Exec runs a statement, joining the context's transaction when one is open.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := d.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rdb: exec: %w", err)
	}
	return res, nil
}

// RunInTx runs fn inside a transaction carried through the context: Select,
// Count and Exec calls made with the passed context join it. The transaction
// commits when fn returns nil and rolls back when it returns an error or
// panics; a panic is recovered, logged and reported as an error.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rdb: begin transaction: %w", err)
	}
	err = recovery.RecoverToError(d.log, "transaction", func() error {
		return fn(txcontext.WithTx(ctx, tx))
	})
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.log.Error("Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rdb: commit transaction: %w", err)
	}
	return nil
}
