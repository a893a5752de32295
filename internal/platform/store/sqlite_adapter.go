package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"reviewpulse/internal/platform/store/sqltrace"

	"github.com/jmoiron/sqlx"
)

// sqliteAdapter wraps a sqlx handle and implements RowQuerier + TxRunner for the file warehouse
type sqliteAdapter struct {
	db     *sqlx.DB
	tracer sqltrace.QueryTracer
	slowUS int64
}

func newSQLiteAdapter(db *sqlx.DB, tracer sqltrace.QueryTracer, slowMs int) *sqliteAdapter {
	return &sqliteAdapter{db: db, tracer: tracer, slowUS: int64(slowMs) * 1000}
}

// NewSQLite exposes an already opened sqlite handle as a TxRunner
func NewSQLite(db *sqlx.DB) TxRunner { return newSQLiteAdapter(db, nil, 0) }

func (a *sqliteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("sqlite: nil adapter")
	}
	return a.db.PingContext(ctx)
}

func (a *sqliteAdapter) Close() error { return a.db.Close() }

func (a *sqliteAdapter) q() sqliteQuerier {
	return sqliteQuerier{ex: a.db, tracer: a.tracer, slowUS: a.slowUS}
}

func (a *sqliteAdapter) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	return a.q().Exec(ctx, query, args...)
}

func (a *sqliteAdapter) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return a.q().Query(ctx, query, args...)
}

func (a *sqliteAdapter) QueryRow(ctx context.Context, query string, args ...any) Row {
	return a.q().QueryRow(ctx, query, args...)
}

func (a *sqliteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqliteQuerier{ex: tx, tracer: a.tracer, slowUS: a.slowUS}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// sqlExecer is the part of *sqlx.DB and *sqlx.Tx the querier needs
type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqliteQuerier struct {
	ex     sqlExecer
	tracer sqltrace.QueryTracer
	slowUS int64
}

func (t sqliteQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := t.ex.ExecContext(ctx, query, args...)
	t.emit(ctx, query, args, start, err)
	if err != nil {
		return resultTag{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return resultTag{}, err
	}
	return resultTag{n: n}, nil
}

func (t sqliteQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.ex.QueryContext(ctx, query, args...)
	t.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

func (t sqliteQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := t.ex.QueryRowContext(ctx, query, args...)
	return row{
		r: r,
		after: func(scanErr error) {
			if errors.Is(scanErr, sql.ErrNoRows) {
				scanErr = nil
			}
			t.emit(ctx, query, args, start, scanErr)
		},
	}
}

func (t sqliteQuerier) emit(ctx context.Context, query string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	t.tracer.OnQuery(ctx, sqltrace.QueryEvent{
		SQL:       query,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      t.slowUS > 0 && elapsedUS >= t.slowUS,
	})
}

type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

// resultTag satisfies CommandTag for database/sql results
type resultTag struct{ n int64 }

func (t resultTag) String() string      { return "ROWS " + strconv.FormatInt(t.n, 10) }
func (t resultTag) RowsAffected() int64 { return t.n }
