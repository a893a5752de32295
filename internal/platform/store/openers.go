package store

import (
	"context"
	"fmt"
	"time"

	chx "reviewpulse/internal/platform/store/ch"
	"reviewpulse/internal/platform/store/pg"
	"reviewpulse/internal/platform/store/sqlite"
	"reviewpulse/internal/platform/store/sqltrace"

	"github.com/cenkalti/backoff/v5"
)

// tracerFor returns a tracer when statements or slow statements should be logged
func tracerFor(s *Store, backend string, logAll bool, slowMs int) sqltrace.QueryTracer {
	if !logAll && slowMs <= 0 {
		return nil
	}
	return sqltrace.Tracer(s.Log, backend, logAll)
}

// openPG opens pg and wraps it with our sql adapter once the pool answers a ping
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:             cfg.PG.URL,
		MaxConns:        cfg.PG.MaxConns,
		SlowMs:          cfg.PG.SlowQueryMs,
		ApplicationName: cfg.AppName,
	}, tracerFor(s, "pg", cfg.PG.LogSQL, cfg.PG.SlowQueryMs), nil)
	if err != nil {
		return nil, err
	}

	retries := cfg.PG.ConnectRetries
	if retries <= 0 {
		retries = 6
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 150 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return struct{}{}, p.Pool.Ping(toCtx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(retries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.Log.Warn().Err(err).Dur("retry_in", next).Msg("postgres not ready")
		}),
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", retries, err)
	}
	return newPGAdapter(p), nil
}

// openSQLite opens the file-backed warehouse with the embedded schema applied
func openSQLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLite.Path})
	if err != nil {
		return nil, err
	}
	return newSQLiteAdapter(db, tracerFor(s, "sqlite", cfg.SQLite.LogSQL, cfg.SQLite.SlowQueryMs), cfg.SQLite.SlowQueryMs), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientRole: cfg.CH.ClientRole,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
