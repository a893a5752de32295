package migrations

import (
	"context"
	"fmt"

	"reviewpulse/internal/platform/logger"
	"reviewpulse/internal/platform/store"
)

// Apply runs the scripts for every backend configured on s
// sqlite applies its own schema on open and is skipped here
func Apply(ctx context.Context, s *store.Store) error {
	if s == nil {
		return nil
	}
	log := logger.C(ctx)

	if s.WH != nil && s.Dialect == store.DialectPostgres {
		scripts, err := Postgres()
		if err != nil {
			return err
		}
		for i, sql := range scripts {
			if _, err := s.WH.Exec(ctx, sql); err != nil {
				return fmt.Errorf("migrations: postgres script %d: %w", i+1, err)
			}
		}
		log.Debug().Int("scripts", len(scripts)).Msg("migrations: postgres applied")
	}

	if s.CH != nil {
		scripts, err := ClickHouse()
		if err != nil {
			return err
		}
		for i, sql := range scripts {
			if err := s.CH.Exec(ctx, sql); err != nil {
				return fmt.Errorf("migrations: clickhouse script %d: %w", i+1, err)
			}
		}
		log.Debug().Int("scripts", len(scripts)).Msg("migrations: clickhouse applied")
	}
	return nil
}
