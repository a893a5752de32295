// Package modkit provides module wiring and core deps
package modkit

import (
	"time"

	"reviewpulse/internal/modkit/repokit"
	"reviewpulse/internal/platform/config"
	"reviewpulse/internal/platform/logger"
	"reviewpulse/internal/platform/store"
	ptime "reviewpulse/internal/platform/time"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// WH is the warehouse, Dialect says which statement set repos bind
	WH      repokit.TxRunner
	Dialect store.Dialect

	// CH is the optional analytics sink
	CH store.Clickhouse

	// Clock pins "today", nil means the wall clock
	Clock ptime.Clock
}

// FromStore builds Deps over an opened Store
func FromStore(log logger.Logger, cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg, Clock: ptime.System}
	if st != nil {
		d.WH, d.Dialect, d.CH = st.WH, st.Dialect, st.CH
	}
	return d
}

// Today returns the current UTC day per the deps clock
func (d Deps) Today() time.Time { return ptime.Today(d.Clock) }
