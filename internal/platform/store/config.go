package store

import (
	"time"

	"reviewpulse/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG     PGConfig
	SQLite SQLiteConfig
	CH     CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 6
	PingTimeout    time.Duration // default 3s
}

// SQLiteConfig configures the file-backed warehouse
type SQLiteConfig struct {
	Enabled     bool
	Path        string
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientRole string
	ClientTag  string
}

// ConfigFromEnv reads SERVICE_PGSQL_*, SERVICE_SQLITE_* and SERVICE_CLICKHOUSE_* under root.
// role names the binary for connection tagging
func ConfigFromEnv(root config.Conf, role, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	lite := root.Prefix("SERVICE_SQLITE_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")

	return Config{
		AppName: "reviewpulse-" + role,
		PG: PGConfig{
			Enabled:        pg.MayBool("ENABLED", false),
			URL:            pg.MayString("URL", ""),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 8)),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			SlowQueryMs:    pg.MayInt("SLOW_QUERY_MS", 500),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 6),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		SQLite: SQLiteConfig{
			Enabled:     lite.MayBool("ENABLED", false),
			Path:        lite.MayString("PATH", "reviewpulse.db"),
			LogSQL:      lite.MayBool("LOG_SQL", false),
			SlowQueryMs: lite.MayInt("SLOW_QUERY_MS", 250),
		},
		CH: CHConfig{
			Enabled:    chc.MayBool("ENABLED", false),
			URL:        chc.MayString("URL", ""),
			ClientRole: role,
			ClientTag:  tag,
		},
	}
}
