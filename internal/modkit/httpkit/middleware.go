package httpkit

import (
	"net/http"
	"time"

	"reviewpulse/internal/platform/config"
	phttp "reviewpulse/internal/platform/net/http"
	"reviewpulse/internal/platform/net/middleware"
)

// CommonStack returns the root middleware chain of the trigger API
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	c := cfg.Prefix("API_")
	stack := middleware.Defaults(c.MayDuration("RUN_TIMEOUT", 15*time.Minute))
	stack = append(stack, middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow: c.MayDuration("SLOW_REQUEST", 30*time.Second),
	}))
	if origins := c.MayCSV("CORS_ORIGINS", nil); len(origins) > 0 {
		stack = append(stack, middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins, MaxAge: 300}))
	}
	return stack
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
