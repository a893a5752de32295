package httpkit

import (
	"net/http"

	pnet "reviewpulse/internal/platform/net"
)

// Caller returns who triggered the request, "anonymous" on open routes
func Caller(r *http.Request) string {
	if c := pnet.Caller(r.Context()); c != "" {
		return c
	}
	return "anonymous"
}
