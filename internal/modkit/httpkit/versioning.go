package httpkit

import (
	"net/http"
	"strings"
)

// MountVersion mounts a subrouter under /{version}, applies any per-scope middleware,
// then invokes mount to register routes on that scoped router
func MountVersion(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/"+strings.Trim(version, "/"), mw, mount)
}
