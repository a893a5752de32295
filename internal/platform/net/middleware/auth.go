package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "reviewpulse/internal/platform/errors"
	pnet "reviewpulse/internal/platform/net"
)

// AuthPort resolves the caller behind a request
type AuthPort interface {
	// Parse returns the caller name or an error when the request is not allowed
	Parse(r *http.Request) (caller string, err error)
}

// BearerTokens is an AuthPort over a static token to caller table
type BearerTokens map[string]string

// Parse checks the Authorization header against the table
func (b BearerTokens) Parse(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	tok = strings.TrimSpace(tok)
	for want, caller := range b {
		if subtle.ConstantTimeCompare([]byte(want), []byte(tok)) == 1 {
			return caller, nil
		}
	}
	return "", perr.Unauthorizedf("invalid bearer token")
}

// Auth guards next with p. A nil port lets every request through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := p.Parse(r)
			if err != nil {
				status, wire := perr.HTTP(err)
				write(w, status, struct {
					StatusCode int            `json:"status_code"`
					Status     string         `json:"status"`
					Code       perr.ErrorCode `json:"code"`
					Error      string         `json:"error"`
					RequestID  string         `json:"request_id,omitempty"`
				}{status, http.StatusText(status), wire.Code, wire.Message, pnet.RequestID(r.Context())})
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithCaller(r.Context(), caller)))
		})
	}
}
