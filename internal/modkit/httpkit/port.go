package httpkit

import (
	"strings"

	"reviewpulse/internal/platform/config"
	"reviewpulse/internal/platform/net/middleware"
)

// TokensFromConfig reads API_TOKEN and API_TOKENS into a bearer port
// API_TOKENS is a csv of caller:token pairs. A nil port means the API is open
func TokensFromConfig(cfg config.Conf) middleware.AuthPort {
	c := cfg.Prefix("API_")
	toks := middleware.BearerTokens{}
	if t := strings.TrimSpace(c.MayString("TOKEN", "")); t != "" {
		toks[t] = "operator"
	}
	for _, pair := range c.MayCSV("TOKENS", nil) {
		caller, tok, ok := strings.Cut(pair, ":")
		caller, tok = strings.TrimSpace(caller), strings.TrimSpace(tok)
		if !ok || caller == "" || tok == "" {
			continue
		}
		toks[tok] = caller
	}
	if len(toks) == 0 {
		return nil
	}
	return toks
}
