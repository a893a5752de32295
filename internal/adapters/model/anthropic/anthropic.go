// Package anthropic adapts the Anthropic Messages API to the classify Model port
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"reviewpulse/internal/platform/config"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	"reviewpulse/internal/platform/tracing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
)

// Defaults used when CORE_MODEL_* is unset
const (
	DefaultModel     = "claude-3-haiku-20240307"
	DefaultMaxTokens = 500
	DefaultSystem    = "Tu es un assistant d'analyse de satisfaction client."
)

// Messager is the slice of the SDK client this adapter calls
type Messager interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Config carries credentials and request shaping
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
	System      string
	BaseURL     string

	// Timeout bounds one call, 0 leaves the transport default
	Timeout time.Duration
}

// ConfigFromEnv reads ANTHROPIC_API_KEY and CORE_MODEL_*
func ConfigFromEnv(root config.Conf) Config {
	m := root.Prefix("CORE_MODEL_")
	return Config{
		APIKey:      root.MayString("ANTHROPIC_API_KEY", ""),
		Model:       m.MayString("NAME", DefaultModel),
		MaxTokens:   int64(m.MayPositiveInt("MAX_TOKENS", DefaultMaxTokens)),
		Temperature: m.MayFloat64("TEMPERATURE", 0),
		System:      m.MayString("SYSTEM", ""),
		BaseURL:     m.MayString("BASE_URL", ""),
		Timeout:     m.MayDuration("TIMEOUT", 0),
	}
}

// Client implements Complete over the Messages API
type Client struct {
	cfg  Config
	msgs Messager
}

// Option customizes a Client
type Option func(*Client)

// WithMessager swaps the SDK messages service, used by tests
func WithMessager(m Messager) Option { return func(c *Client) { c.msgs = m } }

// New validates cfg and builds a client. A missing or malformed key is a hard error
func New(cfg Config, opts ...Option) (*Client, error) {
	key, err := SanitizeKey(cfg.APIKey)
	if err != nil {
		return nil, err
	}
	cfg.APIKey = key
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "model temperature %v outside [0,1]", cfg.Temperature)
	}
	if cfg.Timeout < 0 {
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "model timeout %s is negative", cfg.Timeout)
	}

	c := &Client{cfg: cfg}
	for _, o := range opts {
		o(c)
	}
	if c.msgs == nil {
		// retries belong to the caller's policy, so the sdk's own are off
		ro := []option.RequestOption{
			option.WithAPIKey(cfg.APIKey),
			option.WithMaxRetries(0),
			option.WithHeader("User-Agent", "reviewpulse/1.0"),
		}
		if cfg.BaseURL != "" {
			ro = append(ro, option.WithBaseURL(cfg.BaseURL))
		}
		sc := sdk.NewClient(ro...)
		c.msgs = &sc.Messages
	}
	return c, nil
}

// SanitizeKey trims the key and rejects empty, non ASCII or embedded blank/quote characters
func SanitizeKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", perr.Unavailablef("ANTHROPIC_API_KEY is not set")
	}
	for _, r := range key {
		switch {
		case r > 0x7e || r < 0x21:
			return "", perr.Unavailablef("ANTHROPIC_API_KEY contains non printable or non ASCII characters")
		case r == '"' || r == '\'' || r == '<' || r == '>':
			return "", perr.Unavailablef("ANTHROPIC_API_KEY contains quotes or angle brackets")
		}
	}
	return key, nil
}

// Model reports the configured model name
func (c *Client) Model() string { return c.cfg.Model }

// Complete sends one user prompt and returns the concatenated text blocks
func (c *Client) Complete(ctx context.Context, prompt string) (out string, err error) {
	ctx, span := tracing.Start(ctx, "model.complete",
		attribute.String("model", c.cfg.Model),
		attribute.Int("prompt_bytes", len(prompt)),
	)
	defer func() { tracing.End(span, err) }()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	system := c.cfg.System
	if system == "" {
		system = DefaultSystem
	}

	start := time.Now()
	resp, err := c.msgs.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.cfg.Model),
		MaxTokens:   c.cfg.MaxTokens,
		System:      []sdk.TextBlockParam{{Text: system}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
		Temperature: sdk.Float(c.cfg.Temperature),
	})
	if err != nil {
		return "", classify(err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	out = strings.TrimSpace(sb.String())

	logger.C(ctx).Debug().
		Str("model", c.cfg.Model).
		Dur("took", time.Since(start)).
		Int64("input_tokens", resp.Usage.InputTokens).
		Int64("output_tokens", resp.Usage.OutputTokens).
		Str("response", out).
		Msg("model response")

	if out == "" {
		return "", perr.Upstreamf("model returned an empty response")
	}
	return out, nil
}

// classify maps sdk and transport failures onto project codes so the retry policy can judge them
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "model call interrupted")
	}
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		switch st := apiErr.StatusCode; {
		case st == http.StatusUnauthorized || st == http.StatusForbidden:
			return perr.Wrapf(err, perr.ErrorCodeUnauthorized, "model rejected credentials (%d)", st)
		case st == http.StatusTooManyRequests:
			return perr.Wrap(err, perr.ErrorCodeTooManyRequests, "model rate limited")
		case st >= 500:
			return perr.Wrapf(err, perr.ErrorCodeUpstream, "model service error (%d)", st)
		default:
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "model rejected request (%d)", st)
		}
	}
	return perr.Wrap(err, perr.ErrorCodeUpstream, "model call failed")
}
