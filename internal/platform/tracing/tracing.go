// Package tracing wires OpenTelemetry spans around runs and model calls
package tracing

import (
	"context"

	"reviewpulse/internal/platform/config"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "reviewpulse"

// Config selects the exporter. Tracing stays a no-op unless Enabled
type Config struct {
	Enabled     bool
	EndpointURL string
	ServiceName string
	SampleRatio float64
}

// ConfigFromEnv reads OTEL_ENABLED, OTEL_ENDPOINT_URL and OTEL_SAMPLE_RATIO
func ConfigFromEnv(root config.Conf, service string) Config {
	c := root.Prefix("OTEL_")
	return Config{
		Enabled:     c.MayBool("ENABLED", false),
		EndpointURL: c.MayString("ENDPOINT_URL", "http://localhost:4318/v1/traces"),
		ServiceName: c.MayString("SERVICE_NAME", service),
		SampleRatio: c.MayFloat64("SAMPLE_RATIO", 1),
	}
}

// Shutdown flushes and stops the provider
type Shutdown func(context.Context) error

// Init installs a global tracer provider exporting over OTLP/HTTP
func Init(ctx context.Context, cfg Config) (Shutdown, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.EndpointURL))
	if err != nil {
		return noop, perr.Wrap(err, perr.ErrorCodeUnavailable, "otlp exporter")
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	)
	otel.SetTracerProvider(tp)
	logger.Named("tracing").Info().Str("endpoint", cfg.EndpointURL).Msg("tracing enabled")
	return tp.Shutdown, nil
}

// Start opens a span on the global provider
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentation).Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
