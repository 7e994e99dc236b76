package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "tagscan"

var (
	tracerOnce sync.Once
	shutdownFn func(context.Context) error
)

// TracingConfig selects the span exporter.  Only local exporters exist: the
// handheld has no collector to talk to.
type TracingConfig struct {
	Exporter string    // "none" (default) | "stdout"
	Service  string    // service.name resource attribute
	Writer   io.Writer // stdout exporter target; os.Stderr when nil
}

// InitTracing installs the global tracer provider once per process and
// returns its shutdown function.
func InitTracing(cfg TracingConfig) (func(context.Context) error, error) {
	var initErr error
	tracerOnce.Do(func() {
		exporter := strings.ToLower(strings.TrimSpace(cfg.Exporter))
		switch exporter {
		case "", "none":
			otel.SetTracerProvider(noop.NewTracerProvider())
			shutdownFn = func(context.Context) error { return nil }
			return
		case "stdout":
		default:
			initErr = fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
			return
		}

		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			initErr = fmt.Errorf("stdout exporter: %w", err)
			return
		}

		service := cfg.Service
		if service == "" {
			service = tracerName
		}
		tp := sdktrace.NewTracerProvider(
			// Syncer keeps span output ordered with the harness' own log lines.
			sdktrace.WithSyncer(exp),
			sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
		)
		otel.SetTracerProvider(tp)
		shutdownFn = tp.Shutdown
	})
	if shutdownFn == nil {
		shutdownFn = func(context.Context) error { return nil }
	}
	return shutdownFn, initErr
}

// StartSpan starts a span on the global tracer.  Without InitTracing the
// otel default (no-op) provider is used.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}
