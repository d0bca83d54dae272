// Package observability sets up OpenTelemetry tracing for the HTTP server.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/gaborage/nuxum/config"
)

// Exporter names accepted in tracing.exporter.
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// ErrUnknownExporter is returned for an unsupported tracing.exporter value.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Provider owns a tracer provider and its exporter.
type Provider interface {
	// TracerProvider returns the provider to pass to the server.
	TracerProvider() trace.TracerProvider

	// Enabled reports whether spans are recorded.
	Enabled() bool

	// Shutdown flushes pending spans and releases the exporter.
	Shutdown(ctx context.Context) error
}

type provider struct {
	tracerProvider *sdktrace.TracerProvider
}

type noopProvider struct{}

// NewProvider builds a provider from cfg. Spans are written to w by the stdout exporter
// (os.Stdout when w is nil). The "none" exporter records spans, so trace IDs still
// reach the request logs, but exports nothing. Disabled tracing yields a no-op provider.
// No global OpenTelemetry state is modified.
func NewProvider(cfg *config.Config, w io.Writer) (Provider, error) {
	if !cfg.Tracing.Enabled {
		return noopProvider{}, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.App.Name),
		semconv.ServiceVersion(cfg.App.Version),
		semconv.DeploymentEnvironmentName(cfg.App.Env),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	switch cfg.Tracing.Exporter {
	case ExporterStdout, "":
		if w == nil {
			w = os.Stdout
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case ExporterNone:
	default:
		return nil, fmt.Errorf("tracing exporter '%s': %w", cfg.Tracing.Exporter, ErrUnknownExporter)
	}

	return &provider{tracerProvider: sdktrace.NewTracerProvider(opts...)}, nil
}

func (p *provider) TracerProvider() trace.TracerProvider {
	return p.tracerProvider
}

func (p *provider) Enabled() bool {
	return true
}

func (p *provider) Shutdown(ctx context.Context) error {
	return p.tracerProvider.Shutdown(ctx)
}

func (noopProvider) TracerProvider() trace.TracerProvider {
	return noop.NewTracerProvider()
}

func (noopProvider) Enabled() bool {
	return false
}

func (noopProvider) Shutdown(context.Context) error {
	return nil
}
