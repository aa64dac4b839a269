package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingOptions configures the Jaeger exporter.
type TracingOptions struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	SampleRatio    float64
}

// Tracing wraps the SDK tracer provider.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

// NewTracing exports spans to a Jaeger collector and installs the provider
// globally.
func NewTracing(opts TracingOptions) (*Tracing, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.Endpoint)))
	if err != nil {
		return nil, fmt.Errorf("create jaeger exporter: %w", err)
	}
	return newTracing(opts, sdktrace.WithBatcher(exporter)), nil
}

// NewTracingWithProcessor is used by tests to capture spans in memory.
func NewTracingWithProcessor(opts TracingOptions, sp sdktrace.SpanProcessor) *Tracing {
	return newTracing(opts, sdktrace.WithSpanProcessor(sp))
}

func newTracing(opts TracingOptions, export sdktrace.TracerProviderOption) *Tracing {
	ratio := opts.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("service.version", opts.ServiceVersion),
	)

	tp := sdktrace.NewTracerProvider(
		export,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)

	return &Tracing{provider: tp}
}

// Tracer returns a named tracer, or a no-op tracer when t is nil.
func (t *Tracing) Tracer(name string) trace.Tracer {
	if t == nil || t.provider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return t.provider.Tracer(name)
}

func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
