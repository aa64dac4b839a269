package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OTel meter provider bridged into the Prometheus
// registry, plus an optional tracer provider.
type Observability struct {
	meterProvider *metric.MeterProvider
	tracing       *Tracing
	meter         otelmetric.Meter
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
}

// New registers the OTel Prometheus exporter. On failure it returns a
// recorder whose methods are no-ops.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"verification.jobs.processed",
		otelmetric.WithDescription("Number of verification jobs processed"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	jobDuration, err := meter.Float64Histogram(
		"verification.jobs.duration",
		otelmetric.WithDescription("Verification job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
	}, nil
}

// AttachTracing hands the tracer provider to Shutdown.
func (o *Observability) AttachTracing(t *Tracing) {
	o.tracing = t
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if o.tracing != nil {
		_ = o.tracing.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
