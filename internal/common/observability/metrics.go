package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records flow job metrics through an OpenTelemetry meter
// exported in Prometheus format.
type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	resolutions   otelmetric.Int64Counter
}

// New registers the exporter with the default Prometheus registerer and
// installs the meter provider globally.
func New(serviceName string) (*Observability, error) {
	o, err := NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(o.meterProvider)
	return o, nil
}

// NewWithRegisterer is New without touching global state.
func NewWithRegisterer(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"flow.jobs.processed",
		otelmetric.WithDescription("Number of flow jobs processed"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		"flow.jobs.duration",
		otelmetric.WithDescription("Flow job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	resolutions, err := meter.Int64Counter(
		"flow.resolutions",
		otelmetric.WithDescription("Structured results by the stage that produced them"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider: provider,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
		resolutions:   resolutions,
	}, nil
}

func (o *Observability) RecordJobProcessed(ctx context.Context, flow, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, flow string, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("status", status),
	))
}

// RecordResolution counts one structured result for flow by its source.
func (o *Observability) RecordResolution(ctx context.Context, flow, source string) {
	if o == nil || o.resolutions == nil {
		return
	}
	o.resolutions.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("source", source),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
