package export

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metric attribute values distinguishing the two produced signals.
const (
	signalSpans = "spans"
	signalLogs  = "logs"
)

// MetricsCollector records exporter self-metrics through the OpenTelemetry
// metrics API.
type MetricsCollector struct {
	spansAdapted   metric.Int64Counter
	logsAdapted    metric.Int64Counter
	batchesSent    metric.Int64Counter
	sendFailures   metric.Int64Counter
	exportDuration metric.Float64Histogram
}

// NewMetricsCollector creates a collector using the given meter provider.
func NewMetricsCollector(meterProvider metric.MeterProvider) (*MetricsCollector, error) {
	meter := meterProvider.Meter("harvest")

	mc := &MetricsCollector{}

	var err error

	mc.spansAdapted, err = meter.Int64Counter(
		"harvest_spans_adapted_total",
		metric.WithDescription("Total number of spans adapted into wire batches"),
		metric.WithUnit("{span}"),
	)
	if err != nil {
		return nil, err
	}

	mc.logsAdapted, err = meter.Int64Counter(
		"harvest_logs_adapted_total",
		metric.WithDescription("Total number of log records derived from span events"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	mc.batchesSent, err = meter.Int64Counter(
		"harvest_batches_sent_total",
		metric.WithDescription("Total number of batches handed to senders"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, err
	}

	mc.sendFailures, err = meter.Int64Counter(
		"harvest_send_failures_total",
		metric.WithDescription("Total number of failed batch sends"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, err
	}

	mc.exportDuration, err = meter.Float64Histogram(
		"harvest_export_duration_seconds",
		metric.WithDescription("End-to-end duration of ExportSpans calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return mc, nil
}

// RecordAdapted records how many spans and log records one export produced.
func (mc *MetricsCollector) RecordAdapted(ctx context.Context, spans, logs int) {
	mc.spansAdapted.Add(ctx, int64(spans))
	mc.logsAdapted.Add(ctx, int64(logs))
}

// RecordBatchSent records a successful batch send for the given signal.
func (mc *MetricsCollector) RecordBatchSent(ctx context.Context, signal string) {
	mc.batchesSent.Add(ctx, 1, metric.WithAttributes(attribute.String("signal", signal)))
}

// RecordSendFailure records a failed batch send for the given signal.
func (mc *MetricsCollector) RecordSendFailure(ctx context.Context, signal string) {
	mc.sendFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("signal", signal)))
}

// RecordExportDuration records the wall time of one ExportSpans call.
func (mc *MetricsCollector) RecordExportDuration(ctx context.Context, d time.Duration) {
	mc.exportDuration.Record(ctx, d.Seconds())
}

// NewPrometheusMeterProvider builds a meter provider whose metrics are
// collected into a Prometheus registry, plus the handler serving the scrape
// endpoint for that registry. A nil registry allocates a fresh one.
//
// Pass the provider in Config.MeterProvider and mount the handler on the
// process's metrics mux. Callers own provider shutdown.
func NewPrometheusMeterProvider(registry *promclient.Registry) (*sdkmetric.MeterProvider, http.Handler, error) {
	if registry == nil {
		registry = promclient.NewRegistry()
	}
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return provider, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}
