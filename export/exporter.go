// Copyright 2026 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tombee/harvest/telemetry"
)

// Exporter bridges the OpenTelemetry SDK to wire-model senders. It
// implements sdktrace.SpanExporter: every batch of completed SDK spans is
// adapted into a span batch and, when a log sender is configured, a log
// batch derived from span events.
//
// Register it on a tracer provider with sdktrace.WithBatcher (production)
// or sdktrace.WithSyncer (tests).
type Exporter struct {
	adapter *SpanBatchAdapter
	spans   telemetry.SpanSender
	logs    telemetry.LogSender
	logger  *slog.Logger
	metrics *MetricsCollector
}

var _ sdktrace.SpanExporter = (*Exporter)(nil)

// NewExporter builds an Exporter from cfg. See Config for required and
// optional fields.
func NewExporter(cfg Config) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var metrics *MetricsCollector
	if cfg.MeterProvider != nil {
		var err error
		metrics, err = NewMetricsCollector(cfg.MeterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics collector: %w", err)
		}
	}

	return &Exporter{
		adapter: NewSpanBatchAdapter(cfg.commonAttributes(), cfg.Merger),
		spans:   cfg.SpanSender,
		logs:    cfg.LogSender,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// ExportSpans adapts spans into wire batches and hands them to the
// configured senders. Empty batches are not transmitted. The first send
// failure is returned; whether to retry is the span processor's decision.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	start := time.Now()

	spanBatch := e.adapter.AdaptToSpanBatch(spans)
	logBatch := e.adapter.AdaptEventsAsLogs(spans)
	if e.metrics != nil {
		e.metrics.RecordAdapted(ctx, spanBatch.Len(), logBatch.Len())
	}

	if spanBatch.Len() > 0 {
		if err := e.spans.SendSpans(ctx, spanBatch); err != nil {
			if e.metrics != nil {
				e.metrics.RecordSendFailure(ctx, signalSpans)
			}
			e.logger.Warn("failed to send span batch", "spans", spanBatch.Len(), "error", err)
			return fmt.Errorf("failed to send span batch: %w", err)
		}
		if e.metrics != nil {
			e.metrics.RecordBatchSent(ctx, signalSpans)
		}
	}

	if e.logs != nil && logBatch.Len() > 0 {
		if err := e.logs.SendLogs(ctx, logBatch); err != nil {
			if e.metrics != nil {
				e.metrics.RecordSendFailure(ctx, signalLogs)
			}
			e.logger.Warn("failed to send log batch", "logs", logBatch.Len(), "error", err)
			return fmt.Errorf("failed to send log batch: %w", err)
		}
		if e.metrics != nil {
			e.metrics.RecordBatchSent(ctx, signalLogs)
		}
	}

	if e.metrics != nil {
		e.metrics.RecordExportDuration(ctx, time.Since(start))
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter. Sender lifecycle belongs to
// the caller, so there is nothing to release here.
func (e *Exporter) Shutdown(context.Context) error {
	return nil
}
