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

/*
Package export adapts completed OpenTelemetry SDK spans into the wire model
defined by the telemetry package and exports them through pluggable senders.

# Overview

The package has three layers:

  - SpanBatchAdapter: the pure transform. Given []sdktrace.ReadOnlySpan it
    produces a telemetry.SpanBatch, and separately a telemetry.LogBatch
    built from span events. All field provenance, optionality, numeric
    precision, and attribute-merge ordering rules live here.
  - AttributeMerger: the strategy for building attribute collections from
    SDK-typed sources. DefaultMerger covers standard behavior; tests can
    inject their own.
  - Exporter: an sdktrace.SpanExporter gluing the adapter to SpanSender and
    LogSender implementations, with slog diagnostics and optional
    self-metrics.

# Derivation Rules

Per span: ids are lower-hex; a span with an empty source name gets no name
at all; a root span (invalid parent id) gets no parent; the start timestamp
is floored to integer milliseconds while the duration keeps fractional
milliseconds. Attributes are derived in fixed precedence order, later steps
winning collisions:

 1. the span's own attributes, then span.kind
 2. error.message, only when the status is an error with a non-empty
    description
 3. instrumentation.name / instrumentation.version, then resource
    attributes

Every batch additionally carries the adapter's common attributes, which
always include instrumentation.provider and collector.name.

# Quick Start

Wire the exporter into a tracer provider:

	sender := export.NewConsoleSender(export.ConsoleConfig{})
	exporter, err := export.NewExporter(export.Config{
	    ServiceName: "checkout",
	    SpanSender:  sender,
	    LogSender:   sender,
	})
	if err != nil {
	    log.Fatal(err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	defer tp.Shutdown(context.Background())

Production deployments replace ConsoleSender with senders that speak the
backend's ingest protocol; those live outside this module behind the
telemetry.SpanSender and telemetry.LogSender interfaces.

# Self-Metrics

Supply a meter provider to count adapted spans, sent batches, and failures:

	provider, handler, err := export.NewPrometheusMeterProvider(nil)
	// mount handler on /metrics, pass provider in Config.MeterProvider

Metrics exposed:

  - harvest_spans_adapted_total
  - harvest_logs_adapted_total
  - harvest_batches_sent_total{signal}
  - harvest_send_failures_total{signal}
  - harvest_export_duration_seconds
*/
package export
