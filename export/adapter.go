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
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/harvest/telemetry"
)

// Values of the two identifying attributes every batch carries.
const (
	instrumentationProvider = "opentelemetry"
	collectorName           = "harvest-opentelemetry-exporter"
)

// SpanBatchAdapter converts completed SDK spans into wire-model batches: a
// span batch, and a log batch derived from span events.
//
// The adapter holds only the common attributes fixed at construction, so one
// instance may be shared by any number of goroutines. Both operations are
// pure: they never mutate their input, never fail, and yield equal batches
// for equal input.
//
// The adapter trusts the SDK's producer contract for identifiers: span and
// trace ids are hex-encoded exactly as received and never replaced with
// invented placeholders, even if an upstream bug hands over zero values.
type SpanBatchAdapter struct {
	common *telemetry.Attributes
	merger AttributeMerger
}

// NewSpanBatchAdapter builds an adapter whose batches carry base plus the
// two fixed identifying attributes, instrumentation.provider and
// collector.name. base may be nil; it is copied, so later changes to it do
// not reach the adapter. A nil merger selects DefaultMerger.
func NewSpanBatchAdapter(base *telemetry.Attributes, merger AttributeMerger) *SpanBatchAdapter {
	if merger == nil {
		merger = DefaultMerger{}
	}
	common := base.Copy().
		Put(keyInstrumentationProvider, instrumentationProvider).
		Put(keyCollectorName, collectorName)
	return &SpanBatchAdapter{common: common, merger: merger}
}

// CommonAttributes returns the collection attached to every batch this
// adapter produces. Callers must treat it as read-only.
func (a *SpanBatchAdapter) CommonAttributes() *telemetry.Attributes {
	return a.common
}

// AdaptToSpanBatch converts spans into a wire-model span batch. The input
// may be empty; the result then carries no spans but still the common
// attributes.
func (a *SpanBatchAdapter) AdaptToSpanBatch(spans []sdktrace.ReadOnlySpan) *telemetry.SpanBatch {
	out := make([]telemetry.Span, 0, len(spans))
	for _, span := range spans {
		out = append(out, a.convertSpan(span))
	}
	return telemetry.NewSpanBatch(out, a.common)
}

// AdaptEventsAsLogs converts the events of the given spans into a
// wire-model log batch. Every record's message is the event name and its
// attributes always include span.id and trace.id for the owning span,
// overwriting same-named event attributes.
func (a *SpanBatchAdapter) AdaptEventsAsLogs(spans []sdktrace.ReadOnlySpan) *telemetry.LogBatch {
	var out []telemetry.Log
	for _, span := range spans {
		sc := span.SpanContext()
		spanID := sc.SpanID().String()
		traceID := sc.TraceID().String()
		for _, event := range span.Events() {
			attrs := a.merger.Convert(event.Attributes)
			attrs.Put(keySpanID, spanID).Put(keyTraceID, traceID)
			out = append(out, telemetry.Log{
				Message:    event.Name,
				Timestamp:  event.Time.UnixMilli(),
				Attributes: attrs,
			})
		}
	}
	return telemetry.NewLogBatch(out, a.common)
}

func (a *SpanBatchAdapter) convertSpan(span sdktrace.ReadOnlySpan) telemetry.Span {
	sc := span.SpanContext()
	out := telemetry.Span{
		ID:         sc.SpanID().String(),
		TraceID:    sc.TraceID().String(),
		Timestamp:  span.StartTime().UnixMilli(),
		DurationMs: float64(span.EndTime().Sub(span.StartTime())) / float64(time.Millisecond),
		Attributes: a.spanAttributes(span),
	}
	if name := span.Name(); name != "" {
		out.Name = &name
	}
	if parent := span.Parent().SpanID(); parent.IsValid() {
		hex := parent.String()
		out.ParentID = &hex
	}
	return out
}

// spanAttributes applies the derivation order: span-intrinsic attributes
// and kind first, then error context, then instrumentation scope and
// resource. Later steps win key collisions.
func (a *SpanBatchAdapter) spanAttributes(span sdktrace.ReadOnlySpan) *telemetry.Attributes {
	attrs := a.merger.Convert(span.Attributes())
	attrs.Put(keySpanKind, spanKindName(span.SpanKind()))
	if status := span.Status(); status.Code == codes.Error && status.Description != "" {
		attrs.Put(keyErrorMessage, status.Description)
	}
	return a.merger.MergeInstrumentation(attrs, span.InstrumentationScope(), span.Resource())
}

// spanKindName reports the upper-case wire name of kind.
func spanKindName(kind trace.SpanKind) string {
	switch kind {
	case trace.SpanKindInternal:
		return "INTERNAL"
	case trace.SpanKindServer:
		return "SERVER"
	case trace.SpanKindClient:
		return "CLIENT"
	case trace.SpanKindProducer:
		return "PRODUCER"
	case trace.SpanKindConsumer:
		return "CONSUMER"
	default:
		return "UNSPECIFIED"
	}
}
