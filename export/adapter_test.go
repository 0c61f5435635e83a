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
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/harvest/telemetry"
)

// testTraceID is the fixed trace identifier shared by all stub spans.
var testTraceID = trace.TraceID{15: 0x01}

// spanContext builds a sampled span context whose span id ends in the given
// byte.
func spanContext(id byte) trace.SpanContext {
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    testTraceID,
		SpanID:     trace.SpanID{7: id},
		TraceFlags: trace.FlagsSampled,
	})
}

// spanStub returns a minimal completed span ready for adaptation. Tests
// override individual fields as needed.
func spanStub(name string) tracetest.SpanStub {
	return tracetest.SpanStub{
		Name:        name,
		SpanContext: spanContext(0x01),
		SpanKind:    trace.SpanKindInternal,
		StartTime:   time.Unix(1, 0),
		EndTime:     time.Unix(1, 2_500_000),
	}
}

func snapshots(stubs ...tracetest.SpanStub) []sdktrace.ReadOnlySpan {
	out := make([]sdktrace.ReadOnlySpan, len(stubs))
	for i, s := range stubs {
		out[i] = s.Snapshot()
	}
	return out
}

func TestAdaptToSpanBatch_Identifiers(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	root := spanStub("root")
	child := spanStub("child")
	child.SpanContext = spanContext(0x02)
	child.Parent = spanContext(0x01)

	batch := adapter.AdaptToSpanBatch(snapshots(root, child))
	require.Equal(t, 2, batch.Len())

	spans := batch.Spans()
	assert.Equal(t, "0000000000000001", spans[0].ID)
	assert.Equal(t, "00000000000000000000000000000001", spans[0].TraceID)
	assert.Nil(t, spans[0].ParentID, "root span must carry no parent id")

	assert.Equal(t, "0000000000000002", spans[1].ID)
	require.NotNil(t, spans[1].ParentID)
	assert.Equal(t, "0000000000000001", *spans[1].ParentID)
}

func TestAdaptToSpanBatch_OmitsEmptyName(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	named := spanStub("resolve-user")
	unnamed := spanStub("")
	unnamed.SpanContext = spanContext(0x02)

	spans := adapter.AdaptToSpanBatch(snapshots(named, unnamed)).Spans()
	require.Len(t, spans, 2)

	require.NotNil(t, spans[0].Name)
	assert.Equal(t, "resolve-user", *spans[0].Name)
	assert.Nil(t, spans[1].Name, "empty source name must map to absent, not empty string")
}

func TestAdaptToSpanBatch_Timing(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := spanStub("op")
	stub.StartTime = time.Unix(1, 0)
	stub.EndTime = stub.StartTime.Add(2500 * time.Microsecond)

	span := adapter.AdaptToSpanBatch(snapshots(stub)).Spans()[0]
	assert.Equal(t, int64(1000), span.Timestamp)
	assert.Equal(t, 2.5, span.DurationMs, "sub-millisecond precision must survive")
}

func TestAdaptToSpanBatch_TimestampFloorsSubMillisecond(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := spanStub("op")
	stub.StartTime = time.Unix(1, 999_999)
	stub.EndTime = stub.StartTime.Add(time.Millisecond)

	span := adapter.AdaptToSpanBatch(snapshots(stub)).Spans()[0]
	assert.Equal(t, int64(1000), span.Timestamp)
}

func TestAdaptToSpanBatch_NegativeDurationNotClamped(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := spanStub("op")
	stub.StartTime = time.Unix(2, 0)
	stub.EndTime = time.Unix(1, 0)

	span := adapter.AdaptToSpanBatch(snapshots(stub)).Spans()[0]
	assert.Equal(t, -1000.0, span.DurationMs)
}

func TestAdaptToSpanBatch_SpanKind(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	tests := []struct {
		kind trace.SpanKind
		want string
	}{
		{trace.SpanKindInternal, "INTERNAL"},
		{trace.SpanKindServer, "SERVER"},
		{trace.SpanKindClient, "CLIENT"},
		{trace.SpanKindProducer, "PRODUCER"},
		{trace.SpanKindConsumer, "CONSUMER"},
		{trace.SpanKindUnspecified, "UNSPECIFIED"},
	}

	for _, tt := range tests {
		stub := spanStub("op")
		stub.SpanKind = tt.kind

		span := adapter.AdaptToSpanBatch(snapshots(stub)).Spans()[0]
		kind, ok := span.Attributes.Get("span.kind")
		require.True(t, ok)
		assert.Equal(t, tt.want, kind)
	}
}

func TestAdaptToSpanBatch_ErrorMessage(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	tests := []struct {
		name    string
		status  sdktrace.Status
		present bool
	}{
		{"error with description", sdktrace.Status{Code: codes.Error, Description: "connection refused"}, true},
		{"error without description", sdktrace.Status{Code: codes.Error}, false},
		{"ok with description", sdktrace.Status{Code: codes.Ok, Description: "connection refused"}, false},
		{"unset with description", sdktrace.Status{Code: codes.Unset, Description: "connection refused"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := spanStub("op")
			stub.Status = tt.status

			span := adapter.AdaptToSpanBatch(snapshots(stub)).Spans()[0]
			got, ok := span.Attributes.Get("error.message")
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, "connection refused", got)
			}
		})
	}
}

func TestAdaptToSpanBatch_MergesScopeAndResource(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := spanStub("op")
	stub.Attributes = []attribute.KeyValue{
		attribute.String("region", "span-value"),
		attribute.Int("retries", 2),
	}
	stub.InstrumentationLibrary = instrumentation.Scope{Name: "httpclient", Version: "0.3.1"}
	stub.Resource = resource.NewSchemaless(
		attribute.String("region", "eu-west-1"),
		attribute.String("host.name", "worker-7"),
	)

	attrs := adapter.AdaptToSpanBatch(snapshots(stub)).Spans()[0].Attributes

	name, _ := attrs.Get("instrumentation.name")
	assert.Equal(t, "httpclient", name)
	version, _ := attrs.Get("instrumentation.version")
	assert.Equal(t, "0.3.1", version)

	// Resource values win key collisions with span attributes.
	region, _ := attrs.Get("region")
	assert.Equal(t, "eu-west-1", region)
	host, _ := attrs.Get("host.name")
	assert.Equal(t, "worker-7", host)

	retries, _ := attrs.Get("retries")
	assert.Equal(t, int64(2), retries)
}

func TestAdaptToSpanBatch_EmptyScopeAddsNothing(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	span := adapter.AdaptToSpanBatch(snapshots(spanStub("op"))).Spans()[0]
	_, ok := span.Attributes.Get("instrumentation.name")
	assert.False(t, ok)
	_, ok = span.Attributes.Get("instrumentation.version")
	assert.False(t, ok)
}

func TestAdaptToSpanBatch_CollapsesDuplicateSpans(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	a := spanStub("op")
	b := spanStub("op")
	distinct := spanStub("op")
	distinct.SpanContext = spanContext(0x02)

	batch := adapter.AdaptToSpanBatch(snapshots(a, b, distinct))
	assert.Equal(t, 2, batch.Len(), "value-equal spans must collapse to one entry")
}

func TestAdapter_CommonAttributes(t *testing.T) {
	base := telemetry.NewAttributes().Put("service.name", "checkout")
	adapter := NewSpanBatchAdapter(base, nil)

	spanBatch := adapter.AdaptToSpanBatch(nil)
	logBatch := adapter.AdaptEventsAsLogs(nil)

	// Even empty batches carry the full common attribute set.
	assert.Equal(t, 0, spanBatch.Len())
	assert.Equal(t, 0, logBatch.Len())

	for _, common := range []*telemetry.Attributes{spanBatch.CommonAttributes(), logBatch.CommonAttributes()} {
		provider, _ := common.Get("instrumentation.provider")
		assert.Equal(t, "opentelemetry", provider)
		collector, _ := common.Get("collector.name")
		assert.Equal(t, "harvest-opentelemetry-exporter", collector)
		service, _ := common.Get("service.name")
		assert.Equal(t, "checkout", service)
	}
}

func TestAdapter_IdentifyingAttributesWin(t *testing.T) {
	base := telemetry.NewAttributes().Put("instrumentation.provider", "custom")
	adapter := NewSpanBatchAdapter(base, nil)

	provider, _ := adapter.CommonAttributes().Get("instrumentation.provider")
	assert.Equal(t, "opentelemetry", provider, "identifying attributes must not be overridable")
}

func TestAdapter_BaseCopiedAtConstruction(t *testing.T) {
	base := telemetry.NewAttributes().Put("env", "prod")
	adapter := NewSpanBatchAdapter(base, nil)

	base.Put("env", "changed").Put("late", true)

	env, _ := adapter.CommonAttributes().Get("env")
	assert.Equal(t, "prod", env)
	_, ok := adapter.CommonAttributes().Get("late")
	assert.False(t, ok)
}

func TestAdaptEventsAsLogs(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := spanStub("op")
	stub.Events = []sdktrace.Event{
		{
			Name: "cache.miss",
			Time: time.Unix(2, 0),
			Attributes: []attribute.KeyValue{
				attribute.String("cache.key", "user:42"),
			},
		},
		{
			Name: "retry",
			Time: time.Unix(3, 0),
		},
	}
	quiet := spanStub("quiet")
	quiet.SpanContext = spanContext(0x02)

	batch := adapter.AdaptEventsAsLogs(snapshots(stub, quiet))
	require.Equal(t, 2, batch.Len(), "spans without events contribute no records")

	logs := batch.Logs()
	assert.Equal(t, "cache.miss", logs[0].Message)
	assert.Equal(t, int64(2000), logs[0].Timestamp)

	key, _ := logs[0].Attributes.Get("cache.key")
	assert.Equal(t, "user:42", key)
	spanID, _ := logs[0].Attributes.Get("span.id")
	assert.Equal(t, "0000000000000001", spanID)
	traceID, _ := logs[0].Attributes.Get("trace.id")
	assert.Equal(t, "00000000000000000000000000000001", traceID)

	assert.Equal(t, "retry", logs[1].Message)
	assert.Equal(t, int64(3000), logs[1].Timestamp)
}

func TestAdaptEventsAsLogs_BackrefsWin(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := spanStub("op")
	stub.Events = []sdktrace.Event{
		{
			Name: "spoofed",
			Time: time.Unix(2, 0),
			Attributes: []attribute.KeyValue{
				attribute.String("span.id", "ffffffffffffffff"),
				attribute.String("trace.id", "ffffffffffffffffffffffffffffffff"),
			},
		},
	}

	record := adapter.AdaptEventsAsLogs(snapshots(stub)).Logs()[0]
	spanID, _ := record.Attributes.Get("span.id")
	assert.Equal(t, "0000000000000001", spanID, "owning span id must overwrite event attributes")
	traceID, _ := record.Attributes.Get("trace.id")
	assert.Equal(t, "00000000000000000000000000000001", traceID)
}

func TestAdaptEventsAsLogs_CollapsesDuplicateRecords(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	event := sdktrace.Event{Name: "tick", Time: time.Unix(2, 0)}
	stub := spanStub("op")
	stub.Events = []sdktrace.Event{event, event}

	batch := adapter.AdaptEventsAsLogs(snapshots(stub))
	assert.Equal(t, 1, batch.Len())
}

func TestAdapter_EndToEnd(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := tracetest.SpanStub{
		Name:        "checkout",
		SpanContext: spanContext(0x01),
		SpanKind:    trace.SpanKindInternal,
		StartTime:   time.Unix(1, 0),
		EndTime:     time.Unix(1, 3_000_000),
		Attributes:  []attribute.KeyValue{attribute.Int("items", 1)},
		Status:      sdktrace.Status{Code: codes.Ok},
	}

	input := snapshots(stub)
	spanBatch := adapter.AdaptToSpanBatch(input)
	logBatch := adapter.AdaptEventsAsLogs(input)

	require.Equal(t, 1, spanBatch.Len())
	span := spanBatch.Spans()[0]

	assert.Equal(t, "0000000000000001", span.ID)
	assert.Equal(t, "00000000000000000000000000000001", span.TraceID)
	assert.Nil(t, span.ParentID)
	require.NotNil(t, span.Name)
	assert.Equal(t, "checkout", *span.Name)
	assert.Equal(t, int64(1000), span.Timestamp)
	assert.Equal(t, 3.0, span.DurationMs)

	assert.Equal(t, 2, span.Attributes.Len())
	items, _ := span.Attributes.Get("items")
	assert.Equal(t, int64(1), items)
	kind, _ := span.Attributes.Get("span.kind")
	assert.Equal(t, "INTERNAL", kind)

	assert.Equal(t, 0, logBatch.Len(), "a span without events yields an empty log batch")
	assert.True(t, spanBatch.CommonAttributes().Equal(logBatch.CommonAttributes()))
}

func TestAdapter_Deterministic(t *testing.T) {
	adapter := NewSpanBatchAdapter(telemetry.NewAttributes().Put("env", "test"), nil)

	stub := spanStub("op")
	stub.Attributes = []attribute.KeyValue{attribute.String("k", "v")}
	stub.Events = []sdktrace.Event{{Name: "e", Time: time.Unix(2, 0)}}
	input := snapshots(stub)

	firstSpans, err := json.Marshal(adapter.AdaptToSpanBatch(input))
	require.NoError(t, err)
	secondSpans, err := json.Marshal(adapter.AdaptToSpanBatch(input))
	require.NoError(t, err)
	assert.Equal(t, string(firstSpans), string(secondSpans))

	firstLogs, err := json.Marshal(adapter.AdaptEventsAsLogs(input))
	require.NoError(t, err)
	secondLogs, err := json.Marshal(adapter.AdaptEventsAsLogs(input))
	require.NoError(t, err)
	assert.Equal(t, string(firstLogs), string(secondLogs))
}

func TestAdapter_ConcurrentUse(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, nil)

	stub := spanStub("op")
	stub.Events = []sdktrace.Event{{Name: "e", Time: time.Unix(2, 0)}}
	input := snapshots(stub)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if adapter.AdaptToSpanBatch(input).Len() != 1 {
					t.Error("unexpected span batch size")
					return
				}
				if adapter.AdaptEventsAsLogs(input).Len() != 1 {
					t.Error("unexpected log batch size")
					return
				}
			}
		}()
	}
	wg.Wait()
}

// markerMerger tags every converted collection so tests can tell the
// configured merger was used.
type markerMerger struct {
	DefaultMerger
}

func (m markerMerger) Convert(kvs []attribute.KeyValue) *telemetry.Attributes {
	return m.DefaultMerger.Convert(kvs).Put("merger", "marker")
}

func TestAdapter_CustomMerger(t *testing.T) {
	adapter := NewSpanBatchAdapter(nil, markerMerger{})

	span := adapter.AdaptToSpanBatch(snapshots(spanStub("op"))).Spans()[0]
	v, ok := span.Attributes.Get("merger")
	require.True(t, ok, "configured merger must be used for conversion")
	assert.Equal(t, "marker", v)
}
