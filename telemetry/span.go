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

package telemetry

import "encoding/json"

// Span is a single completed operation within a trace, expressed in the
// wire model.
//
// ParentID and Name are pointers so that absence is distinct from the zero
// value: a root span has a nil ParentID, and a span whose source name was
// empty carries a nil Name rather than an empty string.
type Span struct {
	// ID is the lower-hex span identifier. Never empty for well-formed
	// producer input.
	ID string `json:"id"`
	// TraceID is the lower-hex trace identifier. Never empty for
	// well-formed producer input.
	TraceID string `json:"trace.id"`
	// ParentID is the lower-hex identifier of the parent span, or nil for
	// a root span.
	ParentID *string `json:"parent.id,omitempty"`
	// Name is the operation name, or nil when the source span had none.
	Name *string `json:"name,omitempty"`
	// Timestamp is the span start in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`
	// DurationMs is the span duration in fractional milliseconds.
	// Sub-millisecond precision is preserved. The value is not clamped;
	// an end time before the start time yields a negative duration.
	DurationMs float64 `json:"duration.ms"`
	// Attributes holds the span's own attributes.
	Attributes *Attributes `json:"attributes,omitempty"`
}

// SpanBatch is the unit of span transmission: a set of spans plus the
// attributes common to all of them.
//
// Batches have set semantics. Spans equal by full value collapse to a single
// entry at construction, so a batch may hold fewer spans than were passed
// in; the first occurrence keeps its position. This is deliberate, not a
// data loss bug.
type SpanBatch struct {
	spans  []Span
	common *Attributes
}

// NewSpanBatch builds a batch from spans and the shared common attributes,
// collapsing duplicate spans.
func NewSpanBatch(spans []Span, common *Attributes) *SpanBatch {
	return &SpanBatch{
		spans:  dedupe(spans, Span.fingerprint),
		common: common,
	}
}

// Spans returns the distinct spans in first-occurrence order. The slice is
// owned by the batch; callers must not modify it.
func (b *SpanBatch) Spans() []Span { return b.spans }

// CommonAttributes returns the attributes shared by every span in the
// batch. The collection is shared; callers must treat it as read-only.
func (b *SpanBatch) CommonAttributes() *Attributes { return b.common }

// Len returns the number of distinct spans in the batch.
func (b *SpanBatch) Len() int { return len(b.spans) }

// MarshalJSON encodes the batch as its common attributes alongside the span
// list.
func (b *SpanBatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Common *Attributes `json:"common,omitempty"`
		Spans  []Span      `json:"spans"`
	}{Common: b.common, Spans: b.spans})
}
