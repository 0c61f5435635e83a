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
Package telemetry defines the vendor-neutral wire model for exported trace
data: spans, log records, attribute collections, and the batches that group
them for transmission.

The package is deliberately free of OpenTelemetry SDK imports so that
backends and tests can depend on the model without pulling in the SDK. The
bridge from SDK span data into this model lives in the export package.

# Overview

The model consists of:

  - Attributes: an ordered key/value collection with unique keys. Writing an
    existing key replaces the value in place; iteration follows first
    insertion order. Values are normalized to string, bool, int64, float64,
    and homogeneous slices of those.
  - Span: one completed trace operation. Optional fields (parent, name) are
    pointers, so absence never hides behind a zero value.
  - Log: one log record, typically derived from a span event; such records
    carry "span.id" and "trace.id" back-references.
  - SpanBatch / LogBatch: the transmission units. A batch is a set, not a
    list: entries equal by full value collapse to one at construction, and
    every entry shares the batch's common attributes.

# Batches Are Sets

Batch construction deduplicates by full-value equality (all fields;
attribute order ignored; floats by canonical bit pattern). Input cardinality
therefore does not always equal output cardinality. Callers that need exact
pass-through must ensure their entities differ in at least one field.

# Senders

SpanSender and LogSender are the boundary to the outside world:

	type SpanSender interface {
	    SendSpans(ctx context.Context, batch *SpanBatch) error
	}

Everything about delivery (framing, authentication, scheduling, retries) is
the sender's concern. The telemetrytest subpackage provides an in-memory
Recorder for tests.
*/
package telemetry
