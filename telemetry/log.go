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

// Log is a single log record in the wire model. Records derived from span
// events always carry "span.id" and "trace.id" attributes referencing the
// span the event was attached to.
type Log struct {
	// Message is the log text; for records derived from span events this
	// is the event name.
	Message string `json:"message"`
	// Timestamp is the record time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`
	// Attributes holds the record's attributes.
	Attributes *Attributes `json:"attributes,omitempty"`
}

// LogBatch is the unit of log transmission: a set of log records plus the
// attributes common to all of them. Like SpanBatch it has set semantics:
// records equal by full value collapse to one entry at construction.
type LogBatch struct {
	logs   []Log
	common *Attributes
}

// NewLogBatch builds a batch from log records and the shared common
// attributes, collapsing duplicate records.
func NewLogBatch(logs []Log, common *Attributes) *LogBatch {
	return &LogBatch{
		logs:   dedupe(logs, Log.fingerprint),
		common: common,
	}
}

// Logs returns the distinct records in first-occurrence order. The slice is
// owned by the batch; callers must not modify it.
func (b *LogBatch) Logs() []Log { return b.logs }

// CommonAttributes returns the attributes shared by every record in the
// batch. The collection is shared; callers must treat it as read-only.
func (b *LogBatch) CommonAttributes() *Attributes { return b.common }

// Len returns the number of distinct records in the batch.
func (b *LogBatch) Len() int { return len(b.logs) }

// MarshalJSON encodes the batch as its common attributes alongside the log
// list.
func (b *LogBatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Common *Attributes `json:"common,omitempty"`
		Logs   []Log       `json:"logs"`
	}{Common: b.common, Logs: b.logs})
}
