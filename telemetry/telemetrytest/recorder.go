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

// Package telemetrytest provides in-memory sender implementations for
// testing code that produces telemetry batches.
package telemetrytest

import (
	"context"
	"sync"

	"github.com/tombee/harvest/telemetry"
)

// Recorder is an in-memory SpanSender and LogSender that stores every batch
// it receives. It is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	spanBatches []*telemetry.SpanBatch
	logBatches  []*telemetry.LogBatch
}

var (
	_ telemetry.SpanSender = (*Recorder)(nil)
	_ telemetry.LogSender  = (*Recorder)(nil)
)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SendSpans records the batch and returns nil.
func (r *Recorder) SendSpans(_ context.Context, batch *telemetry.SpanBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spanBatches = append(r.spanBatches, batch)
	return nil
}

// SendLogs records the batch and returns nil.
func (r *Recorder) SendLogs(_ context.Context, batch *telemetry.LogBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logBatches = append(r.logBatches, batch)
	return nil
}

// SpanBatches returns a snapshot of the span batches received so far.
func (r *Recorder) SpanBatches() []*telemetry.SpanBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*telemetry.SpanBatch(nil), r.spanBatches...)
}

// LogBatches returns a snapshot of the log batches received so far.
func (r *Recorder) LogBatches() []*telemetry.LogBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*telemetry.LogBatch(nil), r.logBatches...)
}

// Reset discards all recorded batches.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spanBatches = nil
	r.logBatches = nil
}

// FailSender is a SpanSender and LogSender that always returns Err. Use it
// to exercise failure paths.
type FailSender struct {
	Err error
}

var (
	_ telemetry.SpanSender = FailSender{}
	_ telemetry.LogSender  = FailSender{}
)

// SendSpans returns the configured error.
func (f FailSender) SendSpans(context.Context, *telemetry.SpanBatch) error {
	return f.Err
}

// SendLogs returns the configured error.
func (f FailSender) SendLogs(context.Context, *telemetry.LogBatch) error {
	return f.Err
}
