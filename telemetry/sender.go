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

import "context"

// SpanSender delivers span batches to a telemetry backend. Implementations
// own transport framing, authentication, flush cadence, and retry policy;
// none of that leaks into the transform layer.
type SpanSender interface {
	SendSpans(ctx context.Context, batch *SpanBatch) error
}

// LogSender delivers log batches to a telemetry backend.
type LogSender interface {
	SendLogs(ctx context.Context, batch *LogBatch) error
}
