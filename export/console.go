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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tombee/harvest/telemetry"
)

// ConsoleConfig configures a ConsoleSender.
type ConsoleConfig struct {
	// Writer receives the encoded batches. Defaults to os.Stdout.
	Writer io.Writer
	// Pretty switches to indented multi-line JSON.
	Pretty bool
}

// ConsoleSender writes batches as JSON to a writer. It is a development and
// debugging sink, not a transport: one JSON document per batch, writes
// serialized by a mutex so concurrent exports do not interleave.
type ConsoleSender struct {
	mu     sync.Mutex
	out    io.Writer
	pretty bool
}

var (
	_ telemetry.SpanSender = (*ConsoleSender)(nil)
	_ telemetry.LogSender  = (*ConsoleSender)(nil)
)

// NewConsoleSender creates a console sender.
func NewConsoleSender(cfg ConsoleConfig) *ConsoleSender {
	out := cfg.Writer
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSender{out: out, pretty: cfg.Pretty}
}

// SendSpans writes the span batch as JSON.
func (c *ConsoleSender) SendSpans(_ context.Context, batch *telemetry.SpanBatch) error {
	return c.write(batch)
}

// SendLogs writes the log batch as JSON.
func (c *ConsoleSender) SendLogs(_ context.Context, batch *telemetry.LogBatch) error {
	return c.write(batch)
}

func (c *ConsoleSender) write(batch any) error {
	var (
		data []byte
		err  error
	)
	if c.pretty {
		data, err = json.MarshalIndent(batch, "", "  ")
	} else {
		data, err = json.Marshal(batch)
	}
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	return nil
}
