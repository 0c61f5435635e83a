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
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/metric"
	"gopkg.in/yaml.v3"

	"github.com/tombee/harvest/telemetry"
)

// ErrInvalidConfig marks configuration validation failures.
var ErrInvalidConfig = errors.New("invalid exporter config")

// Config configures an Exporter. The yaml-tagged fields are declarative and
// can be loaded with ParseConfig; senders and other runtime dependencies
// are wired in code.
type Config struct {
	// ServiceName, when non-empty, is put into the common attributes as
	// service.name before CommonAttributes is applied.
	ServiceName string `yaml:"service_name"`

	// CommonAttributes are attached to every produced batch, alongside the
	// identifying attributes the adapter always adds.
	CommonAttributes map[string]any `yaml:"common_attributes"`

	// SpanSender receives every non-empty span batch. Required.
	SpanSender telemetry.SpanSender `yaml:"-"`

	// LogSender receives every non-empty log batch derived from span
	// events. Optional; leave nil to drop event logs.
	LogSender telemetry.LogSender `yaml:"-"`

	// Merger overrides how attribute collections are built and merged.
	Merger AttributeMerger `yaml:"-"`

	// Logger receives export diagnostics.
	Logger *slog.Logger `yaml:"-"`

	// MeterProvider enables exporter self-metrics when non-nil.
	MeterProvider metric.MeterProvider `yaml:"-"`
}

// DefaultConfig returns a Config with the runtime defaults filled in.
// Senders still need to be set by the caller.
func DefaultConfig() Config {
	return Config{
		Merger: DefaultMerger{},
		Logger: slog.Default(),
	}
}

// ParseConfig parses a YAML document into a Config, starting from
// DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can produce a working exporter.
func (c Config) Validate() error {
	if c.SpanSender == nil {
		return fmt.Errorf("%w: span sender is required", ErrInvalidConfig)
	}
	return nil
}

// commonAttributes builds the base collection handed to the adapter:
// service.name first when set, then the user mapping in sorted key order so
// the result is deterministic.
func (c Config) commonAttributes() *telemetry.Attributes {
	attrs := telemetry.NewAttributes()
	if c.ServiceName != "" {
		attrs.Put(keyServiceName, c.ServiceName)
	}
	keys := make([]string, 0, len(c.CommonAttributes))
	for k := range c.CommonAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs.Put(k, c.CommonAttributes[k])
	}
	return attrs
}
