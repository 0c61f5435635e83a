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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/tombee/harvest/telemetry"
)

// Attribute keys the adapter writes in addition to span-intrinsic data.
const (
	keySpanKind                = "span.kind"
	keyErrorMessage            = "error.message"
	keyInstrumentationName     = "instrumentation.name"
	keyInstrumentationVersion  = "instrumentation.version"
	keyInstrumentationProvider = "instrumentation.provider"
	keyCollectorName           = "collector.name"
	keySpanID                  = "span.id"
	keyTraceID                 = "trace.id"
	keyServiceName             = "service.name"
)

// AttributeMerger builds and extends wire-model attribute collections from
// SDK-typed sources. The adapter takes one at construction, so tests and
// callers with special mapping needs can substitute their own.
//
// Merge methods may mutate base in place and must return the updated
// collection.
type AttributeMerger interface {
	// Convert turns SDK key/values into a fresh collection, preserving key
	// names and coercing values into the wire value domain.
	Convert(kvs []attribute.KeyValue) *telemetry.Attributes

	// MergeInstrumentation merges the scope name and version under the
	// instrumentation.* keys, each only when non-empty, and then folds in
	// the resource attributes when res is non-nil.
	MergeInstrumentation(base *telemetry.Attributes, scope instrumentation.Scope, res *resource.Resource) *telemetry.Attributes

	// MergeResource folds the resource attributes into base. Resource
	// values win key collisions.
	MergeResource(base *telemetry.Attributes, res *resource.Resource) *telemetry.Attributes
}

// DefaultMerger is the AttributeMerger used when none is configured.
type DefaultMerger struct{}

var _ AttributeMerger = DefaultMerger{}

// Convert implements AttributeMerger.
func (DefaultMerger) Convert(kvs []attribute.KeyValue) *telemetry.Attributes {
	attrs := telemetry.NewAttributes()
	for _, kv := range kvs {
		attrs.Put(string(kv.Key), kv.Value.AsInterface())
	}
	return attrs
}

// MergeInstrumentation implements AttributeMerger.
func (m DefaultMerger) MergeInstrumentation(base *telemetry.Attributes, scope instrumentation.Scope, res *resource.Resource) *telemetry.Attributes {
	if scope.Name != "" {
		base.Put(keyInstrumentationName, scope.Name)
	}
	if scope.Version != "" {
		base.Put(keyInstrumentationVersion, scope.Version)
	}
	return m.MergeResource(base, res)
}

// MergeResource implements AttributeMerger.
func (DefaultMerger) MergeResource(base *telemetry.Attributes, res *resource.Resource) *telemetry.Attributes {
	if res == nil {
		return base
	}
	for _, kv := range res.Attributes() {
		base.Put(string(kv.Key), kv.Value.AsInterface())
	}
	return base
}
