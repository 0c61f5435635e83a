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

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attributes is an ordered collection of attribute key/value pairs.
//
// Keys are unique. Writing an existing key replaces its value but keeps the
// key's original position, so iteration order is the order of first
// insertion. Values are normalized on insertion to the wire value domain:
// string, bool, int64, float64, and homogeneous slices of those. Integer and
// float types of other widths are widened; values of any other type are
// stored as their formatted string form.
//
// Read methods are safe on a nil receiver and behave as an empty collection.
type Attributes struct {
	kv *orderedmap.OrderedMap[string, any]
}

// NewAttributes returns an empty attribute collection.
func NewAttributes() *Attributes {
	return &Attributes{kv: orderedmap.New[string, any]()}
}

// AttributesFromMap builds an attribute collection from a plain map. Keys
// are inserted in sorted order so the resulting collection is deterministic
// regardless of map iteration order.
func AttributesFromMap(m map[string]any) *Attributes {
	attrs := NewAttributes()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs.Put(k, m[k])
	}
	return attrs
}

// Put stores value under key, replacing any previous value for that key.
// It returns the receiver so calls can be chained.
func (a *Attributes) Put(key string, value any) *Attributes {
	a.kv.Set(key, normalizeValue(value))
	return a
}

// Get returns the value stored under key and whether the key is present.
func (a *Attributes) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	return a.kv.Get(key)
}

// Len returns the number of stored keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return a.kv.Len()
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, 0, a.kv.Len())
	for pair := a.kv.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// AsMap returns the contents as a plain map. The map itself is a copy but
// slice values are shared with the collection.
func (a *Attributes) AsMap() map[string]any {
	if a == nil {
		return nil
	}
	m := make(map[string]any, a.kv.Len())
	for pair := a.kv.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = pair.Value
	}
	return m
}

// Copy returns an independent duplicate preserving insertion order. Slice
// values are cloned, so mutating the copy never affects the original.
func (a *Attributes) Copy() *Attributes {
	dup := NewAttributes()
	if a == nil {
		return dup
	}
	for pair := a.kv.Oldest(); pair != nil; pair = pair.Next() {
		dup.kv.Set(pair.Key, copyValue(pair.Value))
	}
	return dup
}

// Equal reports whether both collections hold the same keys and values.
// Insertion order does not participate in equality. Float values compare by
// bit pattern with all NaNs considered equal, matching batch dedup
// semantics.
func (a *Attributes) Equal(other *Attributes) bool {
	if a.Len() != other.Len() {
		return false
	}
	if a == nil {
		return true
	}
	for pair := a.kv.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := other.Get(pair.Key)
		if !ok || !valueEqual(pair.Value, v) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the attributes as a JSON object in insertion order.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	if a == nil || a.kv.Len() == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(a.kv)
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, int64, float64:
		return val
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case []string:
		return append([]string(nil), val...)
	case []bool:
		return append([]bool(nil), val...)
	case []int64:
		return append([]int64(nil), val...)
	case []float64:
		return append([]float64(nil), val...)
	case []int:
		out := make([]int64, len(val))
		for i, n := range val {
			out[i] = int64(n)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeValue(elem)
		}
		return out
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func copyValue(v any) any {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []bool:
		return append([]bool(nil), val...)
	case []int64:
		return append([]int64(nil), val...)
	case []float64:
		return append([]float64(nil), val...)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = copyValue(elem)
		}
		return out
	default:
		return val
	}
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && floatBits(av) == floatBits(bv)
	case []float64:
		bv, ok := b.([]float64)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if floatBits(av[i]) != floatBits(bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// floatBits returns a canonical bit pattern for f: every NaN maps to a
// single encoding so NaN-valued attributes compare equal, while -0 and 0
// stay distinct.
func floatBits(f float64) uint64 {
	if math.IsNaN(f) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(f)
}
