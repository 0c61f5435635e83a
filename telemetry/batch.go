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
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Batch entities are deduplicated by full-value equality: every field
// participates, attribute collections compare by contents with insertion
// order ignored, and floats compare by canonical bit pattern (see
// floatBits). Equality is decided through 64-bit xxhash fingerprints over a
// canonical field encoding.

func dedupe[T any](items []T, fp func(T) uint64) []T {
	out := make([]T, 0, len(items))
	seen := make(map[uint64]struct{}, len(items))
	for _, item := range items {
		key := fp(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (s Span) fingerprint() uint64 {
	d := xxhash.New()
	writeString(d, s.ID)
	writeString(d, s.TraceID)
	writeOptString(d, s.ParentID)
	writeOptString(d, s.Name)
	writeInt(d, s.Timestamp)
	writeFloat(d, s.DurationMs)
	writeAttributes(d, s.Attributes)
	return d.Sum64()
}

func (l Log) fingerprint() uint64 {
	d := xxhash.New()
	writeString(d, l.Message)
	writeInt(d, l.Timestamp)
	writeAttributes(d, l.Attributes)
	return d.Sum64()
}

func writeString(d *xxhash.Digest, s string) {
	writeInt(d, int64(len(s)))
	_, _ = d.WriteString(s)
}

func writeOptString(d *xxhash.Digest, s *string) {
	if s == nil {
		_, _ = d.Write([]byte{0})
		return
	}
	_, _ = d.Write([]byte{1})
	writeString(d, *s)
}

func writeInt(d *xxhash.Digest, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = d.Write(buf[:])
}

func writeFloat(d *xxhash.Digest, f float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], floatBits(f))
	_, _ = d.Write(buf[:])
}

// writeAttributes hashes keys in sorted order so collections that differ
// only in insertion order fingerprint identically.
func writeAttributes(d *xxhash.Digest, attrs *Attributes) {
	keys := attrs.Keys()
	sort.Strings(keys)
	writeInt(d, int64(len(keys)))
	for _, k := range keys {
		writeString(d, k)
		v, _ := attrs.Get(k)
		writeValue(d, v)
	}
}

func writeValue(d *xxhash.Digest, v any) {
	switch val := v.(type) {
	case nil:
		_, _ = d.Write([]byte{'z'})
	case string:
		_, _ = d.Write([]byte{'s'})
		writeString(d, val)
	case bool:
		_, _ = d.Write([]byte{'b'})
		if val {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case int64:
		_, _ = d.Write([]byte{'i'})
		writeInt(d, val)
	case float64:
		_, _ = d.Write([]byte{'f'})
		writeFloat(d, val)
	case []string:
		_, _ = d.Write([]byte{'S'})
		writeInt(d, int64(len(val)))
		for _, s := range val {
			writeString(d, s)
		}
	case []bool:
		_, _ = d.Write([]byte{'B'})
		writeInt(d, int64(len(val)))
		for _, b := range val {
			if b {
				_, _ = d.Write([]byte{1})
			} else {
				_, _ = d.Write([]byte{0})
			}
		}
	case []int64:
		_, _ = d.Write([]byte{'I'})
		writeInt(d, int64(len(val)))
		for _, n := range val {
			writeInt(d, n)
		}
	case []float64:
		_, _ = d.Write([]byte{'F'})
		writeInt(d, int64(len(val)))
		for _, f := range val {
			writeFloat(d, f)
		}
	case []any:
		_, _ = d.Write([]byte{'A'})
		writeInt(d, int64(len(val)))
		for _, elem := range val {
			writeValue(d, elem)
		}
	default:
		// Unreachable for values that went through normalizeValue.
		_, _ = d.Write([]byte{'?'})
		writeString(d, fmt.Sprint(val))
	}
}
