// Copyright 2025 The Rivaas Authors
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

package report

import (
	"encoding/json"
	"reflect"
	"strings"
)

// RedactedMark replaces any value whose key matches the deny-list.
const RedactedMark = "[REDACTED]"

// TruncatedMark terminates a serialized block that exceeded the size budget.
const TruncatedMark = "... [TRUNCATED]"

// Redact returns a deep copy of v with every value whose key's lowercase form
// contains any deny-list entry (case-insensitive substring match) replaced by
// the RedactedMark literal. Matching applies at any nesting depth; a redacted
// value is not descended into. Non-mapping values, nil, and unrecognized types
// pass through unchanged.
//
// The input is never mutated. Input trees are assumed acyclic (JSON-decoded
// data cannot alias); no cycle guard is installed.
//
// Example:
//
//	clean := report.Redact(map[string]any{
//	    "name":     "John Doe",
//	    "password": "secret123",
//	}, []string{"password", "token"})
//	// clean["password"] == "[REDACTED]"
func Redact(v any, denyKeys []string) any {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if keyDenied(k, denyKeys) {
				out[k] = RedactedMark
			} else {
				out[k] = Redact(child, denyKeys)
			}
		}

		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, child := range val {
			if keyDenied(k, denyKeys) {
				out[k] = RedactedMark
			} else {
				out[k] = child
			}
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Redact(child, denyKeys)
		}

		return out
	}

	// Other string-keyed map types (e.g. map[string]int) and typed
	// sequences (e.g. []map[string]any) are walked reflectively so a
	// denied key is never missed on an unusual payload.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}

		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if keyDenied(k, denyKeys) {
				out[k] = RedactedMark
			} else {
				out[k] = Redact(iter.Value().Interface(), denyKeys)
			}
		}

		return out
	case reflect.Slice, reflect.Array:
		// Byte blobs are scalars, not sequences to descend into.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}

		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Redact(rv.Index(i).Interface(), denyKeys)
		}

		return out
	}

	return v
}

// keyDenied reports whether key matches any deny-list entry.
// The match is case-insensitive and substring-based: the deny entry "auth"
// catches "Authorization", "x-auth-token", and "authKey" alike.
func keyDenied(key string, denyKeys []string) bool {
	lower := strings.ToLower(key)
	for _, deny := range denyKeys {
		if deny == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(deny)) {
			return true
		}
	}

	return false
}

// renderBlock serializes an already-redacted value for embedding in a fenced
// report block. Values within the budget are pretty-printed with two-space
// indentation. When the compact serialization exceeds maxSize, the result is
// exactly the first maxSize bytes of the compact form followed by the
// TruncatedMark, never a silently cut string.
func renderBlock(v any, maxSize int) string {
	compact, err := json.Marshal(v)
	if err != nil {
		// Unserializable payloads still produce a marked placeholder.
		return RedactedMark
	}

	if maxSize > 0 && len(compact) > maxSize {
		return string(compact[:maxSize]) + TruncatedMark
	}

	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(compact)
	}

	return string(pretty)
}
