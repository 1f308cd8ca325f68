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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// fingerprintInput is the canonical tuple hashed into an error ID.
// Field order is fixed; encoding/json preserves struct field order, so the
// serialization is deterministic across processes.
type fingerprintInput struct {
	Message        string `json:"message"`
	FirstStackLine string `json:"firstStackLine"`
	Path           string `json:"path"`
	Method         string `json:"method"`
}

// Fingerprint derives a short, deterministic identifier for an error
// occurrence from its message, the first stack line, and the request method
// and path. Identical inputs always produce the identical ID, in the same or
// a different process; the function has no randomness, time, or
// process-identity dependency.
//
// The ID is "ERR-" followed by the first 8 uppercase hex characters of a
// SHA-256 digest, e.g. "ERR-3F2A9C01". Both arguments may be nil.
//
// Example:
//
//	id := report.Fingerprint(report.NewError("boom"), nil)
func Fingerprint(e *Error, req *Request) string {
	in := fingerprintInput{}
	if e != nil {
		in.Message = e.Message
		if len(e.Stack) > 0 {
			in.FirstStackLine = e.Stack[0]
		}
	}
	if req != nil {
		in.Path = req.reportPath()
		in.Method = req.Method
	}

	payload, _ := json.Marshal(in)
	sum := sha256.Sum256(payload)

	return "ERR-" + strings.ToUpper(hex.EncodeToString(sum[:4]))
}
