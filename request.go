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

import "net/http"

// Request is the optional HTTP context attached to a report. The engine
// treats it as untrusted, read-only input: body, query, and headers pass
// through the redactor before they appear in the report.
type Request struct {
	// Method is the HTTP method.
	Method string

	// Path is the (possibly normalized) request path.
	Path string

	// OriginalPath is the path as originally requested, before any route
	// normalization. Preferred over Path when set.
	OriginalPath string

	// RemoteAddr is the client address. Empty renders as "unknown".
	RemoteAddr string

	// Headers maps header names to single values. Always emitted as a
	// redacted block, even when nil.
	Headers map[string]string

	// Query maps query parameter names to single values. Redacted.
	Query map[string]string

	// Params maps route parameter names to values. Emitted without
	// redaction: route params are part of the path, already public.
	Params map[string]string

	// Body is the decoded request body: an arbitrary nesting of maps,
	// slices, and scalars. Redacted.
	Body any
}

// reportPath returns the path to display and fingerprint, preferring the
// original path over the normalized one.
func (r *Request) reportPath() string {
	if r == nil {
		return ""
	}
	if r.OriginalPath != "" {
		return r.OriginalPath
	}

	return r.Path
}

// FromHTTP flattens an inbound *http.Request into a report Request: method,
// URL path, the unmodified RequestURI as the original path, remote address,
// and first-value header and query maps. The request body is deliberately
// not read, since consuming it here would starve the caller's handler. Attach a
// decoded body to the returned value if one is wanted in the report.
//
// Example:
//
//	req := report.FromHTTP(r)
//	req.Body = decodedPayload
func FromHTTP(r *http.Request) *Request {
	if r == nil {
		return nil
	}

	out := &Request{
		Method:       r.Method,
		RemoteAddr:   r.RemoteAddr,
		OriginalPath: r.RequestURI,
	}
	if r.URL != nil {
		out.Path = r.URL.Path

		query := r.URL.Query()
		if len(query) > 0 {
			out.Query = make(map[string]string, len(query))
			for k, vs := range query {
				if len(vs) > 0 {
					out.Query[k] = vs[0]
				}
			}
		}
	}
	if len(r.Header) > 0 {
		out.Headers = make(map[string]string, len(r.Header))
		for k, vs := range r.Header {
			if len(vs) > 0 {
				out.Headers[k] = vs[0]
			}
		}
	}

	return out
}
