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

// Package report formats runtime errors, optionally with HTTP request
// context, into structured human-readable reports for chat and issue-tracker
// surfaces (GitHub, Discord, Slack).
//
// The engine is synchronous, stateless per call, and total over partial
// input: missing fields degrade to sentinels, unknown theme or severity
// names fall back to defaults, and no combination of absent data makes
// report generation fail. Untrusted request data (body, query, headers)
// passes through key-based redaction and a size-budgeted serializer before
// it appears in a report, and every report can carry a deterministic
// fingerprint for deduplicating identical occurrences.
//
// # Quick Start
//
//	text := report.ToMarkdown(err, nil)
//	fmt.Println(text)
//
// With request context and options:
//
//	req := report.FromHTTP(r)
//	text := report.ToMarkdown(err, req,
//	    report.WithTheme("slack"),
//	    report.WithSeverity(report.SeverityCritical),
//	    report.WithAppVersion("2.1.0"),
//	)
//
// Reusing one configuration across many reports:
//
//	b := report.New(report.WithRedact("password", "ssn"))
//	text := b.Build(report.FromError(err), req)
//
// # Redaction
//
// Values whose key contains a deny-list entry (case-insensitive substring
// match, any nesting depth) are replaced with "[REDACTED]" before
// serialization. Serialized blocks that exceed the configured size budget
// are cut at the budget and explicitly marked "... [TRUNCATED]".
//
// # Error IDs
//
// Fingerprint derives "ERR-" plus eight uppercase hex characters from the
// error message, the first stack line, and the request method and path.
// Identical inputs yield identical IDs across processes, making the ID
// usable for deduplication without any persisted state.
//
// # HTTP middleware
//
// The middleware/errorreport package adapts the engine to net/http: it
// recovers panics, wraps error-returning handlers, writes reports to a
// diagnostic stream, and answers with a JSON error body or the raw report.
//
// # Examples
//
// See the example_test.go file for complete working examples.
package report
