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

// Package errorreport provides net/http middleware that converts handler
// panics and returned errors into formatted error reports.
//
// Two entry points cover both handler conventions:
//
//   - New wraps an http.Handler chain and recovers panics.
//   - Wrap adapts an error-returning handler to http.HandlerFunc.
//
// On either path the middleware renders a report, writes it to the
// configured diagnostic stream (stderr by default), invokes the optional
// logger callback, and records the error on the active OpenTelemetry span.
// Unless the handler already wrote a response, it then answers with the
// error's declared HTTP status (500 by default) and either a generic JSON
// body or, when configured, the raw report text.
//
// Configuration is shared with the report package:
//
//	handler := errorreport.New(
//	    report.WithMarkdownResponse(true),
//	    report.WithLogger(notifySlack),
//	)(mux)
package errorreport
