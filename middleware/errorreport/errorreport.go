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

package errorreport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"rivaas.dev/report"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error
// instead of writing its own error response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// New returns a middleware that recovers from panics in request handlers,
// renders an error report, and sends an error response.
//
// This middleware should typically be registered first (or early) in the
// middleware chain to catch panics from all subsequent handlers.
//
// Basic usage:
//
//	mux := http.NewServeMux()
//	mux.Handle("/", handler)
//	srv := errorreport.New()(mux)
//
// With custom configuration:
//
//	srv := errorreport.New(
//	    report.WithTheme("slack"),
//	    report.WithDevelopmentMode(true),
//	)(mux)
func New(opts ...report.Option) func(http.Handler) http.Handler {
	b := report.New(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			defer func() {
				if rec := recover(); rec != nil {
					handle(b, sw, r, asError(rec))
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// Wrap adapts an error-returning handler to http.HandlerFunc. A returned
// error (or a panic) is rendered as a report, logged, and answered with an
// error response. Errors are never swallowed.
//
// Example:
//
//	mux.Handle("/users", errorreport.Wrap(func(w http.ResponseWriter, r *http.Request) error {
//	    return store.CreateUser(r.Context(), r.Body)
//	}))
func Wrap(h HandlerFunc, opts ...report.Option) http.HandlerFunc {
	b := report.New(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		defer func() {
			if rec := recover(); rec != nil {
				handle(b, sw, r, asError(rec))
			}
		}()

		if err := h(sw, r); err != nil {
			handle(b, sw, r, err)
		}
	}
}

// handle is the shared error path: build the report, write it to the
// diagnostic stream, notify the logger callback, enrich the active span,
// and respond unless the handler already has.
func handle(b *report.Builder, w *statusWriter, r *http.Request, err error) {
	e := report.Capture(err)
	req := report.FromHTTP(r)
	text := b.Build(e, req)

	fmt.Fprintln(b.Output(), text)
	if logger := b.SlogLogger(); logger != nil {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
			"error_id", report.Fingerprint(e, req),
		)
	}
	b.Notify(text, e, req)

	if span := trace.SpanFromContext(r.Context()); span.SpanContext().IsValid() {
		span.SetStatus(codes.Error, "request failed")
		span.SetAttributes(
			attribute.String("exception.type", fmt.Sprintf("%T", err)),
			attribute.String("exception.message", err.Error()),
		)
		span.RecordError(err)
	}

	if w.wrote {
		return
	}

	respond(b, w, err, e, req, text)
}

// respond writes the error response: raw markdown when configured, otherwise
// a generic JSON body that only carries the message and fingerprint in
// development mode. The status comes from the error's HTTPStatus when it
// declares one, else 500.
func respond(b *report.Builder, w http.ResponseWriter, err error, e *report.Error, req *report.Request, text string) {
	status := http.StatusInternalServerError
	var typed report.ErrorType
	if errors.As(err, &typed) {
		status = typed.HTTPStatus()
	}

	if b.MarkdownResponse() {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, text)

		return
	}

	body := map[string]any{
		"error": http.StatusText(status),
	}
	if b.Development() {
		body["message"] = e.Message
		body["errorId"] = report.Fingerprint(e, req)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// asError normalizes a recovered panic value.
func asError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}

	return fmt.Errorf("panic: %v", rec)
}

// statusWriter tracks whether the wrapped handler already produced a
// response, so the middleware never writes a second one.
type statusWriter struct {
	http.ResponseWriter
	wrote  bool
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.wrote = true
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.wrote = true
		w.status = http.StatusOK
	}

	return w.ResponseWriter.Write(b)
}
