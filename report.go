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
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"runtime"
	"strings"
	"time"
)

// footer is the fixed attribution line closing every report.
const footer = "_Generated by rivaas.dev/report_"

// Builder renders error reports under one effective configuration. It is
// stateless per call: a single Builder may be shared by concurrent
// goroutines without coordination.
type Builder struct {
	cfg *config
}

// New creates a Builder with the given options applied over the defaults.
//
// Example:
//
//	b := report.New(
//	    report.WithTheme("slack"),
//	    report.WithSeverity(report.SeverityCritical),
//	)
//	text := b.Build(report.FromError(err), nil)
func New(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Builder{cfg: cfg}
}

// ToMarkdown renders a one-off report for err, optionally with request
// context. It is the convenience form of New(opts...).Build.
//
// Example:
//
//	text := report.ToMarkdown(err, nil, report.WithAppVersion("1.4.2"))
func ToMarkdown(err error, req *Request, opts ...Option) string {
	return New(opts...).Build(FromError(err), req)
}

// Build assembles the report for e, optionally with request context, and
// returns it as newline-joined text. It is total over partial input: every
// section degrades independently, nil e and nil req are fine, and no
// combination of absent fields makes it fail.
func (b *Builder) Build(e *Error, req *Request) string {
	start := time.Now()

	cfg := b.cfg
	theme := ResolveTheme(cfg.theme)
	if e == nil {
		e = &Error{}
	}

	lines := make([]string, 0, 48)
	lines = append(lines, theme.Title, "")

	if cfg.generateErrorID {
		lines = append(lines, "**Error ID:** `"+Fingerprint(e, req)+"`")
	}
	if cfg.includeTimestamp {
		lines = append(lines, "**Timestamp:** "+time.Now().UTC().Format(time.RFC3339))
	}
	lines = append(lines, "**Severity:** "+cfg.severity.label(), "")

	lines = b.appendError(lines, theme, e)
	lines = b.appendStack(lines, theme, e)
	if req != nil {
		lines = b.appendRequest(lines, theme, req)
	}
	if cfg.includeEnvironment {
		lines = b.appendEnvironment(lines, theme)
	}
	if cfg.includePerformance {
		elapsed := float64(time.Since(start).Microseconds()) / 1000
		lines = append(lines, fmt.Sprintf("**Report generated in %.2f ms**", elapsed), "")
	}

	lines = append(lines, theme.Separator, footer)

	return strings.Join(lines, "\n")
}

// Output returns the configured diagnostic stream.
func (b *Builder) Output() io.Writer {
	return b.cfg.out
}

// SlogLogger returns the configured structured logger, or nil when
// structured logging is disabled.
func (b *Builder) SlogLogger() *slog.Logger {
	return b.cfg.slogger
}

// MarkdownResponse reports whether the HTTP adapter should answer with the
// raw report text instead of a JSON error body.
func (b *Builder) MarkdownResponse() bool {
	return b.cfg.sendMarkdown
}

// Development reports whether the HTTP adapter may expose the error message
// and fingerprint in its JSON error body.
func (b *Builder) Development() bool {
	return b.cfg.development
}

// Notify invokes the configured logger callback, if any, with the rendered
// report, the error, and the request context.
func (b *Builder) Notify(reportText string, e *Error, req *Request) {
	if b.cfg.logger != nil {
		b.cfg.logger(reportText, e, req)
	}
}

// appendError emits the message block and the optional Type/Code lines.
func (b *Builder) appendError(lines []string, theme Theme, e *Error) []string {
	message := e.Message
	if message == "" {
		message = "Unknown Error"
	}

	lines = append(lines,
		"### "+theme.ErrorIcon+" Error Message",
		"```",
		message,
		"```",
	)
	if e.Name != "" && e.Name != defaultErrorName {
		lines = append(lines, "**Type:** "+e.Name)
	}
	if e.Code != "" {
		lines = append(lines, "**Code:** "+e.Code)
	}

	return append(lines, "")
}

// appendStack emits up to maxStackLines stack lines inside a fenced block,
// with a marker line when the stack was longer, or a placeholder when no
// stack is available.
func (b *Builder) appendStack(lines []string, theme Theme, e *Error) []string {
	lines = append(lines, "### "+theme.StackIcon+" Stack Trace", "```")

	// A negative cap is treated as zero, not an error.
	maxLines := b.cfg.maxStackLines
	if maxLines < 0 {
		maxLines = 0
	}

	switch {
	case len(e.Stack) == 0:
		lines = append(lines, "No stack trace available")
	case len(e.Stack) > maxLines:
		lines = append(lines, e.Stack[:maxLines]...)
		lines = append(lines, fmt.Sprintf("... (%d more lines)", len(e.Stack)-maxLines))
	default:
		lines = append(lines, e.Stack...)
	}

	return append(lines, "```", "")
}

// appendRequest emits the request details section. Body and query pass
// through the redactor; route params do not (they are path segments, already
// public). The headers block is always emitted, even when no headers were
// captured; absent headers render as an empty object.
func (b *Builder) appendRequest(lines []string, theme Theme, req *Request) []string {
	lines = append(lines,
		"### "+theme.RequestIcon+" Request Details",
		"**Method:** "+req.Method,
		"**Path:** "+req.reportPath(),
		"**Client IP:** "+clientAddr(req),
	)
	if b.cfg.includeUserAgent {
		if ua := headerValue(req.Headers, "user-agent"); ua != "" {
			lines = append(lines, "**User-Agent:** "+ua)
		}
	}
	lines = append(lines, "")

	if nonEmptyMapping(req.Body) {
		lines = b.appendFenced(lines, "**Body:**", Redact(req.Body, b.cfg.redact))
	}
	if len(req.Query) > 0 {
		lines = b.appendFenced(lines, "**Query:**", Redact(req.Query, b.cfg.redact))
	}
	if len(req.Params) > 0 {
		lines = b.appendFenced(lines, "**Route Params:**", req.Params)
	}

	headers := req.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	return b.appendFenced(lines, "**Headers:**", Redact(headers, b.cfg.redact))
}

// appendFenced emits a labeled, fenced JSON block for an already-cleaned
// value, honoring the size budget.
func (b *Builder) appendFenced(lines []string, label string, v any) []string {
	return append(lines,
		label,
		"```json",
		renderBlock(v, b.cfg.maxBodySize),
		"```",
		"",
	)
}

// appendEnvironment emits the runtime/platform/deployment block and,
// when enabled, the resource usage figures.
func (b *Builder) appendEnvironment(lines []string, theme Theme) []string {
	lines = append(lines,
		"### "+theme.EnvIcon+" Environment",
		"**Runtime:** "+runtime.Version(),
		"**Platform:** "+runtime.GOOS+"/"+runtime.GOARCH,
		"**Environment:** "+b.deploymentEnv(),
	)
	if b.cfg.appVersion != "" {
		lines = append(lines, "**App Version:** "+b.cfg.appVersion)
	}

	if b.cfg.includeMemoryUsage {
		u := SnapshotUsage()
		lines = append(lines,
			fmt.Sprintf("**Memory:** heap %s / %s, runtime %s, rss %s",
				u.HeapAlloc, u.HeapSys, u.Sys, u.RSS),
			fmt.Sprintf("**CPU:** user %s, system %s", u.CPUUser, u.CPUSystem),
			"**Uptime:** "+u.Uptime,
		)
	}

	return append(lines, "")
}

// deploymentEnv resolves the deployment-environment label: explicit option,
// then $APP_ENV, then "development".
func (b *Builder) deploymentEnv() string {
	if b.cfg.environment != "" {
		return b.cfg.environment
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}

	return "development"
}

// clientAddr resolves the client address with the "unknown" sentinel.
func clientAddr(req *Request) string {
	if req.RemoteAddr == "" {
		return "unknown"
	}

	return req.RemoteAddr
}

// headerValue looks up a header case-insensitively in a flattened header map.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}

	return ""
}

// nonEmptyMapping reports whether v is a mapping with at least one entry.
// Scalar and sequence bodies are not given their own block. Map types beyond
// the common decoded shapes are checked reflectively so an unusual payload is
// not silently dropped.
func nonEmptyMapping(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case map[string]any:
		return len(val) > 0
	case map[string]string:
		return len(val) > 0
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && rv.Len() > 0
}
