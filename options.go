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
	"io"
	"log/slog"
	"os"
)

// Severity is the caller-declared importance of a reported error. It is
// purely cosmetic: it selects the severity label, nothing else.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// severityLabels maps each severity to its fixed report label. An
// unrecognized severity falls back to SeverityError's label, never an error.
var severityLabels = map[Severity]string{
	SeverityInfo:     "ℹ️ INFO",
	SeverityWarning:  "⚠️ WARNING",
	SeverityError:    "❌ ERROR",
	SeverityCritical: "🔥 CRITICAL",
}

// label resolves the severity's display label with the error fallback.
func (s Severity) label() string {
	if l, ok := severityLabels[s]; ok {
		return l
	}

	return severityLabels[SeverityError]
}

// Option defines functional options for report configuration.
type Option func(*config)

// config holds the effective configuration of one builder. Options applied
// over defaultConfig are the shallow merge: each option overwrites its field
// wholesale (WithRedact replaces the deny-list, it does not append).
type config struct {
	redact             []string
	includeEnvironment bool
	includeTimestamp   bool
	includePerformance bool
	theme              string
	maxStackLines      int
	maxBodySize        int
	includeUserAgent   bool
	includeMemoryUsage bool
	generateErrorID    bool
	severity           Severity
	appVersion         string
	environment        string
	logger             func(reportText string, err *Error, req *Request)

	// Middleware-only knobs, carried here so one option set configures
	// both the engine and its HTTP adapter.
	sendMarkdown bool
	development  bool
	out          io.Writer
	slogger      *slog.Logger
}

// defaultRedactKeys is the stock deny-list. Substring matched, so "auth"
// also covers "authorization" and "x-auth-token".
var defaultRedactKeys = []string{
	"password", "token", "key", "secret", "auth", "authorization", "cookie",
}

// defaultConfig returns the default configuration for report generation.
func defaultConfig() *config {
	return &config{
		redact:             defaultRedactKeys,
		includeEnvironment: true,
		includeTimestamp:   true,
		includePerformance: true,
		theme:              DefaultTheme,
		maxStackLines:      50,
		maxBodySize:        1000,
		includeUserAgent:   true,
		includeMemoryUsage: true,
		generateErrorID:    true,
		severity:           SeverityError,
		out:                os.Stderr,
		slogger:            slog.Default(),
	}
}

// WithRedact replaces the deny-list of key substrings used for redaction.
// It replaces the default list entirely; include the defaults explicitly if
// they are still wanted.
// Default: password, token, key, secret, auth, authorization, cookie
//
// Example:
//
//	report.New(report.WithRedact("ssn", "password"))
func WithRedact(keys ...string) Option {
	return func(cfg *config) {
		cfg.redact = keys
	}
}

// WithEnvironmentInfo enables or disables the environment section
// (runtime, platform, deployment label, app version, resource figures).
// Default: true
func WithEnvironmentInfo(enabled bool) Option {
	return func(cfg *config) {
		cfg.includeEnvironment = enabled
	}
}

// WithTimestamp enables or disables the ISO-8601 timestamp line.
// Default: true
func WithTimestamp(enabled bool) Option {
	return func(cfg *config) {
		cfg.includeTimestamp = enabled
	}
}

// WithPerformance enables or disables the report-generation duration line.
// Default: true
func WithPerformance(enabled bool) Option {
	return func(cfg *config) {
		cfg.includePerformance = enabled
	}
}

// WithTheme selects the display tokens by theme name. Unknown names fall
// back to "github" at build time, never an error.
// Default: "github"
//
// Example:
//
//	report.New(report.WithTheme("slack"))
func WithTheme(name string) Option {
	return func(cfg *config) {
		cfg.theme = name
	}
}

// WithMaxStackLines caps the number of emitted stack lines. When the stack
// is longer, a truncation marker line follows the emitted lines. Negative
// values are treated as zero.
// Default: 50
func WithMaxStackLines(n int) Option {
	return func(cfg *config) {
		cfg.maxStackLines = n
	}
}

// WithMaxBodySize sets the serialized-size budget, in bytes, for each
// redacted block (body, query, headers) before truncation.
// Default: 1000
func WithMaxBodySize(n int) Option {
	return func(cfg *config) {
		cfg.maxBodySize = n
	}
}

// WithUserAgent enables or disables the User-Agent line in request details.
// Default: true
func WithUserAgent(enabled bool) Option {
	return func(cfg *config) {
		cfg.includeUserAgent = enabled
	}
}

// WithMemoryUsage enables or disables the memory/CPU/uptime figures within
// the environment section.
// Default: true
func WithMemoryUsage(enabled bool) Option {
	return func(cfg *config) {
		cfg.includeMemoryUsage = enabled
	}
}

// WithErrorID enables or disables the deterministic fingerprint line.
// Default: true
func WithErrorID(enabled bool) Option {
	return func(cfg *config) {
		cfg.generateErrorID = enabled
	}
}

// WithSeverity sets the severity classification for the report.
// Default: SeverityError
func WithSeverity(s Severity) Option {
	return func(cfg *config) {
		cfg.severity = s
	}
}

// WithAppVersion sets a free-text application version emitted in the
// environment section. Unset by default.
func WithAppVersion(version string) Option {
	return func(cfg *config) {
		cfg.appVersion = version
	}
}

// WithEnvironment sets the deployment-environment label. When unset, the
// APP_ENV environment variable is consulted, then "development".
func WithEnvironment(env string) Option {
	return func(cfg *config) {
		cfg.environment = env
	}
}

// WithLogger sets a callback invoked by the middleware with the rendered
// report, the error, and the request context. Unset by default.
//
// Example:
//
//	errorreport.New(report.WithLogger(func(text string, err *report.Error, req *report.Request) {
//	    slog.Error("request failed", "report", text)
//	}))
func WithLogger(fn func(reportText string, err *Error, req *Request)) Option {
	return func(cfg *config) {
		cfg.logger = fn
	}
}

// WithMarkdownResponse makes the middleware send the raw report text
// (text/markdown) instead of a generic JSON error body.
// Default: false
func WithMarkdownResponse(enabled bool) Option {
	return func(cfg *config) {
		cfg.sendMarkdown = enabled
	}
}

// WithDevelopmentMode makes the middleware's JSON error body include the
// error message and fingerprint. Keep disabled in production.
// Default: false
func WithDevelopmentMode(enabled bool) Option {
	return func(cfg *config) {
		cfg.development = enabled
	}
}

// WithOutput sets the diagnostic stream the middleware writes rendered
// reports to. Writes are append-only; interleaving of concurrent reports is
// not coordinated.
// Default: os.Stderr
func WithOutput(w io.Writer) Option {
	return func(cfg *config) {
		cfg.out = w
	}
}

// WithSlogLogger sets the *slog.Logger the middleware uses for its
// structured line per handled error.
// Default: slog.Default()
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	errorreport.New(report.WithSlogLogger(logger))
func WithSlogLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.slogger = logger
	}
}

// WithoutSlogLogging disables the middleware's structured log line.
// Useful for tests to avoid noisy output.
//
// Example:
//
//	errorreport.New(report.WithoutSlogLogging())
func WithoutSlogLogging() Option {
	return func(cfg *config) {
		cfg.slogger = nil
	}
}
