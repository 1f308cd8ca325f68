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
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rivaas.dev/report"
)

type statusError struct {
	message string
	status  int
}

func (e *statusError) Error() string   { return e.message }
func (e *statusError) HTTPStatus() int { return e.status }

func TestNew_RecoversPanic(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	handler := New(report.WithOutput(&diag), report.WithoutSlogLogging())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/crash", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.NotContains(t, body, "message")

	// The full report went to the diagnostic stream, not the client.
	assert.Contains(t, diag.String(), "Error Report")
	assert.Contains(t, diag.String(), "boom")
}

func TestNew_PassesThroughOnSuccess(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	handler := New(report.WithOutput(&diag))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ok", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, diag.String())
}

func TestWrap_ForwardsHandlerError(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	var logged string
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New("storage unavailable")
	},
		report.WithOutput(&diag),
		report.WithoutSlogLogging(),
		report.WithLogger(func(text string, _ *report.Error, _ *report.Request) {
			logged = text
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, diag.String(), "storage unavailable")
	assert.Contains(t, logged, "storage unavailable")
}

func TestWrap_UsesErrorStatus(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return &statusError{message: "user not found", status: http.StatusNotFound}
	}, report.WithOutput(&diag), report.WithoutSlogLogging())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWrap_DevelopmentModeExposesDetails(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New("boom")
	}, report.WithOutput(&diag), report.WithoutSlogLogging(), report.WithDevelopmentMode(true))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "boom", body["message"])
	assert.Regexp(t, `^ERR-[0-9A-F]{8}$`, body["errorId"])
}

func TestWrap_MarkdownResponse(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New("boom")
	}, report.WithOutput(&diag), report.WithoutSlogLogging(), report.WithMarkdownResponse(true))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Error Report")
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestWrap_RespectsWrittenResponse(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	h := Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusAccepted)

		return errors.New("late failure")
	}, report.WithOutput(&diag), report.WithoutSlogLogging())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	// The handler's response stands; the error is still reported.
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, diag.String(), "late failure")
}

func TestWrap_NoErrorNoReport(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	h := Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNoContent)

		return nil
	}, report.WithOutput(&diag))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, diag.String())
}

func TestWrap_InjectedStructuredLogger(t *testing.T) {
	t.Parallel()

	var diag, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New("storage unavailable")
	}, report.WithOutput(&diag), report.WithSlogLogger(logger))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	out := logs.String()
	assert.Contains(t, out, "request failed")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/api/users")
	assert.Contains(t, out, "error_id=ERR-")
}

func TestWrap_WithoutStructuredLogging(t *testing.T) {
	t.Parallel()

	var diag, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New("boom")
	}, report.WithOutput(&diag), report.WithSlogLogger(logger), report.WithoutSlogLogging())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	// The report still reaches the diagnostic stream; only the log line is off.
	assert.Empty(t, logs.String())
	assert.Contains(t, diag.String(), "boom")
}

func TestNew_ReportCarriesRequestContext(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	handler := New(report.WithOutput(&diag), report.WithoutSlogLogging())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/users?page=2", nil)
	req.Header.Set("User-Agent", "curl/8.5.0")
	req.Header.Set("Authorization", "Bearer secret-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := diag.String()
	assert.Contains(t, out, "**Method:** POST")
	assert.Contains(t, out, "/api/users")
	assert.Contains(t, out, "curl/8.5.0")
	assert.NotContains(t, out, "secret-token")
}
