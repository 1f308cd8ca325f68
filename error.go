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
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cast"
)

// defaultErrorName is the generic name assumed when an error declares none.
// The builder suppresses the Type line for it.
const defaultErrorName = "Error"

// Error is the subject of a report. All fields are optional; the builder
// substitutes sentinels for whatever is absent. It is owned by the caller and
// treated as immutable for the duration of one report.
type Error struct {
	// Message is the human-readable description. Empty renders as
	// "Unknown Error".
	Message string

	// Name classifies the error (e.g. "TypeError", "ValidationError").
	Name string

	// Code is an optional machine-readable code for system-style errors
	// (e.g. "ENOENT", "42").
	Code string

	// Stack holds the stack trace as ordered text lines, most recent call
	// first. May be nil.
	Stack []string
}

// Error implements the error interface, returning the message.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

// ErrorType allows errors to declare their own HTTP status code.
// The middleware prefers it over the default 500 when responding.
//
// Example:
//
//	type NotFoundError struct{ Resource string }
//
//	func (e NotFoundError) Error() string   { return e.Resource + " not found" }
//	func (e NotFoundError) HTTPStatus() int { return http.StatusNotFound }
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorCode allows errors to provide a machine-readable code, surfaced on the
// report's Code line.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewError creates an Error with the given message and the generic "Error"
// name. Convenience for tests and direct library use.
func NewError(message string) *Error {
	return &Error{Message: message, Name: defaultErrorName}
}

// FromError converts a Go error into a report Error. A nil error yields an
// empty Error (rendered as "Unknown Error"); an *Error passes through
// unchanged. When err implements ErrorCode, the code is carried over, and the
// dynamic type name is used as the error name.
//
// Example:
//
//	e := report.FromError(io.ErrUnexpectedEOF)
func FromError(err error) *Error {
	if err == nil {
		return &Error{}
	}

	var already *Error
	if errors.As(err, &already) {
		return already
	}

	e := &Error{
		Message: err.Error(),
		Name:    fmt.Sprintf("%T", err),
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		e.Code = coded.Code()
	}

	return e
}

// Capture converts err like FromError and, when the error carries no stack,
// attaches the current goroutine's stack as text lines. Go errors do not
// record stacks, so this is the middleware's way of giving panics and handler
// errors a stack trace section.
func Capture(err error) *Error {
	e := FromError(err)
	if len(e.Stack) == 0 {
		e.Stack = stackLines(string(debug.Stack()))
	}

	return e
}

// FromMap builds an Error from a loosely-typed mapping with optional
// "message", "name", "stack", and "code" fields, the shape accepted by the
// CLI's JSON payload. Values are coerced leniently: code may be a string or a
// number, stack may be a newline-joined string or a list of lines. Unset
// fields take defaults ("Unknown error" message, "Error" name).
//
// Example:
//
//	e := report.FromMap(map[string]any{
//	    "message": "connect ECONNREFUSED",
//	    "code":    111,
//	})
func FromMap(m map[string]any) *Error {
	e := &Error{
		Message: "Unknown error",
		Name:    defaultErrorName,
	}
	if m == nil {
		return e
	}

	if v, ok := m["message"]; ok {
		if s := cast.ToString(v); s != "" {
			e.Message = s
		}
	}
	if v, ok := m["name"]; ok {
		if s := cast.ToString(v); s != "" {
			e.Name = s
		}
	}
	if v, ok := m["code"]; ok {
		e.Code = cast.ToString(v)
	}
	if v, ok := m["stack"]; ok {
		switch stack := v.(type) {
		case string:
			e.Stack = stackLines(stack)
		default:
			if lines := cast.ToStringSlice(v); len(lines) > 0 {
				e.Stack = lines
			}
		}
	}

	return e
}

// stackLines splits a stack blob into lines, dropping a trailing empty line.
func stackLines(stack string) []string {
	lines := strings.Split(strings.TrimRight(stack, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}

	return lines
}
