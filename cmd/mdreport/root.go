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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rivaas.dev/report"
)

var (
	outputFile    string
	themeName     string
	severity      string
	appVersion    string
	noEnvironment bool
	noTimestamp   bool
	demo          bool
)

var rootCmd = &cobra.Command{
	Use:   "mdreport [file]",
	Short: "Render an error payload as a formatted error report",
	Long: `mdreport reads an error payload shaped as
{message, name, stack, code, request?} from a JSON (or YAML) file or stdin
and writes a formatted, redacted error report.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.Flags().StringVarP(&themeName, "theme", "t", "github", "report theme (github, discord, slack)")
	rootCmd.Flags().StringVarP(&severity, "severity", "s", "error", "severity (info, warning, error, critical)")
	rootCmd.Flags().StringVar(&appVersion, "app-version", "", "application version shown in the environment section")
	rootCmd.Flags().BoolVar(&noEnvironment, "no-environment", false, "omit the environment section")
	rootCmd.Flags().BoolVar(&noTimestamp, "no-timestamp", false, "omit the timestamp line")
	rootCmd.Flags().BoolVar(&demo, "demo", false, "render a canned demo error instead of reading input")
}

func run(cmd *cobra.Command, args []string) error {
	var (
		e   *report.Error
		req *report.Request
	)

	if demo {
		e, req = demoPayload()
	} else {
		raw, name, err := readInput(args)
		if err != nil {
			return err
		}

		e, req, err = decodePayload(raw, name)
		if err != nil {
			return err
		}
	}

	opts := []report.Option{
		report.WithTheme(themeName),
		report.WithSeverity(report.Severity(severity)),
		report.WithEnvironmentInfo(!noEnvironment),
		report.WithTimestamp(!noTimestamp),
	}
	if appVersion != "" {
		opts = append(opts, report.WithAppVersion(appVersion))
	}

	text := report.New(opts...).Build(e, req)

	if outputFile != "" {
		return os.WriteFile(outputFile, []byte(text+"\n"), 0o644)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)

	return nil
}

// readInput returns the raw payload and the source name: the file argument
// when given, otherwise stdin. Stdin on a terminal with no file argument is
// an error rather than a hang.
func readInput(args []string) ([]byte, string, error) {
	if len(args) == 1 {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("read input: %w", err)
		}

		return raw, args[0], nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, "", fmt.Errorf("no input file and stdin is a terminal (see --demo)")
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read stdin: %w", err)
	}

	return raw, "stdin", nil
}

// decodePayload parses the payload, YAML for .yaml/.yml sources and JSON
// otherwise, and splits it into the error and the optional request context.
func decodePayload(raw []byte, name string) (*report.Error, *report.Request, error) {
	var m map[string]any

	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", name, err)
		}
	} else if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", name, err)
	}

	e := report.FromMap(m)

	var req *report.Request
	if r, ok := m["request"].(map[string]any); ok {
		req = requestFromMap(r)
	}

	return e, req, nil
}

// requestFromMap coerces the loosely-typed "request" payload field into the
// engine's request context.
func requestFromMap(m map[string]any) *report.Request {
	req := &report.Request{
		Method:       cast.ToString(m["method"]),
		Path:         cast.ToString(m["path"]),
		OriginalPath: cast.ToString(m["originalUrl"]),
		RemoteAddr:   cast.ToString(m["ip"]),
		Body:         m["body"],
	}
	if v, ok := m["headers"]; ok {
		req.Headers = cast.ToStringMapString(v)
	}
	if v, ok := m["query"]; ok {
		req.Query = cast.ToStringMapString(v)
	}
	if v, ok := m["params"]; ok {
		req.Params = cast.ToStringMapString(v)
	}

	return req
}

// demoPayload fabricates a canned error and request for --demo.
func demoPayload() (*report.Error, *report.Request) {
	e := &report.Error{
		Message: "Cannot read properties of undefined (reading 'id')",
		Name:    "TypeError",
		Stack: []string{
			"TypeError: Cannot read properties of undefined (reading 'id')",
			"    at getUser (/app/handlers/user.go:42)",
			"    at handleRequest (/app/server.go:118)",
		},
	}
	req := &report.Request{
		Method:     "POST",
		Path:       "/api/users",
		RemoteAddr: "203.0.113.7",
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"User-Agent":    "curl/8.5.0",
			"Authorization": "Bearer demo-token",
		},
		Body: map[string]any{
			"name":     "John Doe",
			"password": "secret123",
		},
		Query: map[string]string{"notify": "true"},
	}

	return e, req
}
