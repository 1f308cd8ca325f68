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

import "sync"

// Theme bundles the display tokens that control a report's surface-specific
// formatting. Reports are markdown-flavored by default; a theme only changes
// the title line, the section icons, and the trailing separator.
//
// Example:
//
//	report.RegisterTheme("wiki", report.Theme{
//	    Title:       "== Error Report ==",
//	    ErrorIcon:   "!",
//	    StackIcon:   "#",
//	    RequestIcon: ">",
//	    EnvIcon:     "@",
//	    Separator:   "----",
//	})
type Theme struct {
	// Title is the complete, pre-formatted first line of the report.
	Title string

	// ErrorIcon decorates the error message section heading.
	ErrorIcon string

	// StackIcon decorates the stack trace section heading.
	StackIcon string

	// RequestIcon decorates the request details section heading.
	RequestIcon string

	// EnvIcon decorates the environment section heading.
	EnvIcon string

	// Separator is emitted on its own line before the attribution footer.
	Separator string
}

// DefaultTheme is the name resolved when no theme (or an unknown theme) is
// requested.
const DefaultTheme = "github"

var githubTheme = Theme{
	Title:       "## 🚨 Error Report",
	ErrorIcon:   "💥",
	StackIcon:   "📚",
	RequestIcon: "🌐",
	EnvIcon:     "💻",
	Separator:   "---",
}

var (
	themeMu sync.RWMutex

	// themes holds the built-in registry. "discord" shares github's tokens:
	// both surfaces render the same markdown subset.
	themes = map[string]Theme{
		"github":  githubTheme,
		"discord": githubTheme,
		"slack": {
			Title:       "*🚨 Error Report*",
			ErrorIcon:   "💥",
			StackIcon:   "📜",
			RequestIcon: "🔗",
			EnvIcon:     "🖥️",
			Separator:   "────────────────────",
		},
	}
)

// ResolveTheme returns the theme registered under name. Lookup is exact-match;
// any unrecognized name (including the empty string) falls back to the default
// "github" theme. It never fails.
//
// Example:
//
//	theme := report.ResolveTheme("slack")
func ResolveTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()

	if t, ok := themes[name]; ok {
		return t
	}

	return themes[DefaultTheme]
}

// RegisterTheme registers a custom theme under name, replacing any existing
// registration. It is safe for concurrent use with ResolveTheme.
//
// Example:
//
//	report.RegisterTheme("plain", report.Theme{Title: "ERROR REPORT", Separator: "===="})
func RegisterTheme(name string, t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()

	themes[name] = t
}
