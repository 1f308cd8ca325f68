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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTheme_BuiltIns(t *testing.T) {
	t.Parallel()

	github := ResolveTheme("github")
	discord := ResolveTheme("discord")
	slack := ResolveTheme("slack")

	// GitHub and Discord render the same markdown subset.
	assert.Equal(t, github, discord)

	assert.True(t, strings.HasPrefix(github.Title, "##"))
	assert.True(t, strings.HasPrefix(slack.Title, "*"))
	assert.NotEqual(t, github.Separator, slack.Separator)
}

func TestResolveTheme_FallbackIsIdempotent(t *testing.T) {
	t.Parallel()

	def := ResolveTheme("")

	assert.Equal(t, def, ResolveTheme("no-such-theme"))
	assert.Equal(t, def, ResolveTheme("no-such-theme"))
	assert.Equal(t, def, ResolveTheme(DefaultTheme))
}

func TestRegisterTheme(t *testing.T) {
	t.Parallel()

	custom := Theme{
		Title:       "ERROR REPORT",
		ErrorIcon:   "!",
		StackIcon:   "#",
		RequestIcon: ">",
		EnvIcon:     "@",
		Separator:   "====",
	}
	RegisterTheme("plain-test", custom)

	assert.Equal(t, custom, ResolveTheme("plain-test"))
}
