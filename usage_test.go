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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotUsage(t *testing.T) {
	t.Parallel()

	u := SnapshotUsage()

	// Runtime-sourced memory figures are always available.
	assert.Contains(t, u.HeapAlloc, " MB")
	assert.Contains(t, u.HeapSys, " MB")
	assert.Contains(t, u.Sys, " MB")

	// Process-sourced counters may be unavailable on some platforms; each
	// one is either a formatted figure or the sentinel, never empty.
	unitOrUnknown := func(v, unit string) {
		t.Helper()
		if v != unknownFigure {
			assert.Contains(t, v, unit)
		}
	}
	unitOrUnknown(u.RSS, " MB")
	unitOrUnknown(u.CPUUser, " ms")
	unitOrUnknown(u.CPUSystem, " ms")
	unitOrUnknown(u.Uptime, " s")
}

func TestSnapshotUsage_ConcurrentReads(t *testing.T) {
	t.Parallel()

	done := make(chan Usage, 4)
	for i := 0; i < 4; i++ {
		go func() { done <- SnapshotUsage() }()
	}
	for i := 0; i < 4; i++ {
		u := <-done
		assert.NotEmpty(t, u.HeapAlloc)
	}
}
