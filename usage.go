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
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// unknownFigure stands in for any resource counter the platform cannot
// provide. A missing counter never fails the report.
const unknownFigure = "unknown"

// Usage is a point-in-time snapshot of the process's resource counters, each
// pre-formatted with its unit. Memory figures are megabytes, CPU figures
// milliseconds, uptime seconds.
type Usage struct {
	HeapAlloc string // live heap objects
	HeapSys   string // heap memory obtained from the OS
	Sys       string // total runtime-managed memory
	RSS       string // resident set size

	CPUUser   string
	CPUSystem string

	Uptime string
}

// SnapshotUsage reads the process's resource counters. It is a pure read with
// no retained state, safe for concurrent callers. Counters unavailable on the
// platform come back as "unknown" rather than an error.
//
// Example:
//
//	u := report.SnapshotUsage()
//	fmt.Println(u.RSS, u.CPUUser, u.Uptime)
func SnapshotUsage() Usage {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	u := Usage{
		HeapAlloc: megabytes(mem.HeapAlloc),
		HeapSys:   megabytes(mem.HeapSys),
		Sys:       megabytes(mem.Sys),
		RSS:       unknownFigure,
		CPUUser:   unknownFigure,
		CPUSystem: unknownFigure,
		Uptime:    unknownFigure,
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return u
	}

	if mi, err := proc.MemoryInfo(); err == nil && mi != nil {
		u.RSS = megabytes(mi.RSS)
	}
	if times, err := proc.Times(); err == nil && times != nil {
		u.CPUUser = milliseconds(times.User)
		u.CPUSystem = milliseconds(times.System)
	}
	if created, err := proc.CreateTime(); err == nil && created > 0 {
		started := time.UnixMilli(created)
		u.Uptime = fmt.Sprintf("%.2f s", time.Since(started).Seconds())
	}

	return u
}

func megabytes(v uint64) string {
	return fmt.Sprintf("%.2f MB", float64(v)/(1024*1024))
}

// milliseconds formats a CPU time given in seconds.
func milliseconds(seconds float64) string {
	return fmt.Sprintf("%.2f ms", seconds*1000)
}
