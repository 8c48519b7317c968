// Copyright 2025 procwatch.io
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
//
// SPDX-License-Identifier: Apache-2.0

package monitor

import "context"

// ProcessMetric is a single process observed in a snapshot, together with its
// resource usage at that moment.
type ProcessMetric struct {
	// PID of the process. Assigned by the OS and reused over time.
	PID int

	// Name of the process executable, without arguments.
	Name string

	// CPUPercent is CPU usage as a percentage of a single core, measured
	// since the previous snapshot. A multi-threaded process can exceed 100.
	CPUPercent float64

	// MemPercent is resident memory as a percentage of total system memory.
	MemPercent float64
}

// SnapshotProvider produces the current process table with metrics.
// Implementations must tolerate processes exiting between enumeration and
// metric reads by omitting them from the result rather than failing.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) ([]ProcessMetric, error)
}
