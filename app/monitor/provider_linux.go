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

//go:build linux

package monitor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/procwatch-io/procwatch/app/log"
	"github.com/procwatch-io/procwatch/app/proc"
)

// snapshotWorkers bounds the number of concurrent per-process procfs reads.
const snapshotWorkers = 8

// procfsSample is the CPU accounting baseline kept for a single process
// between consecutive snapshots.
type procfsSample struct {
	name    string
	jiffies uint64
}

// procfsProvider reads process metrics from the proc filesystem.
//
// CPU usage can only be calculated over time, so the provider keeps
// per-process jiffies from the previous snapshot and reports usage over the
// window between the two reads. The first snapshot therefore reports zero
// CPU for every process.
type procfsProvider struct {
	totalMemory      uint64
	prevTotalJiffies uint64
	prevSamples      map[int]procfsSample
}

// NewSnapshotProvider returns a procfs-backed SnapshotProvider.
func NewSnapshotProvider() SnapshotProvider {
	return &procfsProvider{
		prevSamples: make(map[int]procfsSample),
	}
}

// procfsReading is the result of reading one process' metric files.
type procfsReading struct {
	stat  *proc.Stat
	rssKB uint64
}

// Snapshot returns metrics for all currently running processes.
// Processes which exit between enumeration and the metric reads are omitted.
func (p *procfsProvider) Snapshot(ctx context.Context) ([]ProcessMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pids, err := proc.ListRunningProcesses()
	if err != nil {
		return nil, fmt.Errorf("error listing running processes: %w", err)
	}

	totalJiffies, err := proc.TotalJiffies()
	if err != nil {
		return nil, fmt.Errorf("error reading total CPU jiffies: %w", err)
	}

	// MemTotal doesn't change while the system is up, read it once
	if p.totalMemory == 0 {
		memInfo, err := proc.GetMemInfo()
		if err != nil {
			return nil, fmt.Errorf("error reading system memory information: %w", err)
		}

		p.totalMemory = memInfo.TotalMemory
	}

	readings := p.readProcesses(pids)

	totalDelta := totalJiffies - p.prevTotalJiffies
	jiffiesPerCore := totalDelta / uint64(runtime.NumCPU())

	metrics := make([]ProcessMetric, 0, len(readings))
	samples := make(map[int]procfsSample, len(readings))

	for _, reading := range readings {
		if reading == nil {
			continue
		}

		pid := reading.stat.PID
		name := reading.stat.Name
		jiffies := reading.stat.Jiffies()

		var cpuPercent float64
		if p.prevTotalJiffies != 0 && jiffiesPerCore > 0 {
			// a reused PID with a different command has no usable baseline
			var baseline uint64
			if prev, ok := p.prevSamples[pid]; ok && prev.name == name {
				baseline = prev.jiffies
			}

			if jiffies > baseline {
				cpuPercent = float64((jiffies-baseline)*10000/jiffiesPerCore) / 100.0
			}
		}

		var memPercent float64
		if p.totalMemory > 0 {
			memPercent = float64(reading.rssKB*10000/p.totalMemory) / 100.0
		}

		metrics = append(metrics, ProcessMetric{
			PID:        pid,
			Name:       name,
			CPUPercent: cpuPercent,
			MemPercent: memPercent,
		})

		samples[pid] = procfsSample{name: name, jiffies: jiffies}
	}

	sort.Slice(metrics, func(i, j int) bool { return metrics[i].PID < metrics[j].PID })

	p.prevTotalJiffies = totalJiffies
	p.prevSamples = samples

	return metrics, nil
}

// readProcesses reads stat and status files for all PIDs using a bounded
// worker pool. Entries for processes which could not be read are nil.
func (p *procfsProvider) readProcesses(pids []string) []*procfsReading {
	readings := make([]*procfsReading, len(pids))

	var waitGroup sync.WaitGroup
	workerSlots := make(chan struct{}, snapshotWorkers)

	for i, pid := range pids {
		waitGroup.Add(1)

		go func(i int, pid string) {
			defer waitGroup.Done()

			workerSlots <- struct{}{}
			defer func() { <-workerSlots }()

			stat, err := proc.ReadStat(pid)
			if err != nil {
				// the process likely exited mid-snapshot, skip it
				log.Debugf("skipping process %s: %v", pid, err)
				return
			}

			rssKB, err := proc.ResidentMemory(pid)
			if err != nil {
				log.Debugf("skipping process %s: %v", pid, err)
				return
			}

			readings[i] = &procfsReading{stat: stat, rssKB: rssKB}
		}(i, pid)
	}

	waitGroup.Wait()

	return readings
}
