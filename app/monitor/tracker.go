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

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transition identifies the state change an AlertRecord reports.
type Transition string

// Supported transitions.
const (
	TransitionNew        Transition = "NEW"
	TransitionContinuing Transition = "CONTINUING"
	TransitionRecovery   Transition = "RECOVERY"
)

// AlertRecord is a single emitted alert fact. Records are immutable.
type AlertRecord struct {
	// Timestamp of the tick which produced the record.
	Timestamp time.Time

	// Transition which triggered the record.
	Transition Transition

	// EpisodeID identifies the violation episode the record belongs to.
	EpisodeID string

	// PID of the offending process.
	PID int

	// Name of the offending process.
	Name string

	// Kind of the violation episode.
	Kind ViolationKind

	// CPUPercent at the time of the record. Zero when the process exited.
	CPUPercent float64

	// MemPercent at the time of the record. Zero when the process exited.
	MemPercent float64
}

// String renders the record in the alert log line format.
func (r AlertRecord) String() string {
	return fmt.Sprintf("%s [%s] pid=%d name=%s kind=%s cpu=%.2f%% mem=%.2f%%",
		r.Timestamp.Format(time.RFC3339), r.Transition, r.PID, r.Name, r.Kind, r.CPUPercent, r.MemPercent)
}

// ViolationState tracks one ongoing violation episode for a single process.
type ViolationState struct {
	// EpisodeID is a unique identifier of the violation episode.
	EpisodeID string

	// PID of the process in violation.
	PID int

	// Name of the process in violation.
	Name string

	// Kind is the current violation set. May change while the episode lasts.
	Kind ViolationKind

	// FirstDetected is the tick on which the episode started.
	FirstDetected time.Time

	// LastSeen is the most recent tick on which the violation persisted.
	LastSeen time.Time

	lastEmitted time.Time
}

// Observation is one process' evaluated metrics for a single tick.
type Observation struct {
	Metric ProcessMetric
	Kind   ViolationKind
}

// Tracker converts per-tick violation observations into a stream of alert
// records, emitting once per state transition instead of once per tick.
//
// The scheduler loop is the only writer. The mutex exists so the status API
// can read active episodes while the loop is running.
type Tracker struct {
	lock      sync.Mutex
	states    map[int]*ViolationState
	heartbeat time.Duration
	now       func() time.Time
}

// NewTracker returns an empty tracker.
// A positive heartbeat makes long-running unchanged violations re-emit a
// CONTINUING record every heartbeat interval; zero disables re-emission.
func NewTracker(heartbeat time.Duration) *Tracker {
	return &Tracker{
		states:    make(map[int]*ViolationState),
		heartbeat: heartbeat,
		now:       time.Now,
	}
}

// Advance processes one tick's worth of observations and returns alert
// records for every state transition.
//
// Processes tracked as active but missing from the observations recovered by
// exiting; their state is purged so the map cannot grow unbounded.
func (t *Tracker) Advance(observations []Observation) []AlertRecord {
	t.lock.Lock()
	defer t.lock.Unlock()

	now := t.now()

	var records []AlertRecord

	seen := make(map[int]bool, len(observations))

	for _, observation := range observations {
		metric := observation.Metric
		seen[metric.PID] = true

		state := t.states[metric.PID]

		// a reused PID running a different command is a new process identity
		if state != nil && state.Name != metric.Name {
			records = append(records, recoveryRecord(state, now, 0, 0))
			delete(t.states, metric.PID)
			state = nil
		}

		if observation.Kind == 0 {
			if state != nil {
				records = append(records, recoveryRecord(state, now, metric.CPUPercent, metric.MemPercent))
				delete(t.states, metric.PID)
			}

			continue
		}

		if state == nil {
			state = &ViolationState{
				EpisodeID:     uuid.NewString(),
				PID:           metric.PID,
				Name:          metric.Name,
				Kind:          observation.Kind,
				FirstDetected: now,
				LastSeen:      now,
				lastEmitted:   now,
			}

			t.states[metric.PID] = state
			records = append(records, alertRecord(TransitionNew, state, now, metric))

			continue
		}

		state.LastSeen = now

		kindChanged := state.Kind != observation.Kind
		state.Kind = observation.Kind

		heartbeatDue := t.heartbeat > 0 && now.Sub(state.lastEmitted) >= t.heartbeat

		if kindChanged || heartbeatDue {
			state.lastEmitted = now
			records = append(records, alertRecord(TransitionContinuing, state, now, metric))
		}
	}

	// processes which disappeared from the snapshot recovered by exiting
	var exited []int
	for pid := range t.states {
		if !seen[pid] {
			exited = append(exited, pid)
		}
	}

	sort.Ints(exited)

	for _, pid := range exited {
		records = append(records, recoveryRecord(t.states[pid], now, 0, 0))
		delete(t.states, pid)
	}

	return records
}

// Active returns a copy of all ongoing violation episodes, ordered by PID.
func (t *Tracker) Active() []ViolationState {
	t.lock.Lock()
	defer t.lock.Unlock()

	active := make([]ViolationState, 0, len(t.states))
	for _, state := range t.states {
		active = append(active, *state)
	}

	sort.Slice(active, func(i, j int) bool { return active[i].PID < active[j].PID })

	return active
}

func alertRecord(transition Transition, state *ViolationState, now time.Time, metric ProcessMetric) AlertRecord {
	return AlertRecord{
		Timestamp:  now,
		Transition: transition,
		EpisodeID:  state.EpisodeID,
		PID:        state.PID,
		Name:       state.Name,
		Kind:       state.Kind,
		CPUPercent: metric.CPUPercent,
		MemPercent: metric.MemPercent,
	}
}

func recoveryRecord(state *ViolationState, now time.Time, cpuPercent, memPercent float64) AlertRecord {
	return AlertRecord{
		Timestamp:  now,
		Transition: TransitionRecovery,
		EpisodeID:  state.EpisodeID,
		PID:        state.PID,
		Name:       state.Name,
		Kind:       state.Kind,
		CPUPercent: cpuPercent,
		MemPercent: memPercent,
	}
}
