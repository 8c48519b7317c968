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
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/procwatch-io/procwatch/app/log"
)

// Service drives the sampling and alerting pipeline on a fixed interval.
// Ticks never overlap: a tick runs to completion before the next one starts,
// and a tick overrunning the interval only shortens the following sleep.
type Service struct {
	config   *Config
	provider SnapshotProvider
	tracker  *Tracker
	reporter Reporter

	startedAt        time.Time
	ticks            atomic.Uint64
	snapshotFailures int
}

// New returns a Service wired up with the provided collaborators.
func New(config *Config, provider SnapshotProvider, reporter Reporter) *Service {
	return &Service{
		config:    config,
		provider:  provider,
		tracker:   NewTracker(config.Heartbeat),
		reporter:  reporter,
		startedAt: time.Now(),
	}
}

// Status is a point-in-time view of the running service.
type Status struct {
	StartedAt        time.Time
	Ticks            uint64
	ActiveViolations []ViolationState
}

// Status returns the current service status.
// Safe to call concurrently with the running loop.
func (s *Service) Status() Status {
	return Status{
		StartedAt:        s.startedAt,
		Ticks:            s.ticks.Load(),
		ActiveViolations: s.tracker.Active(),
	}
}

// Run executes the monitoring loop until ctx is cancelled or a fatal error
// occurs. A nil return means clean shutdown.
func (s *Service) Run(ctx context.Context) error {
	// SIGUSR1 forces a tick outside the normal schedule
	kickSignalCh := make(chan os.Signal, 1)
	signal.Notify(kickSignalCh, syscall.SIGUSR1)
	defer signal.Stop(kickSignalCh)

	log.Infof("starting process monitoring (interval: %s)", s.config.Interval)

	for {
		tickStart := time.Now()

		if err := s.RunOnce(ctx); err != nil {
			_ = s.reporter.Close()
			return err
		}

		elapsed := time.Since(tickStart)

		sleep := s.config.Interval - elapsed
		if sleep < 0 {
			log.Warnf("tick took %s, longer than the %s interval", elapsed.Round(time.Millisecond), s.config.Interval)
			sleep = 0
		}

		timer := time.NewTimer(sleep)

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Infof("process monitoring stopped")

			return s.reporter.Close()

		case <-kickSignalCh:
			timer.Stop()
			log.Debugf("received kick signal, forcing a tick")

		case <-timer.C:
		}
	}
}

// RunOnce performs a single snapshot, evaluation and reporting pass.
func (s *Service) RunOnce(ctx context.Context) error {
	metrics, err := s.provider.Snapshot(ctx)
	if err != nil {
		s.snapshotFailures++

		log.Errorf("process snapshot failed: %v", err)

		if s.snapshotFailures >= s.config.SnapshotFailureBudget {
			return fmt.Errorf("process snapshot failed %d consecutive times: %w", s.snapshotFailures, err)
		}

		// skip the tick, retry on the next one
		return nil
	}

	s.snapshotFailures = 0

	observations := make([]Observation, 0, len(metrics))

	for _, metric := range metrics {
		// filtered-out processes are treated as absent this tick
		if !s.config.MatchesFilter(metric.Name) {
			continue
		}

		observations = append(observations, Observation{
			Metric: metric,
			Kind:   Evaluate(metric, s.config),
		})
	}

	for _, record := range s.tracker.Advance(observations) {
		if err = s.reporter.Emit(record); err != nil {
			return fmt.Errorf("error emitting alert record: %w", err)
		}
	}

	s.ticks.Add(1)

	return nil
}
