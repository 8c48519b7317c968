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
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultInterval              = 5 * time.Second
	DefaultCPUThreshold          = 80.0
	DefaultMemThreshold          = 80.0
	DefaultHeartbeat             = 5 * time.Minute
	DefaultWriteFailureBudget    = 5
	DefaultSnapshotFailureBudget = 5
)

// Config holds the watchdog configuration.
// Immutable for the process lifetime once validated.
type Config struct {
	// Interval between process table snapshots.
	Interval time.Duration

	// CPUThreshold is the CPU usage violation threshold in percent.
	CPUThreshold float64

	// MemThreshold is the memory usage violation threshold in percent.
	MemThreshold float64

	// ProcessName limits monitoring to processes with this exact name.
	// Empty means all processes are monitored.
	ProcessName string

	// LogFile is the alert record destination. Empty means console only.
	LogFile string

	// Heartbeat is the re-emission interval for ongoing unchanged
	// violations. Zero disables heartbeat records.
	Heartbeat time.Duration

	// ListenAddress enables the local status API when non-empty.
	ListenAddress string

	// WriteFailureBudget is the number of consecutive alert log write
	// failures tolerated before shutting down.
	WriteFailureBudget int

	// SnapshotFailureBudget is the number of consecutive process
	// enumeration failures tolerated before shutting down.
	SnapshotFailureBudget int
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Interval:              DefaultInterval,
		CPUThreshold:          DefaultCPUThreshold,
		MemThreshold:          DefaultMemThreshold,
		Heartbeat:             DefaultHeartbeat,
		WriteFailureBudget:    DefaultWriteFailureBudget,
		SnapshotFailureBudget: DefaultSnapshotFailureBudget,
	}
}

// fileConfig mirrors Config for YAML decoding, with time intervals
// expressed in seconds. Pointer fields distinguish unset values, so the
// file only overrides what it mentions.
type fileConfig struct {
	IntervalSeconds       *int     `yaml:"interval"`
	CPUThreshold          *float64 `yaml:"cpu_threshold"`
	MemThreshold          *float64 `yaml:"mem_threshold"`
	ProcessName           *string  `yaml:"process_name"`
	LogFile               *string  `yaml:"log_file"`
	HeartbeatSeconds      *int     `yaml:"heartbeat"`
	ListenAddress         *string  `yaml:"listen_address"`
	WriteFailureBudget    *int     `yaml:"write_failure_budget"`
	SnapshotFailureBudget *int     `yaml:"snapshot_failure_budget"`
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config from file %s: %w", path, err)
	}

	loaded := new(fileConfig)

	if err = yaml.Unmarshal(configBytes, loaded); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	config := DefaultConfig()

	if loaded.IntervalSeconds != nil {
		config.Interval = time.Duration(*loaded.IntervalSeconds) * time.Second
	}

	if loaded.CPUThreshold != nil {
		config.CPUThreshold = *loaded.CPUThreshold
	}

	if loaded.MemThreshold != nil {
		config.MemThreshold = *loaded.MemThreshold
	}

	if loaded.ProcessName != nil {
		config.ProcessName = *loaded.ProcessName
	}

	if loaded.LogFile != nil {
		config.LogFile = *loaded.LogFile
	}

	if loaded.HeartbeatSeconds != nil {
		config.Heartbeat = time.Duration(*loaded.HeartbeatSeconds) * time.Second
	}

	if loaded.ListenAddress != nil {
		config.ListenAddress = *loaded.ListenAddress
	}

	if loaded.WriteFailureBudget != nil {
		config.WriteFailureBudget = *loaded.WriteFailureBudget
	}

	if loaded.SnapshotFailureBudget != nil {
		config.SnapshotFailureBudget = *loaded.SnapshotFailureBudget
	}

	return config, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be a positive value")
	}

	if c.CPUThreshold < 0 || c.CPUThreshold > 100 {
		return fmt.Errorf("CPU threshold must be between 0 and 100")
	}

	if c.MemThreshold < 0 || c.MemThreshold > 100 {
		return fmt.Errorf("memory threshold must be between 0 and 100")
	}

	if c.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative")
	}

	if c.WriteFailureBudget < 1 {
		return fmt.Errorf("write failure budget must be a positive value")
	}

	if c.SnapshotFailureBudget < 1 {
		return fmt.Errorf("snapshot failure budget must be a positive value")
	}

	return nil
}

// MatchesFilter reports whether a process name passes the configured filter.
// Matching is an exact, case-sensitive comparison.
func (c *Config) MatchesFilter(name string) bool {
	return c.ProcessName == "" || c.ProcessName == name
}
