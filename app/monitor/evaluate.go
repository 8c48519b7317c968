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

// ViolationKind is a set of threshold violations observed for a process.
type ViolationKind uint8

// Supported violation kinds.
const (
	ViolationCPU ViolationKind = 1 << iota
	ViolationMEM
)

// String returns the wire representation of the violation set.
func (k ViolationKind) String() string {
	switch k {
	case ViolationCPU:
		return "CPU"
	case ViolationMEM:
		return "MEM"
	case ViolationCPU | ViolationMEM:
		return "CPU,MEM"
	default:
		return ""
	}
}

// Evaluate checks a single process metric against the configured thresholds
// and returns the set of violated thresholds (possibly empty).
// Comparison is strict: a metric exactly equal to its threshold does not violate.
func Evaluate(metric ProcessMetric, config *Config) ViolationKind {
	var kind ViolationKind

	if metric.CPUPercent > config.CPUThreshold {
		kind |= ViolationCPU
	}

	if metric.MemPercent > config.MemThreshold {
		kind |= ViolationMEM
	}

	return kind
}
