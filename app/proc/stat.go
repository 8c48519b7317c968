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

package proc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Field indices within /proc/[pid]/stat, counted after the closing
// parenthesis of the command name.
const (
	statFieldState           = 0
	statFieldUserModeJiffies = 11
	statFieldKernelJiffies   = 12
	statMinFields            = 13
)

const statBufferSize = 1024

// Stat represents a single process stats file (/proc/[pid]/stat).
// See `man proc` -> `/proc/[pid]/stat` section for details of the file format.
type Stat struct {
	// PID of the process.
	PID int

	// Name of the process executable, without arguments.
	Name string

	// State of the process (R, S, D, Z, T, ...).
	State string

	// UserJiffies is time spent in user mode.
	UserJiffies uint64

	// KernelJiffies is time spent in kernel mode.
	KernelJiffies uint64
}

// Jiffies returns the total CPU time consumed by the process.
func (s *Stat) Jiffies() uint64 {
	return s.UserJiffies + s.KernelJiffies
}

// NewStat parses contents of a /proc/[pid]/stat file.
// The command name is enclosed in parentheses and may contain spaces,
// so it cannot be parsed with a simple strings.Fields call.
func NewStat(content string) (*Stat, error) {
	nameStart := strings.IndexByte(content, '(')
	nameEnd := strings.LastIndexByte(content, ')')

	if nameStart < 0 || nameEnd < 0 || nameEnd < nameStart {
		return nil, fmt.Errorf("invalid process stat format: %s", content)
	}

	stat := &Stat{
		Name: content[nameStart+1 : nameEnd],
	}

	var err error
	if stat.PID, err = strconv.Atoi(strings.TrimSpace(content[:nameStart])); err != nil {
		return nil, fmt.Errorf("error parsing process ID: %w", err)
	}

	fields := strings.Fields(content[nameEnd+1:])
	if len(fields) < statMinFields {
		return nil, fmt.Errorf("invalid process stat format: %s", content)
	}

	stat.State = fields[statFieldState]

	if stat.UserJiffies, err = strconv.ParseUint(fields[statFieldUserModeJiffies], 10, 64); err != nil {
		return nil, fmt.Errorf("error parsing utime for process %d: %w", stat.PID, err)
	}

	if stat.KernelJiffies, err = strconv.ParseUint(fields[statFieldKernelJiffies], 10, 64); err != nil {
		return nil, fmt.Errorf("error parsing stime for process %d: %w", stat.PID, err)
	}

	return stat, nil
}

// ReadStat reads and parses /proc/[pid]/stat for the provided PID.
func ReadStat(pid string) (*Stat, error) {
	statFilePath := filepath.Join(ProcFS, pid, "stat")

	file, err := os.Open(statFilePath)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", statFilePath, err)
	}

	defer file.Close()

	buf := make([]byte, statBufferSize)

	n, err := file.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", statFilePath, err)
	}

	return NewStat(string(buf[0:n]))
}

// TotalJiffies returns a sum of all jiffies from the first line of /proc/stat.
// We could use C.sysconf(C._SC_CLK_TCK), but that would require CGO and
// that's not helping with portability.
func TotalJiffies() (uint64, error) {
	filePath := filepath.Join(ProcFS, "stat")

	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("error reading %s: %w", filePath, err)
	}

	defer file.Close()

	// we don't need to read the whole file, we only care about the first line
	buf := make([]byte, 512)
	if _, err = file.Read(buf); err != nil {
		return 0, fmt.Errorf("error reading contents of %s: %w", filePath, err)
	}

	newLine := bytes.IndexByte(buf, '\n')
	if newLine < 0 {
		newLine = len(buf)
	}

	fields := strings.Fields(string(buf[0:newLine]))

	var total, value uint64
	for i := 1; i < len(fields); i++ {
		if value, err = strconv.ParseUint(fields[i], 10, 64); err != nil {
			return 0, fmt.Errorf("error parsing contents of %s: %w", filePath, err)
		}

		total += value
	}

	return total, nil
}
