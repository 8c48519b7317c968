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
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/procwatch-io/procwatch/app/log"
)

// ErrReporterFailing means the reporter exhausted its consecutive
// write-failure budget and the watchdog is running blind.
var ErrReporterFailing = errors.New("alert log write failure budget exhausted")

// Reporter emits alert records to their destination.
type Reporter interface {
	// Emit writes a single record. A non-nil error is fatal for the loop.
	Emit(record AlertRecord) error

	// Close releases reporter resources on shutdown.
	Close() error
}

// ANSI colors for console output on a terminal.
var transitionColor = map[Transition]string{
	TransitionNew:        "\033[31m",
	TransitionContinuing: "\033[33m",
	TransitionRecovery:   "\033[32m",
}

const colorReset = "\033[0m"

// LogReporter appends alert records to a log file and echoes them to the
// console, color-coded by transition when stdout is a terminal.
//
// Single write failures are non-fatal: the record is reported to stderr via
// the logger and the loop continues. Consecutive failures beyond the budget
// escalate to ErrReporterFailing.
type LogReporter struct {
	path          string
	console       io.Writer
	colorize      bool
	failureBudget int
	failures      int
}

// NewLogReporter returns a reporter appending to the log file at path.
// An empty path means console-only output. The destination is probed once, so
// an unwritable path fails here, before any monitoring begins.
func NewLogReporter(path string, failureBudget int) (*LogReporter, error) {
	if path != "" {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("cannot open alert log: %w", err)
		}

		_ = file.Close()
	}

	return &LogReporter{
		path:          path,
		console:       os.Stdout,
		colorize:      term.IsTerminal(int(os.Stdout.Fd())),
		failureBudget: failureBudget,
	}, nil
}

// Emit writes a single alert record.
func (r *LogReporter) Emit(record AlertRecord) error {
	line := record.String()

	// console echo is best-effort
	if r.colorize {
		_, _ = fmt.Fprintln(r.console, transitionColor[record.Transition]+line+colorReset)
	} else {
		_, _ = fmt.Fprintln(r.console, line)
	}

	if r.path == "" {
		return nil
	}

	if err := r.appendLine(line); err != nil {
		r.failures++

		log.Errorf("error writing alert record to %s: %v", r.path, err)

		if r.failures >= r.failureBudget {
			return fmt.Errorf("%w: %d consecutive failures", ErrReporterFailing, r.failures)
		}

		return nil
	}

	r.failures = 0

	return nil
}

// Close releases reporter resources.
// The file handle is scoped to each write, so there is nothing held open.
func (r *LogReporter) Close() error {
	return nil
}

// appendLine appends a single line to the log file with a scoped file handle,
// guaranteeing flush and close on every exit path. A single line written with
// O_APPEND keeps records line-atomic.
func (r *LogReporter) appendLine(line string) (err error) {
	var file *os.File

	if file, err = os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600); err != nil {
		return err
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = file.Write([]byte(line + "\n")); err != nil {
		return err
	}

	if err = file.Sync(); err != nil {
		return err
	}

	return err
}
