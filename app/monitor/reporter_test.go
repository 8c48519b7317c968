package monitor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/procwatch-io/procwatch/app/utils/assert"
)

func testRecord(transition Transition) AlertRecord {
	return AlertRecord{
		Timestamp:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Transition: transition,
		PID:        42,
		Name:       "nginx",
		Kind:       ViolationCPU,
		CPUPercent: 91.5,
		MemPercent: 12,
	}
}

func TestLogReporterAppendsToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "alerts.log")

	reporter, err := NewLogReporter(logPath, DefaultWriteFailureBudget)
	assert.NoError(t, err)

	reporter.console = new(bytes.Buffer)
	reporter.colorize = false

	assert.NoError(t, reporter.Emit(testRecord(TransitionNew)))
	assert.NoError(t, reporter.Emit(testRecord(TransitionRecovery)))
	assert.NoError(t, reporter.Close())

	contents, err := os.ReadFile(logPath)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	assert.Length(t, lines, 2)
	assert.MatchString(t, lines[0], `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\S* \[NEW\] pid=42 name=nginx kind=CPU cpu=91\.50% mem=12\.00%$`)
	assert.MatchString(t, lines[1], `\[RECOVERY\]`)
}

func TestLogReporterConsoleEcho(t *testing.T) {
	console := new(bytes.Buffer)

	reporter, err := NewLogReporter("", DefaultWriteFailureBudget)
	assert.NoError(t, err)

	reporter.console = console
	reporter.colorize = false

	assert.NoError(t, reporter.Emit(testRecord(TransitionNew)))
	assert.MatchString(t, console.String(), `\[NEW\] pid=42`)
}

func TestLogReporterUnwritablePath(t *testing.T) {
	_, err := NewLogReporter(filepath.Join(t.TempDir(), "missing", "alerts.log"), DefaultWriteFailureBudget)

	if err == nil {
		t.Fatalf("expected error for unwritable log path")
	}
}

func TestLogReporterWriteFailureEscalation(t *testing.T) {
	reporter, err := NewLogReporter("", 2)
	assert.NoError(t, err)

	reporter.console = new(bytes.Buffer)
	reporter.colorize = false

	// swap in a destination that cannot be written to
	reporter.path = filepath.Join(t.TempDir(), "missing", "alerts.log")

	// first failure is tolerated
	assert.NoError(t, reporter.Emit(testRecord(TransitionNew)))

	// second consecutive failure exhausts the budget
	err = reporter.Emit(testRecord(TransitionContinuing))
	assert.True(t, errors.Is(err, ErrReporterFailing))
}

func TestLogReporterFailureCounterResets(t *testing.T) {
	logDir := t.TempDir()
	logPath := filepath.Join(logDir, "alerts.log")

	reporter, err := NewLogReporter(logPath, 2)
	assert.NoError(t, err)

	reporter.console = new(bytes.Buffer)
	reporter.colorize = false

	badPath := filepath.Join(logDir, "missing", "alerts.log")

	reporter.path = badPath
	assert.NoError(t, reporter.Emit(testRecord(TransitionNew)))

	// a successful write resets the consecutive failure counter
	reporter.path = logPath
	assert.NoError(t, reporter.Emit(testRecord(TransitionContinuing)))
	assert.Equal(t, reporter.failures, 0)

	reporter.path = badPath
	assert.NoError(t, reporter.Emit(testRecord(TransitionContinuing)))
}
