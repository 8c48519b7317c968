package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/procwatch-io/procwatch/app/monitor"
	"github.com/procwatch-io/procwatch/app/utils/assert"
)

func TestConfigFromOptionsDefaults(t *testing.T) {
	config, err := configFromOptions(Options{})
	assert.NoError(t, err)

	assert.Equal(t, config.Interval, monitor.DefaultInterval)
	assert.Equal(t, config.CPUThreshold, monitor.DefaultCPUThreshold)
	assert.Equal(t, config.MemThreshold, monitor.DefaultMemThreshold)
	assert.Equal(t, config.ProcessName, "")
	assert.Equal(t, config.LogFile, "")
}

func TestConfigFromOptionsOverrides(t *testing.T) {
	opts := Options{
		startIntervalOption:     "30",
		startCPUThresholdOption: "70.5",
		startMemThresholdOption: "90",
		startProcessNameOption:  "nginx",
		startLogFileOption:      "/tmp/alerts.log",
		startHeartbeatOption:    "120",
		startListenOption:       "127.0.0.1:8125",
	}

	config, err := configFromOptions(opts)
	assert.NoError(t, err)

	assert.Equal(t, config.Interval, 30*time.Second)
	assert.Equal(t, config.CPUThreshold, 70.5)
	assert.Equal(t, config.MemThreshold, 90.0)
	assert.Equal(t, config.ProcessName, "nginx")
	assert.Equal(t, config.LogFile, "/tmp/alerts.log")
	assert.Equal(t, config.Heartbeat, 2*time.Minute)
	assert.Equal(t, config.ListenAddress, "127.0.0.1:8125")
}

func TestConfigFromOptionsPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "procwatch.yml")
	assert.NoError(t, os.WriteFile(configPath, []byte("cpu_threshold: 70\ninterval: 17\n"), 0600))

	// command line options win over config file values
	opts := Options{
		startConfigFileOption:   configPath,
		startCPUThresholdOption: "90",
	}

	config, err := configFromOptions(opts)
	assert.NoError(t, err)

	assert.Equal(t, config.CPUThreshold, 90.0)
	assert.Equal(t, config.Interval, 17*time.Second)
}

func TestConfigFromOptionsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "non-numeric interval",
			opts: Options{startIntervalOption: "soon"},
		},
		{
			name: "zero interval",
			opts: Options{startIntervalOption: "0"},
		},
		{
			name: "non-numeric threshold",
			opts: Options{startCPUThresholdOption: "high"},
		},
		{
			name: "threshold out of range",
			opts: Options{startMemThresholdOption: "150"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := configFromOptions(tt.opts); err == nil {
				t.Fatalf("expected error for %v", tt.opts)
			}
		})
	}
}

func TestCommandEvaluateArgs(t *testing.T) {
	command := Command{
		Options: []Option{
			{Name: "interval", Short: "i"},
			{Name: "verbose", Short: "v", Flag: "true"},
			{Name: "log-level", Default: "INFO"},
		},
	}

	args, opts, err := command.evaluateArgs([]string{"-i", "30", "-v", "start"}, nil)
	assert.NoError(t, err)

	assert.Equal(t, args, []string{"start"})
	assert.Equal(t, opts["interval"], "30")
	assert.Equal(t, opts["verbose"], "true")
	assert.Equal(t, opts["log-level"], "INFO")
}

func TestCommandEvaluateArgsUnknownOption(t *testing.T) {
	command := Command{}

	if _, _, err := command.evaluateArgs([]string{"--bogus"}, nil); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}

func TestCommandEvaluateArgsMissingValue(t *testing.T) {
	command := Command{
		Options: []Option{{Name: "interval", Short: "i"}},
	}

	if _, _, err := command.evaluateArgs([]string{"--interval"}, nil); err == nil {
		t.Fatalf("expected error for missing option value")
	}
}
