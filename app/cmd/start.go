package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/procwatch-io/procwatch/app/api"
	"github.com/procwatch-io/procwatch/app/log"
	"github.com/procwatch-io/procwatch/app/monitor"
)

const (
	startConfigFileOption   = "config"
	startIntervalOption     = "interval"
	startCPUThresholdOption = "cpu-threshold"
	startMemThresholdOption = "mem-threshold"
	startProcessNameOption  = "process-name"
	startLogFileOption      = "log-file"
	startHeartbeatOption    = "heartbeat"
	startListenOption       = "listen"
)

var startCommand = Command{
	Description: "Start the process watchdog.",

	Options: []Option{
		{
			Name:  startConfigFileOption,
			Short: "c",
			Help:  "Path to a YAML configuration file. Command line options take precedence.",
		},
		{
			Name:  startIntervalOption,
			Short: "i",
			Help:  "Seconds between process table snapshots (default: 5).",
		},
		{
			Name: startCPUThresholdOption,
			Help: "CPU usage alert threshold in percent (default: 80).",
		},
		{
			Name: startMemThresholdOption,
			Help: "Memory usage alert threshold in percent (default: 80).",
		},
		{
			Name:  startProcessNameOption,
			Short: "p",
			Help:  "Monitor only processes with this exact name.",
		},
		{
			Name:  startLogFileOption,
			Short: "f",
			Help:  "Append alert records to this file.",
		},
		{
			Name: startHeartbeatOption,
			Help: "Seconds between re-emissions of an ongoing violation (default: 300, 0 disables).",
		},
		{
			Name: startListenOption,
			Help: "Expose the local status API on this address (e.g. 127.0.0.1:8125).",
		},
	},

	Target: func(opts Options) error {
		if err := applyLogLevel(opts); err != nil {
			return err
		}

		config, err := configFromOptions(opts)
		if err != nil {
			return err
		}

		reporter, err := monitor.NewLogReporter(config.LogFile, config.WriteFailureBudget)
		if err != nil {
			return err
		}

		service := monitor.New(config, monitor.NewSnapshotProvider(), reporter)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if config.ListenAddress != "" {
			statusServer := api.NewServer(config.ListenAddress, service)

			go func() {
				if err := statusServer.Start(ctx); err != nil {
					log.Errorf("status API error: %v", err)
				}
			}()
		}

		return service.Run(ctx)
	},
}

// configFromOptions builds the watchdog configuration from an optional
// config file and command line options, options taking precedence.
func configFromOptions(opts Options) (*monitor.Config, error) {
	config := monitor.DefaultConfig()

	var err error
	if path, ok := opts[startConfigFileOption]; ok && path != "" {
		if config, err = monitor.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if value, ok := opts[startIntervalOption]; ok {
		if config.Interval, err = parseSeconds(startIntervalOption, value); err != nil {
			return nil, err
		}
	}

	if value, ok := opts[startCPUThresholdOption]; ok {
		if config.CPUThreshold, err = parsePercent(startCPUThresholdOption, value); err != nil {
			return nil, err
		}
	}

	if value, ok := opts[startMemThresholdOption]; ok {
		if config.MemThreshold, err = parsePercent(startMemThresholdOption, value); err != nil {
			return nil, err
		}
	}

	if value, ok := opts[startProcessNameOption]; ok {
		config.ProcessName = value
	}

	if value, ok := opts[startLogFileOption]; ok {
		config.LogFile = value
	}

	if value, ok := opts[startHeartbeatOption]; ok {
		if config.Heartbeat, err = parseSeconds(startHeartbeatOption, value); err != nil {
			return nil, err
		}
	}

	if value, ok := opts[startListenOption]; ok {
		config.ListenAddress = value
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func parseSeconds(option, value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q: expecting a number of seconds", option, value)
	}

	return time.Duration(seconds) * time.Second, nil
}

func parsePercent(option, value string) (float64, error) {
	percent, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q: expecting a percentage", option, value)
	}

	return percent, nil
}
