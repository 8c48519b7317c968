package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/procwatch-io/procwatch/app/monitor"
)

var checkCommand = Command{
	Description: "Take a single process snapshot, print it and exit.",

	Options: []Option{
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
			Help:  "Show only processes with this exact name.",
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

		ctx := context.Background()
		provider := monitor.NewSnapshotProvider()

		// CPU usage is measured between two snapshots, so take a priming
		// snapshot first and report over a one second window.
		firstReadTime := time.Now()

		if _, err = provider.Snapshot(ctx); err != nil {
			return fmt.Errorf("cannot snapshot processes: %w", err)
		}

		time.Sleep(time.Second - time.Since(firstReadTime))

		metrics, err := provider.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("cannot snapshot processes: %w", err)
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 1, 2, ' ', 0)
		_, _ = fmt.Fprintln(writer, "PID\tNAME\tCPU(%)\tMEM(%)\tSTATUS")

		for _, metric := range metrics {
			if !config.MatchesFilter(metric.Name) {
				continue
			}

			status := "OK"
			if kind := monitor.Evaluate(metric, config); kind != 0 {
				status = kind.String()
			}

			_, _ = fmt.Fprintf(writer, "%d\t%s\t%.2f\t%.2f\t%s\n",
				metric.PID, metric.Name, metric.CPUPercent, metric.MemPercent, status)
		}

		return writer.Flush()
	},
}
