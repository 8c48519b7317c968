//go:build !linux

package monitor

import (
	"context"
	"fmt"
	"runtime"
)

// NewSnapshotProvider returns a SnapshotProvider for unsupported platforms.
// Every call to Snapshot fails; only Linux hosts can be monitored.
func NewSnapshotProvider() SnapshotProvider {
	return unsupportedProvider{}
}

type unsupportedProvider struct{}

func (unsupportedProvider) Snapshot(context.Context) ([]ProcessMetric, error) {
	return nil, fmt.Errorf("process snapshots are not supported on %s", runtime.GOOS)
}
