//go:build linux

package api

import "golang.org/x/sys/unix"

// hostUptime returns the system uptime in seconds, or zero when unavailable.
func hostUptime() int64 {
	var info unix.Sysinfo_t

	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}

	return int64(info.Uptime)
}
