//go:build !linux

package api

func hostUptime() int64 {
	return 0
}
