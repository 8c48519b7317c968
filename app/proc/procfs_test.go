//go:build linux

package proc

import (
	"sort"
	"testing"

	"github.com/procwatch-io/procwatch/app/utils/assert"
)

func TestListRunningProcesses(t *testing.T) {
	useFixtureProcFS(t, map[string]string{
		"1/stat":    "",
		"234/stat":  "",
		"5678/stat": "",
		"stat":      "cpu  1 2 3 4\n",
		"meminfo":   "MemTotal: 1 kB\n",
	})

	pids, err := ListRunningProcesses()
	assert.NoError(t, err)

	sort.Strings(pids)
	assert.Equal(t, pids, []string{"1", "234", "5678"})
}

func TestListRunningProcessesMissingProcFS(t *testing.T) {
	realProcFS := ProcFS
	ProcFS = "/nonexistent-procfs"
	t.Cleanup(func() { ProcFS = realProcFS })

	if _, err := ListRunningProcesses(); err == nil {
		t.Fatalf("expected error for missing proc filesystem")
	}
}

func TestResidentMemory(t *testing.T) {
	useFixtureProcFS(t, map[string]string{
		"42/status": "Name:\tfixture\nUid:\t0\t0\t0\t0\nRssAnon:\t  1024 kB\nRssFile:\t512 kB\nRssShmem:\t64 kB\nVmSwap:\t0 kB\n",
	})

	memory, err := ResidentMemory("42")
	assert.NoError(t, err)
	assert.Equal(t, memory, uint64(1600))
}

func TestGetMemInfo(t *testing.T) {
	useFixtureProcFS(t, map[string]string{
		"meminfo": "MemTotal:       16384000 kB\nMemFree:         1024000 kB\nMemAvailable:    8192000 kB\n",
	})

	memInfo, err := GetMemInfo()
	assert.NoError(t, err)
	assert.Equal(t, memInfo.TotalMemory, uint64(16384000))
	assert.Equal(t, memInfo.AvailableMemory, uint64(8192000))
}
