//go:build linux

package proc

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/procwatch-io/procwatch/app/utils"
)

// ResidentMemory returns the resident set size of a process in Kibibytes,
// based on /proc/[pid]/status.
// See `man proc` -> `/proc/[pid]/status` section for details on the file format.
func ResidentMemory(pid string) (uint64, error) {
	statusFilePath := filepath.Join(ProcFS, pid, "status")

	var memory uint64

	err := utils.ForLinesInFile(statusFilePath, func(line string) error {
		fields := strings.Fields(line)

		if len(fields) == 0 {
			return nil
		}

		switch fields[0] {
		case "RssAnon:", "RssFile:", "RssShmem:":
			if len(fields) != 3 || fields[2] != "kB" {
				return fmt.Errorf("unsupported file format")
			}

			value, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return err
			}

			memory += value
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return memory, nil
}
