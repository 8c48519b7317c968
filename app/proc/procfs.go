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

//go:build linux

package proc

import (
	"github.com/procwatch-io/procwatch/app/utils"
)

// ProcFS is the mount point of the proc filesystem.
// Declared as a variable so tests can point it at a fixture tree.
var ProcFS = "/proc"

// ListRunningProcesses returns a list of PIDs of currently running processes.
func ListRunningProcesses() ([]string, error) {
	dirNames, err := utils.ListDirectory(ProcFS)
	if err != nil {
		return nil, err
	}

	// return only directories with numeric filename
	result := make([]string, 0, len(dirNames))
	for _, dirName := range dirNames {
		if dirName[0] < '0' || dirName[0] > '9' {
			continue
		}

		result = append(result, dirName)
	}

	return result, nil
}
