package cmd

import (
	"fmt"

	"github.com/procwatch-io/procwatch/app"
)

var versionCommand = Command{
	Description: "Watchdog version.",
	Target: func(opts Options) error {
		fmt.Printf("%s (commit: %s)\n", app.Version, app.Commit)
		return nil
	},
}
