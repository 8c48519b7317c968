package cmd

import (
	"github.com/procwatch-io/procwatch/app/log"
)

const mainLogLevelOption = "log-level"

// Main is the root of the command tree.
var Main = Command{
	Description: "procwatch - host process resource watchdog",
	Options: []Option{
		{
			Name:    mainLogLevelOption,
			Short:   "l",
			Help:    "Logging level: DEBUG, INFO, WARNING or ERROR.",
			Default: "INFO",
		},
	},
	SubCommands: map[string]Command{
		"start":   startCommand,
		"check":   checkCommand,
		"version": versionCommand,
	},
}

// applyLogLevel configures the logger based on global options.
func applyLogLevel(opts Options) error {
	logLevel, err := log.ParseLevel(opts[mainLogLevelOption])
	if err != nil {
		return err
	}

	log.SetLevel(logLevel)

	return nil
}
