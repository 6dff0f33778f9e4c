package main

import (
	"slices"

	"github.com/urfave/cli/v3"
)

// getCommands groups the CLI into server lifecycle, master key and credential commands.
func getCommands(version string) []*cli.Command {
	return slices.Concat(
		getSystemCommands(version),
		getKeyCommands(),
		getCredentialCommands(),
	)
}
