package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/arrecife-io/ocimport/types"
)

// VersionCommand returns the version command. It never contacts the
// remote system.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Printf("ocimport %s (commit: %s)\n", types.Version, commit)
			return nil
		},
	}
}
