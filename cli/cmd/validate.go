package cmd

import (
	"fmt"
	"path"

	"github.com/urfave/cli/v2"

	"github.com/arrecife-io/ocimport/cli/config"
	"github.com/arrecife-io/ocimport/reader"
	"github.com/arrecife-io/ocimport/sink"
	"github.com/arrecife-io/ocimport/types"
	"github.com/arrecife-io/ocimport/validate"
)

// ValidFile is the output name for rows that pass local validation.
const ValidFile = "valid.csv"

// ValidateCommand returns the validate command: local field validation
// only, no remote calls. Rows partition into valid.csv and
// quarantine.csv.
func ValidateCommand() *cli.Command {
	flags := inputFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:  "valid-dir",
			Usage: "Directory for the valid output",
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "quarantine-dir",
			Usage: "Directory for the quarantine output",
			Value: ".",
		},
	)

	return &cli.Command{
		Name:   "validate",
		Usage:  "Validate input locally without contacting the remote system",
		Flags:  flags,
		Action: validateAction,
	}
}

func validateAction(c *cli.Context) error {
	input := c.String("input")
	if input == "" && c.String("config") != "" {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
		}
		input = cfg.Input
	}
	if input == "" {
		return cli.Exit("Error: input file is required (--input or config)", exitFatal)
	}

	parsed, err := reader.ReadFile(input)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
	}

	var valid, quarantined []*types.OutputRecord
	for _, rec := range parsed.Records {
		out := &types.OutputRecord{Record: rec}
		if codes := validate.Record(rec); len(codes) > 0 {
			out.Error = validate.Reason(codes)
			quarantined = append(quarantined, out)
			continue
		}
		valid = append(valid, out)
	}

	store := sink.NewFSStore("")
	defer func() { _ = store.Close() }()

	if len(valid) > 0 {
		data, err := sink.Render(parsed.Columns, "", valid)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
		}
		name := path.Join(c.String("valid-dir"), ValidFile)
		if err := store.Put(c.Context, name, data); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", sink.WrapWriteError(err, name)), exitFatal)
		}
	}

	if len(quarantined) > 0 {
		data, err := sink.Render(parsed.Columns, types.ColError, quarantined)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
		}
		name := path.Join(c.String("quarantine-dir"), sink.QuarantineFile)
		if err := store.Put(c.Context, name, data); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", sink.WrapWriteError(err, name)), exitFatal)
		}
	}

	if !c.Bool("quiet") {
		fmt.Printf("valid: %d, quarantined: %d\n", len(valid), len(quarantined))
	}
	return nil
}
