package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/arrecife-io/ocimport/cli/config"
)

// Exit codes. Row-level quarantines do not affect the exit code; only
// fatal setup/read/write errors do.
const (
	exitSuccess = 0
	exitFatal   = 2
)

// inputFlags are shared by run and validate.
func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "input",
			Usage: "Path to input file (.csv or .xlsx)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to " + config.DefaultFileName + " config file",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress the summary line",
		},
	}
}

// outputFlags select the output backend and destinations.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "processed-dir",
			Usage: "Directory (or key prefix) for the processed output",
			Value: "processed",
		},
		&cli.StringFlag{
			Name:  "quarantine-dir",
			Usage: "Directory (or key prefix) for the quarantine output",
			Value: "quarantine",
		},
		&cli.StringFlag{
			Name:  "output-backend",
			Usage: "Output backend: fs or s3",
			Value: "fs",
		},
		&cli.StringFlag{
			Name:  "s3-path",
			Usage: "S3 destination as bucket or bucket/prefix (s3 backend)",
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Usage: "AWS region for the s3 backend (optional, uses default chain)",
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "Custom S3 endpoint for S3-compatible providers",
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "Force path-style S3 addressing",
		},
	}
}
