// Package cmd provides CLI commands for the assay binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for output-producing commands.
var (
	// ConfigFlag points at the assay.yaml config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to assay.yaml (default: ./assay.yaml if present)",
	}

	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables the Bubble Tea live progress view.
	// Only valid for check.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive progress view (check only)",
	}
)

// OutputFlags returns the shared rendering flags.
// Includes --tui so that unsupported commands can provide explicit error
// messages instead of generic "flag not defined" errors.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}
