// Package main provides the assay CLI entrypoint.
//
// All commands except `check` are read-only.
//
// Usage:
//
//	assay <command> [subcommand] [options]
//
// Exit codes for `check`:
//   - 0: every link valid or ignored
//   - 1: unverified links remain
//   - 2: setup failure (config, cache backend, report backend)
//   - 130: interrupted from the TUI
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/assay/cli/cmd"
	"github.com/pithecene-io/assay/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "assay",
		Usage:          "Link verification for document corpora",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.CheckCommand(),
			cmd.CacheCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from
// cli.Exit() so check's clean/unverified/setup distinction survives.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	// Check for ExitCoder (from cli.Exit), handles wrapped errors
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// Only print if there's a real message (not just "exit status N")
		// cli.Exit("", N).Error() returns "exit status N", so skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	// Unexpected error - print and exit with code 1
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
