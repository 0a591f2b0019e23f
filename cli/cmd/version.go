package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/assay/cli/render"
	"github.com/pithecene-io/assay/types"
)

// VersionResponse is the response for the version command.
// Reports the canonical project version.
type VersionResponse struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
}

// VersionCommand returns the version command.
// It reports and never probes; no checker runs.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  OutputFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for version command", 1)
		}

		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}

		return r.Render(VersionResponse{
			Version: types.Version,
			Commit:  commit,
		})
	}
}
