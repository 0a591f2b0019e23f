package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/cli/render"
)

// cachePathFlag points at the file cache snapshot for cache subcommands.
var cachePathFlag = &cli.StringFlag{
	Name:  "cache-path",
	Usage: "Snapshot path for the file cache",
	Value: defaultCachePath,
}

// CacheCommand returns the cache command group.
// Both subcommands operate on the file backend's snapshot; memory caches
// die with their run and redis is managed by the server's own TTLs.
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the validity cache snapshot",
		Subcommands: []*cli.Command{
			cacheShowCommand(),
			cacheClearCommand(),
		},
	}
}

// CacheShowResponse is the response for cache show.
type CacheShowResponse struct {
	Path    string   `json:"path" yaml:"path"`
	Entries int      `json:"entries" yaml:"entries"`
	Hrefs   []string `json:"hrefs" yaml:"hrefs"`
}

func cacheShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "List every href the snapshot holds as valid",
		Flags: append([]cli.Flag{cachePathFlag}, OutputFlags()...),
		Action: func(c *cli.Context) error {
			if c.Bool("tui") {
				return cli.Exit("--tui is not supported for cache show", 1)
			}

			r, err := render.NewRenderer(c)
			if err != nil {
				return err
			}

			path := c.String("cache-path")
			hrefs, err := cache.ReadSnapshot(path)
			if err != nil {
				return fmt.Errorf("read cache snapshot: %w", err)
			}

			return r.Render(CacheShowResponse{
				Path:    path,
				Entries: len(hrefs),
				Hrefs:   hrefs,
			})
		},
	}
}

// CacheClearResponse is the response for cache clear.
type CacheClearResponse struct {
	Path    string `json:"path" yaml:"path"`
	Removed bool   `json:"removed" yaml:"removed"`
}

func cacheClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove the snapshot so the next run starts cold",
		Flags: append([]cli.Flag{cachePathFlag}, OutputFlags()...),
		Action: func(c *cli.Context) error {
			if c.Bool("tui") {
				return cli.Exit("--tui is not supported for cache clear", 1)
			}

			r, err := render.NewRenderer(c)
			if err != nil {
				return err
			}

			path := c.String("cache-path")
			removed := true
			if err := os.Remove(path); err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("remove cache snapshot: %w", err)
				}
				removed = false
			}

			return r.Render(CacheClearResponse{
				Path:    path,
				Removed: removed,
			})
		},
	}
}
