package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/cli/config"
	"github.com/pithecene-io/assay/cli/tui"
	"github.com/pithecene-io/assay/metrics"
)

func TestOutputFlags_IncludesTUI(t *testing.T) {
	hasTUI := false
	for _, f := range OutputFlags() {
		if f.Names()[0] == "tui" {
			hasTUI = true
			break
		}
	}

	if !hasTUI {
		t.Error("OutputFlags should include --tui flag for explicit error handling")
	}
}

// resolveWith runs resolveCheck through a real flag parse.
func resolveWith(t *testing.T, args ...string) (*checkChoice, error) {
	t.Helper()

	var (
		choice *checkChoice
		rerr   error
	)
	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  "check",
			Flags: checkFlags(),
			Action: func(c *cli.Context) error {
				choice, rerr = resolveCheck(c)
				return nil
			},
		}},
	}
	if err := app.Run(append([]string{"assay", "check"}, args...)); err != nil {
		t.Fatalf("app.Run: %v", err)
	}
	return choice, rerr
}

func TestResolveCheckDefaults(t *testing.T) {
	choice, err := resolveWith(t)
	if err != nil {
		t.Fatalf("resolveCheck: %v", err)
	}

	if len(choice.roots) != 1 || choice.roots[0] != "." {
		t.Errorf("roots = %v, want [.]", choice.roots)
	}
	if choice.timeout != defaultTimeout {
		t.Errorf("timeout = %v", choice.timeout)
	}
	if choice.cacheBackend != config.CacheMemory {
		t.Errorf("cache backend = %q", choice.cacheBackend)
	}
	if choice.report.Backend != config.ReportNone {
		t.Errorf("report backend = %q", choice.report.Backend)
	}
}

func TestResolveCheckFlagsOverrideConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "assay.yaml")
	content := `
roots: [docs]
parallel: 4
timeout: 3s
ignore:
  schemes: [mailto]
cache:
  backend: file
  path: from-config
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	choice, err := resolveWith(t,
		"--config", cfgPath,
		"--parallel", "9",
		"--cache", "none",
		"--ignore-scheme", "tel",
		"site",
	)
	if err != nil {
		t.Fatalf("resolveCheck: %v", err)
	}

	// Positional args replace configured roots.
	if len(choice.roots) != 1 || choice.roots[0] != "site" {
		t.Errorf("roots = %v, want [site]", choice.roots)
	}
	if choice.parallel != 9 {
		t.Errorf("parallel = %d, want 9", choice.parallel)
	}
	if choice.cacheBackend != config.CacheNone {
		t.Errorf("cache backend = %q, want none", choice.cacheBackend)
	}
	// Unflagged config values survive.
	if choice.timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", choice.timeout)
	}
	if choice.cachePath != "from-config" {
		t.Errorf("cache path = %q", choice.cachePath)
	}
	// Ignore flags append to configured rules.
	if len(choice.ignore.Schemes) != 2 {
		t.Errorf("ignore schemes = %v, want [mailto tel]", choice.ignore.Schemes)
	}
}

func TestResolveCheckCarriesConfigFormat(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "assay.yaml")
	if err := os.WriteFile(cfgPath, []byte("format: yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	choice, err := resolveWith(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("resolveCheck: %v", err)
	}
	if choice.format != "yaml" {
		t.Errorf("format = %q, want yaml", choice.format)
	}

	// Without a config file the renderer decides from the flag alone.
	choice, err = resolveWith(t)
	if err != nil {
		t.Fatalf("resolveCheck: %v", err)
	}
	if choice.format != "" {
		t.Errorf("format = %q, want empty", choice.format)
	}
}

func TestCheckRunErrorMapping(t *testing.T) {
	var coder cli.ExitCoder

	err := checkRunError(fmt.Errorf("tui: %w", tui.ErrInterrupted))
	if !errors.As(err, &coder) {
		t.Fatalf("interrupt error is not an ExitCoder: %v", err)
	}
	if coder.ExitCode() != exitInterrupted {
		t.Errorf("interrupt exit code = %d, want %d", coder.ExitCode(), exitInterrupted)
	}
	if got := coder.Error(); got != "check interrupted" {
		t.Errorf("interrupt message = %q", got)
	}

	err = checkRunError(errors.New("walk failed"))
	if !errors.As(err, &coder) {
		t.Fatalf("run error is not an ExitCoder: %v", err)
	}
	if coder.ExitCode() != exitSetup {
		t.Errorf("run error exit code = %d, want %d", coder.ExitCode(), exitSetup)
	}
	if !strings.Contains(coder.Error(), "walk failed") {
		t.Errorf("run error message %q lost the cause", coder.Error())
	}
}

func TestResolveCheckRejectsBadBackend(t *testing.T) {
	_, err := resolveWith(t, "--cache", "etcd")
	if err == nil {
		t.Fatal("expected error for unknown cache backend")
	}
}

func TestResolveCheckS3NeedsBucket(t *testing.T) {
	_, err := resolveWith(t, "--report", "s3")
	if err == nil {
		t.Fatal("expected error for s3 report without bucket")
	}
}

func TestBuildCacheBackends(t *testing.T) {
	collector := metrics.NewCollector("run-1", "", "")

	tests := []struct {
		backend    string
		wantCloser bool
	}{
		{config.CacheMemory, false},
		{config.CacheFile, true},
		{config.CacheNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			choice := &checkChoice{
				cacheBackend: tt.backend,
				cachePath:    filepath.Join(t.TempDir(), "snap"),
			}
			store, closer, err := buildCache(choice, collector)
			if err != nil {
				t.Fatalf("buildCache: %v", err)
			}
			if store == nil {
				t.Fatal("nil cache")
			}
			if (closer != nil) != tt.wantCloser {
				t.Errorf("closer presence = %v, want %v", closer != nil, tt.wantCloser)
			}
			if closer != nil {
				if err := closer(); err != nil {
					t.Errorf("closer: %v", err)
				}
			}
		})
	}
}

func TestBuildCacheRedisNeedsAddress(t *testing.T) {
	choice := &checkChoice{cacheBackend: config.CacheRedis}
	if _, _, err := buildCache(choice, nil); err == nil {
		t.Fatal("expected error for redis backend without address")
	}
}

func TestCacheClearRemovesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap")
	f, err := cache.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	f.MarkValid(t.Context(), "docs/a.md")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	app := &cli.App{Commands: []*cli.Command{CacheCommand()}}
	err = app.Run([]string{"assay", "cache", "clear", "--cache-path", path, "--format", "json"})
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("snapshot still present after clear: %v", err)
	}

	// Clearing an absent snapshot is not an error.
	err = app.Run([]string{"assay", "cache", "clear", "--cache-path", path, "--format", "json"})
	if err != nil {
		t.Fatalf("second cache clear: %v", err)
	}
}
