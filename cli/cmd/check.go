package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/cli/config"
	"github.com/pithecene-io/assay/cli/render"
	"github.com/pithecene-io/assay/cli/tui"
	"github.com/pithecene-io/assay/log"
	"github.com/pithecene-io/assay/metrics"
	"github.com/pithecene-io/assay/policy"
	"github.com/pithecene-io/assay/report"
	"github.com/pithecene-io/assay/runner"
	"github.com/pithecene-io/assay/verify"
)

// Exit codes for check. exitInterrupted follows the shell convention for
// runs ended by the user (128+SIGINT).
const (
	exitClean       = 0
	exitUnverified  = 1
	exitSetup       = 2
	exitInterrupted = 130
)

// Defaults applied after config and flags are merged.
const (
	defaultTimeout   = 10 * time.Second
	defaultCachePath = ".assay-cache"
	defaultReportDir = "reports"
	defaultRedisTTL  = 24 * time.Hour
)

// CheckCommand returns the check command.
// This is the only command that executes work.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Verify every link in the corpus",
		ArgsUsage: "[roots...]",
		Flags:     checkFlags(),
		Action:    checkAction,
	}
}

func checkFlags() []cli.Flag {
	return append([]cli.Flag{
		ConfigFlag,
		&cli.StringFlag{
			Name:  "run-id",
			Usage: "Run ID (default: generated)",
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Directory that anchors /-led targets",
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "Verification workers (0 = GOMAXPROCS)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "HTTP probe timeout",
		},
		&cli.StringSliceFlag{
			Name:  "ignore-scheme",
			Usage: "Scheme to exclude from verification (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "ignore-host",
			Usage: "Host pattern to exclude from verification (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "ignore-path",
			Usage: "Path pattern to exclude from verification (repeatable)",
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Cache backend: memory, file, redis, none",
		},
		&cli.StringFlag{
			Name:  "cache-path",
			Usage: "Snapshot path for the file cache",
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "Redis address for the redis cache",
		},
		&cli.DurationFlag{
			Name:  "redis-ttl",
			Usage: "Validity TTL for the redis cache",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Report backend: none, dir, s3",
		},
		&cli.StringFlag{
			Name:  "report-dir",
			Usage: "Directory for the dir report backend",
		},
		&cli.StringFlag{
			Name:  "report-bucket",
			Usage: "Bucket for the s3 report backend",
		},
		&cli.StringFlag{
			Name:  "report-prefix",
			Usage: "Key prefix for the s3 report backend",
		},
		&cli.StringFlag{
			Name:  "report-region",
			Usage: "AWS region for the s3 report backend",
		},
		&cli.StringFlag{
			Name:  "report-endpoint",
			Usage: "Custom S3 endpoint (S3-compatible stores)",
		},
		&cli.BoolFlag{
			Name:  "report-path-style",
			Usage: "Use path-style S3 addressing",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log checker activity to stderr",
		},
	}, OutputFlags()...)
}

// checkChoice holds the effective settings after config and flag merging.
type checkChoice struct {
	roots    []string
	root     string
	parallel int
	timeout  time.Duration
	format   string
	ignore   policy.Config

	cacheBackend string
	cachePath    string
	redisAddr    string
	redisTTL     time.Duration

	report config.ReportConfig
}

// resolveCheck merges config file values with flags. Flags win; positional
// arguments replace configured roots entirely, ignore flags append.
func resolveCheck(c *cli.Context) (*checkChoice, error) {
	cfg := &config.Config{}
	path := c.String("config")
	if path == "" {
		if _, err := os.Stat("assay.yaml"); err == nil {
			path = "assay.yaml"
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	choice := &checkChoice{
		roots:        cfg.Roots,
		root:         cfg.Root,
		parallel:     cfg.Parallel,
		timeout:      cfg.Timeout.Duration,
		format:       cfg.Format,
		ignore:       cfg.Ignore,
		cacheBackend: cfg.Cache.Backend,
		cachePath:    cfg.Cache.Path,
		redisAddr:    cfg.Cache.Redis,
		redisTTL:     cfg.Cache.RedisTTL.Duration,
		report:       cfg.Report,
	}

	if args := c.Args().Slice(); len(args) > 0 {
		choice.roots = args
	}
	if c.IsSet("root") {
		choice.root = c.String("root")
	}
	if c.IsSet("parallel") {
		choice.parallel = c.Int("parallel")
	}
	if c.IsSet("timeout") {
		choice.timeout = c.Duration("timeout")
	}
	if c.IsSet("cache") {
		choice.cacheBackend = c.String("cache")
	}
	if c.IsSet("cache-path") {
		choice.cachePath = c.String("cache-path")
	}
	if c.IsSet("redis") {
		choice.redisAddr = c.String("redis")
	}
	if c.IsSet("redis-ttl") {
		choice.redisTTL = c.Duration("redis-ttl")
	}
	if c.IsSet("report") {
		choice.report.Backend = c.String("report")
	}
	if c.IsSet("report-dir") {
		choice.report.Dir = c.String("report-dir")
	}
	if c.IsSet("report-bucket") {
		choice.report.Bucket = c.String("report-bucket")
	}
	if c.IsSet("report-prefix") {
		choice.report.Prefix = c.String("report-prefix")
	}
	if c.IsSet("report-region") {
		choice.report.Region = c.String("report-region")
	}
	if c.IsSet("report-endpoint") {
		choice.report.Endpoint = c.String("report-endpoint")
	}
	if c.IsSet("report-path-style") {
		choice.report.S3PathStyle = c.Bool("report-path-style")
	}

	choice.ignore.Schemes = append(choice.ignore.Schemes, c.StringSlice("ignore-scheme")...)
	choice.ignore.Hosts = append(choice.ignore.Hosts, c.StringSlice("ignore-host")...)
	choice.ignore.Paths = append(choice.ignore.Paths, c.StringSlice("ignore-path")...)

	if len(choice.roots) == 0 {
		choice.roots = []string{"."}
	}
	if choice.timeout == 0 {
		choice.timeout = defaultTimeout
	}
	if choice.cacheBackend == "" {
		choice.cacheBackend = config.CacheMemory
	}
	if choice.cachePath == "" {
		choice.cachePath = defaultCachePath
	}
	if choice.redisTTL == 0 {
		choice.redisTTL = defaultRedisTTL
	}
	if choice.report.Backend == "" {
		choice.report.Backend = config.ReportNone
	}
	if choice.report.Dir == "" {
		choice.report.Dir = defaultReportDir
	}

	// Flag values bypass Load-time validation; re-check the merged result.
	merged := config.Config{
		Parallel: choice.parallel,
		Format:   choice.format,
		Cache:    config.CacheConfig{Backend: choice.cacheBackend},
		Report:   choice.report,
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return choice, nil
}

func checkAction(c *cli.Context) error {
	choice, err := resolveCheck(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("setup failed: %v", err), exitSetup)
	}

	r, err := render.NewRendererWithDefault(c, render.Format(choice.format))
	if err != nil {
		return cli.Exit(err.Error(), exitSetup)
	}

	runID := c.String("run-id")
	if runID == "" {
		runID = uuid.New().String()
	}

	logger := log.Nop()
	if c.Bool("verbose") {
		logger = log.NewLogger(runID)
	}

	rules, err := policy.Compile(choice.ignore)
	if err != nil {
		return cli.Exit(fmt.Sprintf("setup failed: %v", err), exitSetup)
	}

	collector := metrics.NewCollector(runID, choice.cacheBackend, choice.report.Backend)

	store, closeCache, err := buildCache(choice, collector)
	if err != nil {
		return cli.Exit(fmt.Sprintf("setup failed: %v", err), exitSetup)
	}
	if closeCache != nil {
		defer func() {
			if err := closeCache(); err != nil {
				logger.Error("cache close failed", map[string]any{"error": err.Error()})
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := buildReports(ctx, choice, runID)
	if err != nil {
		return cli.Exit(fmt.Sprintf("setup failed: %v", err), exitSetup)
	}

	chain := []verify.Verifier{
		verify.IgnoreVerifier(rules),
		verify.NewFileChecker(choice.root, logger),
		verify.NewWebChecker(choice.timeout, logger),
	}

	run := runner.New(runner.RunConfig{
		RunID:    runID,
		Roots:    choice.roots,
		Parallel: choice.parallel,
	}, chain, store, reports, collector, logger)

	var result *runner.RunResult
	if c.Bool("tui") {
		result, err = tui.Run(collector, func() (*runner.RunResult, error) {
			return run.Run(ctx)
		})
	} else {
		result, err = run.Run(ctx)
	}
	if err != nil {
		return checkRunError(err)
	}

	if err := r.Render(result.Report()); err != nil {
		return cli.Exit(err.Error(), exitSetup)
	}

	if result.Outcome.Count(verify.ResultUnsupported) > 0 {
		return cli.Exit("", exitUnverified)
	}
	return cli.Exit("", exitClean)
}

// checkRunError maps a failed run to its exit error. Quitting the TUI is
// the user's own stop, not a setup failure, and exits with the interrupt
// convention; the abandoned run goroutine dies with the process.
func checkRunError(err error) error {
	if errors.Is(err, tui.ErrInterrupted) {
		return cli.Exit("check interrupted", exitInterrupted)
	}
	return cli.Exit(fmt.Sprintf("check failed: %v", err), exitSetup)
}

// buildCache constructs the configured cache backend, instrumented so the
// run's lookup and hit counts are observable. The returned closer persists
// backends that outlive the run; it may be nil.
func buildCache(choice *checkChoice, collector *metrics.Collector) (cache.Cache, func() error, error) {
	var (
		inner  cache.Cache
		closer func() error
	)

	switch choice.cacheBackend {
	case config.CacheMemory:
		inner = cache.NewMemory()
	case config.CacheFile:
		f, err := cache.OpenFile(choice.cachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache snapshot: %w", err)
		}
		inner = f
		closer = f.Close
	case config.CacheRedis:
		if choice.redisAddr == "" {
			return nil, nil, fmt.Errorf("cache backend redis requires an address")
		}
		r := cache.NewRedis(choice.redisAddr, choice.redisTTL)
		inner = r
		closer = r.Close
	case config.CacheNone:
		inner = cache.None{}
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", choice.cacheBackend)
	}

	return cache.NewInstrumented(inner, collector), closer, nil
}

// buildReports constructs the configured report backend, nil when archival
// is disabled.
func buildReports(ctx context.Context, choice *checkChoice, runID string) (report.Writer, error) {
	day := report.DeriveDay(time.Now())

	switch choice.report.Backend {
	case config.ReportNone:
		return nil, nil
	case config.ReportDir:
		return report.NewDirWriter(choice.report.Dir, day, runID), nil
	case config.ReportS3:
		s3cfg := report.S3Config{
			Bucket:       choice.report.Bucket,
			Prefix:       choice.report.Prefix,
			Region:       choice.report.Region,
			Endpoint:     choice.report.Endpoint,
			UsePathStyle: choice.report.S3PathStyle,
		}
		return report.NewS3Writer(ctx, s3cfg, day, runID)
	default:
		return nil, fmt.Errorf("unknown report backend %q", choice.report.Backend)
	}
}
