// Package runner executes one check run end to end: walk the corpus,
// extract references, verify them, and archive the report.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/extract"
	"github.com/pithecene-io/assay/log"
	"github.com/pithecene-io/assay/metrics"
	"github.com/pithecene-io/assay/report"
	"github.com/pithecene-io/assay/types"
	"github.com/pithecene-io/assay/verify"
)

// pairBuffer bounds how far extraction can run ahead of verification.
const pairBuffer = 256

// defaultExtractParallel is the document reader pool size.
const defaultExtractParallel = 4

// RunConfig configures a single check run.
type RunConfig struct {
	// RunID is the canonical run identifier. Empty generates one.
	RunID string
	// Roots are the files and directories to scan for documents.
	Roots []string
	// Parallel is the verification worker count (0 = GOMAXPROCS).
	Parallel int
	// ExtractParallel is the document reader count (0 = default).
	ExtractParallel int
}

// Runner executes check runs. Construct with New; a Runner is safe to use
// for one Run call at a time.
type Runner struct {
	config    RunConfig
	verifiers []verify.Verifier
	cache     cache.Cache
	reports   report.Writer
	collector *metrics.Collector
	logger    *log.Logger
}

// New creates a Runner.
//
// reports may be nil to disable archival; collector may be nil to disable
// metrics; logger may be nil to silence the run. The verifier chain order
// is preserved exactly; it is the dispatch priority.
func New(config RunConfig, verifiers []verify.Verifier, c cache.Cache, reports report.Writer, collector *metrics.Collector, logger *log.Logger) *Runner {
	if config.RunID == "" {
		config.RunID = uuid.New().String()
	}
	if config.ExtractParallel <= 0 {
		config.ExtractParallel = defaultExtractParallel
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Runner{
		config:    config,
		verifiers: verifiers,
		cache:     c,
		reports:   reports,
		collector: collector,
		logger:    logger,
	}
}

// RunResult is the result of one completed check run.
type RunResult struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   *verify.Outcome
	Metrics   metrics.Snapshot
}

// Run walks the configured roots, verifies every extracted reference, and
// returns the aggregate result. Per-document extraction failures are
// counted and logged, never fatal; only setup-level failures (an
// unreadable root, a failed report write) return an error.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	r.logger.Info("run started", map[string]any{
		"roots":    r.config.Roots,
		"parallel": r.config.Parallel,
	})

	pairs := make(chan verify.Pair, pairBuffer)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(pairs)
		return r.produce(gctx, pairs)
	})

	outcome := verify.All(ctx, verify.Config{Parallel: r.config.Parallel}, pairs, r.verifiers, r.cache)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.collector.AbsorbOutcome(
		int64(outcome.Count(verify.ResultValid)),
		int64(outcome.Count(verify.ResultIgnored)),
		int64(outcome.Count(verify.ResultUnsupported)),
	)

	result := &RunResult{
		RunID:     r.config.RunID,
		StartedAt: started,
		Duration:  time.Since(started),
		Outcome:   outcome,
		Metrics:   r.collector.Snapshot(),
	}

	if err := r.archive(ctx, result); err != nil {
		return nil, err
	}

	r.logger.Info("run finished", map[string]any{
		"links":      outcome.Len(),
		"valid":      outcome.Count(verify.ResultValid),
		"ignored":    outcome.Count(verify.ResultIgnored),
		"unverified": outcome.Count(verify.ResultUnsupported),
		"duration":   result.Duration.String(),
	})
	return result, nil
}

// produce walks the roots and streams extracted pairs.
func (r *Runner) produce(ctx context.Context, pairs chan<- verify.Pair) error {
	docs := make(chan string)

	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(docs)
		return r.walk(ectx, docs)
	})
	for range r.config.ExtractParallel {
		eg.Go(func() error {
			for path := range docs {
				r.extractDocument(path, pairs)
			}
			return nil
		})
	}
	return eg.Wait()
}

// walk sends every supported document under the configured roots.
func (r *Runner) walk(ctx context.Context, docs chan<- string) error {
	for _, root := range r.config.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("stat root %s: %w", root, err)
		}

		if !info.IsDir() {
			if extract.SupportedDocument(root) {
				select {
				case docs <- root:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Dot directories (VCS metadata, tool caches) are not corpus.
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !extract.SupportedDocument(path) {
				return nil
			}
			select {
			case docs <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return fmt.Errorf("walk root %s: %w", root, err)
		}
	}
	return nil
}

// extractDocument reads one document and streams its references.
// Read failures are observable (metric + log) but never abort the run.
func (r *Runner) extractDocument(path string, pairs chan<- verify.Pair) {
	src, err := os.ReadFile(path)
	if err != nil {
		r.collector.IncExtractError()
		r.logger.Warn("document unreadable", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return
	}

	found := extract.Links(path, src)
	r.collector.IncDocumentScanned()
	r.collector.AddLinksExtracted(int64(len(found)))

	for _, p := range found {
		pairs <- p
	}
}

// archive writes the run report artifact when a report writer is set.
func (r *Runner) archive(ctx context.Context, result *RunResult) error {
	if r.reports == nil {
		return nil
	}

	data, err := json.MarshalIndent(result.Report(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := r.reports.Put(ctx, "outcome.json", report.ContentTypeJSON, data); err != nil {
		r.collector.IncReportWriteFailure()
		r.logger.Error("report write failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("archive report: %w", err)
	}
	r.collector.IncReportWriteSuccess()
	return nil
}

// Report is the JSON wire shape of an archived run report.
type Report struct {
	Version    string           `json:"version" yaml:"version"`
	RunID      string           `json:"run_id" yaml:"run_id"`
	StartedAt  string           `json:"started_at" yaml:"started_at"`
	DurationMS int64            `json:"duration_ms" yaml:"duration_ms"`
	Links      int              `json:"links" yaml:"links"`
	Valid      int              `json:"valid" yaml:"valid"`
	Ignored    int              `json:"ignored" yaml:"ignored"`
	Unverified int              `json:"unverified" yaml:"unverified"`
	Entries    []verify.Entry   `json:"entries" yaml:"entries"`
	Metrics    metrics.Snapshot `json:"metrics" yaml:"metrics"`
}

// Report renders the result into its archival shape.
func (r *RunResult) Report() Report {
	return Report{
		Version:    types.Version,
		RunID:      r.RunID,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: r.Duration.Milliseconds(),
		Links:      r.Outcome.Len(),
		Valid:      r.Outcome.Count(verify.ResultValid),
		Ignored:    r.Outcome.Count(verify.ResultIgnored),
		Unverified: r.Outcome.Count(verify.ResultUnsupported),
		Entries:    r.Outcome.Entries(),
		Metrics:    r.Metrics,
	}
}
