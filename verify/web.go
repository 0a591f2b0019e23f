package verify

import (
	"context"
	"net/http"
	"time"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/iox"
	"github.com/pithecene-io/assay/log"
	"github.com/pithecene-io/assay/types"
)

// defaultUserAgent identifies assay probes to remote servers.
const defaultUserAgent = "assay/" + types.Version + " (+link checker)"

// maxDrainBytes caps how much of a GET body is drained before close,
// keeping connections reusable without reading unbounded responses.
const maxDrainBytes = 1 << 20

// WebChecker verifies http and https references with a HEAD probe, falling
// back to GET when a server rejects HEAD. Every network failure is
// translated into a classification; a probe error is never an engine
// error. The checker neither retries nor rate-limits; a reachable target
// (2xx or 3xx) is recorded in the cache.
type WebChecker struct {
	client    *http.Client
	userAgent string
	logger    *log.Logger
}

// NewWebChecker creates a WebChecker with a per-request timeout.
// Zero timeout means no limit. A nil logger silences the checker.
func NewWebChecker(timeout time.Duration, logger *log.Logger) *WebChecker {
	if logger == nil {
		logger = log.Nop()
	}
	return &WebChecker{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		logger:    logger,
	}
}

// Verify implements Verifier.
func (w *WebChecker) Verify(ctx context.Context, link types.Link, c cache.Cache) Result {
	switch link.Scheme() {
	case "http", "https":
	default:
		return ResultUnsupported
	}

	status, err := w.probe(ctx, http.MethodHead, link.Href)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		// Some servers reject HEAD outright; one GET settles it.
		status, err = w.probe(ctx, http.MethodGet, link.Href)
	}
	if err != nil {
		w.logger.Debug("probe failed", map[string]any{
			"href":  link.Href,
			"error": err.Error(),
		})
		return ResultUnsupported
	}

	if status >= 200 && status < 400 {
		cache.Record(ctx, c, link.Href)
		return ResultValid
	}

	w.logger.Debug("probe rejected", map[string]any{
		"href":   link.Href,
		"status": status,
	})
	return ResultUnsupported
}

// probe issues a single request and returns the response status.
func (w *WebChecker) probe(ctx context.Context, method, href string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, href, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	if method == http.MethodGet {
		// Drain a bounded slice of the body so keep-alive connections
		// can be reused.
		defer iox.DrainClose(resp.Body, maxDrainBytes)
	} else {
		defer iox.DiscardClose(resp.Body)
	}
	return resp.StatusCode, nil
}

// Verify WebChecker implements Verifier.
var _ Verifier = (*WebChecker)(nil)
