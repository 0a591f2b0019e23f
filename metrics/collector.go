// Package metrics provides per-run metrics collection.
//
// The Collector accumulates counters during a single check run. It is a
// leaf package with no internal dependencies. Outcome class counts are
// absorbed from the final verification outcome at run completion rather
// than recorded live, avoiding double-counting.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all run metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Corpus
	DocumentsScanned int64 `json:"documents_scanned" yaml:"documents_scanned"`
	LinksExtracted   int64 `json:"links_extracted" yaml:"links_extracted"`
	ExtractErrors    int64 `json:"extract_errors" yaml:"extract_errors"`

	// Cache
	CacheLookups int64 `json:"cache_lookups" yaml:"cache_lookups"`
	CacheHits    int64 `json:"cache_hits" yaml:"cache_hits"`

	// Outcome classes (absorbed from the final outcome)
	LinksValid      int64 `json:"links_valid" yaml:"links_valid"`
	LinksIgnored    int64 `json:"links_ignored" yaml:"links_ignored"`
	LinksUnverified int64 `json:"links_unverified" yaml:"links_unverified"`

	// Report archival (per-call, not per-byte)
	ReportWriteSuccess int64 `json:"report_write_success" yaml:"report_write_success"`
	ReportWriteFailure int64 `json:"report_write_failure" yaml:"report_write_failure"`

	// Dimensions (informational, set at construction)
	RunID         string `json:"run_id" yaml:"run_id"`
	CacheBackend  string `json:"cache_backend" yaml:"cache_backend"`
	ReportBackend string `json:"report_backend,omitempty" yaml:"report_backend,omitempty"`
}

// Collector accumulates metrics during a single run.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe,
// so instrumented call sites need no collector-presence checks.
type Collector struct {
	mu sync.Mutex

	documentsScanned int64
	linksExtracted   int64
	extractErrors    int64

	cacheLookups int64
	cacheHits    int64

	linksValid      int64
	linksIgnored    int64
	linksUnverified int64

	reportWriteSuccess int64
	reportWriteFailure int64

	runID         string
	cacheBackend  string
	reportBackend string
}

// NewCollector creates a Collector with dimension labels.
// cacheBackend names the configured cache ("memory", "file", "redis");
// reportBackend is empty when report archival is disabled.
func NewCollector(runID, cacheBackend, reportBackend string) *Collector {
	return &Collector{
		runID:         runID,
		cacheBackend:  cacheBackend,
		reportBackend: reportBackend,
	}
}

// IncDocumentScanned records one scanned document.
func (c *Collector) IncDocumentScanned() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.documentsScanned++
	c.mu.Unlock()
}

// AddLinksExtracted records n links extracted from a document.
func (c *Collector) AddLinksExtracted(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.linksExtracted += n
	c.mu.Unlock()
}

// IncExtractError records a document that could not be read or parsed.
func (c *Collector) IncExtractError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.extractErrors++
	c.mu.Unlock()
}

// IncCacheLookup records one cache consultation.
// The dispatcher consults the cache exactly once per link, so this counter
// doubles as the number of links that entered verification.
func (c *Collector) IncCacheLookup() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cacheLookups++
	c.mu.Unlock()
}

// IncCacheHit records an affirmative known-valid cache answer.
func (c *Collector) IncCacheHit() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cacheHits++
	c.mu.Unlock()
}

// IncReportWriteSuccess records a successful report write (per-call).
func (c *Collector) IncReportWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.reportWriteSuccess++
	c.mu.Unlock()
}

// IncReportWriteFailure records a failed report write (per-call).
func (c *Collector) IncReportWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.reportWriteFailure++
	c.mu.Unlock()
}

// AbsorbOutcome copies the per-class link counts from the final outcome.
// Called once after verification with the final tallies.
func (c *Collector) AbsorbOutcome(valid, ignored, unverified int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.linksValid = valid
	c.linksIgnored = ignored
	c.linksUnverified = unverified
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		DocumentsScanned: c.documentsScanned,
		LinksExtracted:   c.linksExtracted,
		ExtractErrors:    c.extractErrors,

		CacheLookups: c.cacheLookups,
		CacheHits:    c.cacheHits,

		LinksValid:      c.linksValid,
		LinksIgnored:    c.linksIgnored,
		LinksUnverified: c.linksUnverified,

		ReportWriteSuccess: c.reportWriteSuccess,
		ReportWriteFailure: c.reportWriteFailure,

		RunID:         c.runID,
		CacheBackend:  c.cacheBackend,
		ReportBackend: c.reportBackend,
	}
}
