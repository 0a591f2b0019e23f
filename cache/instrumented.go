package cache

import (
	"context"

	"github.com/pithecene-io/assay/metrics"
)

// Instrumented wraps a Cache and records lookup metrics. Each IsValid call
// increments cache_lookups, and each affirmative known-valid answer
// increments cache_hits on the metrics collector.
//
// Writes pass through to the inner cache when it supports them, so
// wrapping never hides a Recorder from cache-writing checkers.
type Instrumented struct {
	inner     Cache
	collector *metrics.Collector
}

// NewInstrumented wraps a cache with metrics instrumentation.
func NewInstrumented(inner Cache, collector *metrics.Collector) *Instrumented {
	return &Instrumented{inner: inner, collector: collector}
}

// IsValid delegates to the inner cache and records the lookup.
func (i *Instrumented) IsValid(ctx context.Context, href string) (bool, bool) {
	valid, known := i.inner.IsValid(ctx, href)
	i.collector.IncCacheLookup()
	if valid && known {
		i.collector.IncCacheHit()
	}
	return valid, known
}

// MarkValid delegates to the inner cache's write side, if any.
func (i *Instrumented) MarkValid(ctx context.Context, href string) {
	Record(ctx, i.inner, href)
}

// Verify Instrumented implements both capabilities.
var (
	_ Cache    = (*Instrumented)(nil)
	_ Recorder = (*Instrumented)(nil)
)
