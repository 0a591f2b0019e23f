// Package cache provides the shared known-valid link cache consulted by the
// verification engine before any checker runs.
//
// The engine's view of a cache is read-only and tri-state: a lookup either
// affirmatively reports a link as known valid, or it reports nothing. A
// negative or missing entry never short-circuits a check; it only means
// "not yet determined", and the verifier chain proceeds as usual. Lookup
// failures in a backend are likewise reported as unknown, never as errors.
//
// All implementations must be safe for arbitrarily many concurrent callers;
// synchronization is the cache's own responsibility, never the caller's.
package cache

import "context"

// Cache answers whether a link identity is already known to be valid.
type Cache interface {
	// IsValid reports the cached validity of href.
	// known is false when the cache holds no affirmative information for
	// href; callers must treat (false, true) and (_, false) identically,
	// as "not yet determined".
	IsValid(ctx context.Context, href string) (valid, known bool)
}

// Recorder is the optional write side of a cache. Checkers that own
// cache-writing responsibility discover it by type assertion on the Cache
// handle they were given; the engine itself never writes.
type Recorder interface {
	// MarkValid records href as validated for this identity key.
	// Implementations must only be handed hrefs that were actually
	// validated; the engine trusts an affirmative answer unconditionally.
	MarkValid(ctx context.Context, href string)
}

// Record marks href valid if c supports writing, and is a no-op otherwise.
func Record(ctx context.Context, c Cache, href string) {
	if r, ok := c.(Recorder); ok {
		r.MarkValid(ctx, href)
	}
}

// None is a Cache that knows nothing. Useful as a default and in tests.
type None struct{}

// IsValid implements Cache.
func (None) IsValid(context.Context, string) (bool, bool) { return false, false }
