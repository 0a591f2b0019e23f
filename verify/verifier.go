// Package verify implements the link verification engine: the pluggable
// checker capability, the cache-aware dispatch for a single link, and the
// parallel fan-out that classifies an arbitrary stream of (location, link)
// pairs into one aggregate Outcome.
//
// The engine never decides what a valid file path or a reachable web
// address is; that is the business of the Verifier implementations it is
// handed. It guarantees that every submitted pair is classified by exactly
// the right checker exactly once, that an affirmative cache answer skips
// the checkers entirely, and that the final Outcome is independent of how
// the work was scheduled across workers.
package verify

import (
	"context"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/types"
)

// Result classifies a single link. The set is closed: a checker's internal
// failure must be translated into one of these three, never propagated.
type Result string

const (
	// ResultValid means the link was confirmed reachable or existing,
	// by the cache or by a checker.
	ResultValid Result = "valid"
	// ResultUnsupported means no checker vouched for the link: either its
	// scheme/shape is recognized by no configured checker, or the checker
	// that recognized it could not confirm it. Reported, never dropped.
	ResultUnsupported Result = "unsupported"
	// ResultIgnored means a checker recognized the link but a policy
	// decision excludes it from validity judgment.
	ResultIgnored Result = "ignored"
)

// Decisive reports whether r terminates the checker chain.
// Unsupported is the only non-decisive answer: it hands the link to the
// next checker in line.
func (r Result) Decisive() bool {
	return r != ResultUnsupported
}

// Verifier checks whether a link is valid.
//
// Implementations must be safe to share read-only across worker threads,
// and must detect links they do not understand quickly, returning
// ResultUnsupported so the next checker can be tried. That fast rejection
// is contractual, not an optimization: the dispatcher tries every checker
// in turn and relies on cheap misses.
//
// The cache handle is the shared run cache; checkers that own
// cache-writing responsibility may record confirmed links through
// cache.Record.
type Verifier interface {
	Verify(ctx context.Context, link types.Link, c cache.Cache) Result
}

// VerifierFunc adapts a plain function to the Verifier capability, so any
// function with the right shape qualifies; the abstraction is structural,
// not nominal.
type VerifierFunc func(ctx context.Context, link types.Link, c cache.Cache) Result

// Verify implements Verifier.
func (f VerifierFunc) Verify(ctx context.Context, link types.Link, c cache.Cache) Result {
	return f(ctx, link, c)
}
