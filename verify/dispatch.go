package verify

import (
	"context"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/types"
)

// verifyOne classifies a single link: cache phase, then the checker chain.
//
// The cache is consulted exactly once. An affirmative known-valid answer is
// terminal and no checker runs. Anything else ("known invalid" included) means
// "not yet determined" and the chain proceeds; a negative cache answer never
// short-circuits.
//
// Checkers run in the exact order they were supplied, so callers can place
// a cheap narrow checker ahead of a broad expensive one. The first decisive
// answer wins; when every checker passes (or the chain is empty), the final
// answer is ResultUnsupported, reported rather than dropped.
func verifyOne(ctx context.Context, link types.Link, verifiers []Verifier, c cache.Cache) Result {
	if valid, known := c.IsValid(ctx, link.Href); known && valid {
		// cache hit
		return ResultValid
	}

	for _, verifier := range verifiers {
		if result := verifier.Verify(ctx, link, c); result.Decisive() {
			return result
		}
	}

	return ResultUnsupported
}
