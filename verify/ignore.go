package verify

import (
	"context"
	"net/url"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/policy"
	"github.com/pithecene-io/assay/types"
)

// IgnoreVerifier builds a checker from the run's ignore rules. Links
// matching a rule are classified Ignored; everything else passes through
// as Unsupported so the rest of the chain gets its turn.
//
// Place it first in the chain: policy exclusion is the cheapest decision
// available and must win before any probe happens.
func IgnoreVerifier(rules *policy.Rules) Verifier {
	return VerifierFunc(func(_ context.Context, link types.Link, _ cache.Cache) Result {
		switch scheme := link.Scheme(); scheme {
		case "http", "https":
			u, err := url.Parse(link.Href)
			if err != nil {
				// Malformed web links are someone else's problem;
				// pass them down the chain.
				return ResultUnsupported
			}
			if rules.IgnoreURL(u) {
				return ResultIgnored
			}
		case "", "file":
			if rules.IgnorePath(link.Href) {
				return ResultIgnored
			}
		default:
			if rules.IgnoreScheme(scheme) {
				return ResultIgnored
			}
		}
		return ResultUnsupported
	})
}
