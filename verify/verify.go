package verify

import (
	"context"
	"runtime"
	"sync"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/types"
)

// Pair is one unit of verification work: a link and where it was found.
type Pair struct {
	Location types.Location
	Link     types.Link
}

// Config configures the verification fan-out.
type Config struct {
	// Parallel is the number of worker goroutines pulling from the input.
	// Checkers may block on network probes, so one slow link must never
	// serialize the batch. Zero means runtime.GOMAXPROCS(0).
	Parallel int
}

// All classifies every pair read from links and returns the aggregate
// Outcome. The call blocks until the input channel is closed and every
// claimed pair has been classified; the channel is the backpressure
// boundary for lazily produced input.
//
// Workers share the verifier slice and the cache by reference and never
// mutate them; any internal mutability (a checker writing to the cache) is
// the collaborator's own concurrency responsibility. The orchestrator
// itself holds no locks: each worker folds its results into a private
// partial outcome, and the partials are reduced pairwise at the end.
//
// ctx is passed through to the cache and checkers so collaborators can
// honor deadlines; the engine itself implements no cancellation. A
// canceled context does not abort the drain; checkers are expected to
// fail fast and classify, keeping the completeness guarantee intact.
//
// For a fixed input set the returned Outcome is identical regardless of
// Parallel or scheduling: the merge is order-independent and the final
// outcome is canonicalized.
func All(ctx context.Context, cfg Config, links <-chan Pair, verifiers []Verifier, c cache.Cache) *Outcome {
	workers := cfg.Parallel
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	parts := make([]*Outcome, workers)
	var wg sync.WaitGroup
	for i := range parts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			part := NewOutcome()
			for pair := range links {
				part.Add(pair.Location, pair.Link, verifyOne(ctx, pair.Link, verifiers, c))
			}
			parts[i] = part
		}(i)
	}
	wg.Wait()

	outcome := reduce(parts)
	outcome.canonicalize()
	return outcome
}

// reduce combines partial outcomes pairwise until one remains.
// Grouping is irrelevant for the result since Merge commutes and
// associates; the tree shape is chosen purely for merge-size balance.
func reduce(parts []*Outcome) *Outcome {
	if len(parts) == 0 {
		return NewOutcome()
	}
	for len(parts) > 1 {
		next := make([]*Outcome, 0, (len(parts)+1)/2)
		for i := 0; i < len(parts); i += 2 {
			if i+1 < len(parts) {
				next = append(next, Merge(parts[i], parts[i+1]))
			} else {
				next = append(next, parts[i])
			}
		}
		parts = next
	}
	return parts[0]
}

// Stream adapts a fixed slice of pairs to the channel input All consumes.
func Stream(pairs []Pair) <-chan Pair {
	ch := make(chan Pair)
	go func() {
		defer close(ch)
		for _, p := range pairs {
			ch <- p
		}
	}()
	return ch
}
