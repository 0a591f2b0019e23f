package verify

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/pithecene-io/assay/types"
)

func entryFixture(n int) (types.Location, types.Link, Result) {
	results := []Result{ResultValid, ResultUnsupported, ResultIgnored}
	loc := types.Location{File: fmt.Sprintf("docs/%d.md", n%7), Line: n + 1, Column: 1}
	link := types.NewLink(fmt.Sprintf("https://example.com/p/%d", n))
	return loc, link, results[n%len(results)]
}

func outcomeFixture(from, to int) *Outcome {
	o := NewOutcome()
	for n := from; n < to; n++ {
		o.Add(entryFixture(n))
	}
	return o
}

func TestMerge_Identity(t *testing.T) {
	o := outcomeFixture(0, 10)

	if !Merge(o, NewOutcome()).Equal(o) {
		t.Error("merging with the empty outcome on the right changed the multiset")
	}
	if !Merge(NewOutcome(), o).Equal(o) {
		t.Error("merging with the empty outcome on the left changed the multiset")
	}
}

func TestMerge_Commutative(t *testing.T) {
	a := outcomeFixture(0, 10)
	b := outcomeFixture(10, 25)

	if !Merge(a, b).Equal(Merge(b, a)) {
		t.Error("Merge(a, b) != Merge(b, a) under multiset equality")
	}
}

func TestMerge_Associative(t *testing.T) {
	a := outcomeFixture(0, 5)
	b := outcomeFixture(5, 12)
	c := outcomeFixture(12, 20)

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))

	if !left.Equal(right) {
		t.Error("Merge grouping changed the multiset")
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := outcomeFixture(0, 5)
	b := outcomeFixture(5, 10)
	beforeA, beforeB := a.Len(), b.Len()

	merged := Merge(a, b)
	merged.Add(entryFixture(99))

	if a.Len() != beforeA || b.Len() != beforeB {
		t.Errorf("Merge mutated an input: lens (%d, %d), want (%d, %d)",
			a.Len(), b.Len(), beforeA, beforeB)
	}
}

func TestOutcome_RandomPartitionsMergeToSameOutcome(t *testing.T) {
	// Any partition of the input, folded independently and merged in any
	// order, must equal the sequential fold.
	const total = 60
	sequential := outcomeFixture(0, total)

	rng := rand.New(rand.NewSource(7))
	for trial := range 20 {
		parts := []*Outcome{NewOutcome(), NewOutcome(), NewOutcome(), NewOutcome()}
		for n := range total {
			loc, link, res := entryFixture(n)
			parts[rng.Intn(len(parts))].Add(loc, link, res)
		}
		rng.Shuffle(len(parts), func(i, j int) { parts[i], parts[j] = parts[j], parts[i] })

		merged := NewOutcome()
		for _, p := range parts {
			merged = Merge(merged, p)
		}

		if !merged.Equal(sequential) {
			t.Fatalf("trial %d: partitioned merge diverged from sequential fold", trial)
		}
	}
}

func TestOutcome_CanonicalizeIsOrderIndependent(t *testing.T) {
	forward := outcomeFixture(0, 30)
	backward := NewOutcome()
	for n := 29; n >= 0; n-- {
		backward.Add(entryFixture(n))
	}

	forward.canonicalize()
	backward.canonicalize()

	a, b := forward.Entries(), backward.Entries()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("canonical order differs at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestOutcome_CountsAndAccessors(t *testing.T) {
	o := NewOutcome()
	loc := types.Location{File: "a.md", Line: 1}
	o.Add(loc, types.NewLink("https://ok"), ResultValid)
	o.Add(loc, types.NewLink("https://ok2"), ResultValid)
	o.Add(loc, types.NewLink("mailto:x"), ResultIgnored)
	o.Add(loc, types.NewLink("gopher://x"), ResultUnsupported)

	if o.Len() != 4 {
		t.Errorf("Len = %d, want 4", o.Len())
	}
	if got := o.Count(ResultValid); got != 2 {
		t.Errorf("Count(valid) = %d, want 2", got)
	}
	if got := len(o.ByResult(ResultUnsupported)); got != 1 {
		t.Errorf("ByResult(unsupported) returned %d entries, want 1", got)
	}
	if o.Clean() {
		t.Error("Clean() = true with an unsupported link present")
	}

	o2 := NewOutcome()
	o2.Add(loc, types.NewLink("https://ok"), ResultValid)
	o2.Add(loc, types.NewLink("mailto:x"), ResultIgnored)
	if !o2.Clean() {
		t.Error("Clean() = false with only valid and ignored links")
	}
}
