package verify

import (
	"sort"

	"github.com/pithecene-io/assay/types"
)

// Entry is one classified link occurrence.
type Entry struct {
	Location types.Location `json:"location" yaml:"location"`
	Link     types.Link     `json:"link" yaml:"link"`
	Result   Result         `json:"result" yaml:"result"`
}

// Outcome is the aggregate report of one verification run: a multiset of
// (location, link, result) triples. Every pair submitted to All appears
// exactly once, regardless of how many workers processed the input.
//
// Outcome composition is a commutative monoid: NewOutcome is the identity
// and Merge is associative and commutative under multiset equality, so
// partial outcomes folded by independent workers combine into the same
// aggregate in any grouping or order. All canonicalizes the final Outcome,
// making the physical layout deterministic too.
//
// An Outcome returned by All is a finished report; callers must not mutate
// it.
type Outcome struct {
	entries []Entry
}

// NewOutcome creates an empty outcome, the identity of Merge.
func NewOutcome() *Outcome {
	return &Outcome{}
}

// Add folds a single classified link into the outcome.
func (o *Outcome) Add(location types.Location, link types.Link, result Result) {
	o.entries = append(o.entries, Entry{Location: location, Link: link, Result: result})
}

// Merge combines two partial outcomes into a new one. Neither input is
// modified. Merge is associative, and commutative under multiset equality;
// physical entry order is only fixed by canonicalize.
func Merge(left, right *Outcome) *Outcome {
	merged := make([]Entry, 0, len(left.entries)+len(right.entries))
	merged = append(merged, left.entries...)
	merged = append(merged, right.entries...)
	return &Outcome{entries: merged}
}

// Len returns the total number of classified links.
func (o *Outcome) Len() int {
	return len(o.entries)
}

// Count returns the number of links classified as result.
func (o *Outcome) Count(result Result) int {
	n := 0
	for _, e := range o.entries {
		if e.Result == result {
			n++
		}
	}
	return n
}

// ByResult returns the entries classified as result, in outcome order.
func (o *Outcome) ByResult(result Result) []Entry {
	var out []Entry
	for _, e := range o.entries {
		if e.Result == result {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns a copy of all entries, in outcome order.
func (o *Outcome) Entries() []Entry {
	out := make([]Entry, len(o.entries))
	copy(out, o.entries)
	return out
}

// Clean reports whether no link was left unverified.
func (o *Outcome) Clean() bool {
	return o.Count(ResultUnsupported) == 0
}

// Equal reports multiset equality: both outcomes hold the same classified
// triples, in any physical order.
func (o *Outcome) Equal(other *Outcome) bool {
	if len(o.entries) != len(other.entries) {
		return false
	}
	a := o.Entries()
	b := other.Entries()
	sortEntries(a)
	sortEntries(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// canonicalize fixes the physical entry order so a given classified
// multiset always renders to identical bytes. Called once when All
// finishes; entries sort by provenance, then link identity, then result.
func (o *Outcome) canonicalize() {
	sortEntries(o.entries)
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		if a.Link.Href != b.Link.Href {
			return a.Link.Href < b.Link.Href
		}
		if a.Link.Raw != b.Link.Raw {
			return a.Link.Raw < b.Link.Raw
		}
		return a.Result < b.Result
	})
}
