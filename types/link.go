// Package types defines core domain types for the assay runtime.
//
//nolint:revive // types is a common Go package naming convention
package types

import "strings"

// Link is a single parsed reference whose validity is to be determined.
//
// Href is the canonical identity of the link: an absolute URL, or a
// filesystem path resolved against the document that contained it. Cache
// lookups key on Href, so two links with the same Href must denote the same
// target. Raw preserves the reference exactly as written in the source
// document for reporting.
//
// A Link is immutable once constructed.
type Link struct {
	// Href is the canonical resolved reference.
	Href string `json:"href" yaml:"href"`
	// Raw is the reference as written in the source document.
	// Empty when it equals Href.
	Raw string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// NewLink constructs a Link whose canonical and written forms coincide.
func NewLink(href string) Link {
	return Link{Href: href}
}

// Scheme returns the lowercased URI scheme of the href, or "" for
// schemeless references such as relative filesystem paths.
//
// Scheme detection is deliberately syntactic (everything before the first
// ":" when it looks like a scheme) rather than a full URL parse: checkers
// use it for fast rejection of links they do not understand, and malformed
// hrefs must not make that rejection expensive.
func (l Link) Scheme() string {
	i := strings.Index(l.Href, ":")
	if i <= 0 {
		return ""
	}
	candidate := l.Href[:i]
	// RFC 3986: scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
	for j, r := range candidate {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return strings.ToLower(candidate)
}

// Written returns the reference as it appeared in the source document.
func (l Link) Written() string {
	if l.Raw != "" {
		return l.Raw
	}
	return l.Href
}
