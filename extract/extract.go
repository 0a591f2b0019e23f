// Package extract discovers link references in a document corpus and
// resolves them to canonical identities for verification.
//
// Two document shapes are understood: Markdown (inline links, reference
// definitions, and autolinks, found by line scanning so every reference
// gets a precise line and column) and HTML (href/src attributes via
// tokenizer, with line numbers tracked from token offsets).
//
// Resolution fixes the identity the cache will key on: document-relative
// targets become absolute filesystem paths, site-absolute targets keep
// their leading slash for the checker to anchor, URLs stay as written.
// Fragments are stripped from the canonical href; a fragment-only link
// names a position inside its own document and is not extracted at all.
package extract

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/pithecene-io/assay/types"
	"github.com/pithecene-io/assay/verify"
)

// Markdown reference patterns, applied per line.
var (
	// [text](target) and [text](target "title")
	inlinePattern = regexp.MustCompile(`\[[^\]]*\]\(\s*<?([^)<>\s]+)>?(?:\s+"[^"]*")?\s*\)`)
	// [label]: target
	refDefPattern = regexp.MustCompile(`^\s*\[[^\]]+\]:\s+(\S+)`)
	// <https://target>
	autolinkPattern = regexp.MustCompile(`<(https?://[^>\s]+)>`)
)

// SupportedDocument reports whether path names a document kind this
// package can scan.
func SupportedDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".html", ".htm":
		return true
	default:
		return false
	}
}

// Links extracts every verifiable reference from src, which is the content
// of the document at path. Unsupported document kinds yield nothing.
func Links(path string, src []byte) []verify.Pair {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return markdownLinks(path, src)
	case ".html", ".htm":
		return htmlLinks(path, src)
	default:
		return nil
	}
}

// markdownLinks scans src line by line for Markdown references.
func markdownLinks(path string, src []byte) []verify.Pair {
	var pairs []verify.Pair

	for i, line := range strings.Split(string(src), "\n") {
		lineNo := i + 1

		// Reference definitions claim the whole line; inline patterns
		// would misread the label as link text.
		if m := refDefPattern.FindStringSubmatchIndex(line); m != nil {
			pairs = appendRef(pairs, path, line[m[2]:m[3]], lineNo, m[2]+1)
			continue
		}

		for _, m := range inlinePattern.FindAllStringSubmatchIndex(line, -1) {
			pairs = appendRef(pairs, path, line[m[2]:m[3]], lineNo, m[2]+1)
		}
		for _, m := range autolinkPattern.FindAllStringSubmatchIndex(line, -1) {
			pairs = appendRef(pairs, path, line[m[2]:m[3]], lineNo, m[2]+1)
		}
	}

	return pairs
}

// linkAttrs maps HTML elements to the attribute holding their reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"iframe": "src",
}

// htmlLinks tokenizes src and collects reference attributes.
// Line numbers come from counting newlines up to each token's offset;
// columns are unknown for tokenized HTML and reported as 0.
func htmlLinks(path string, src []byte) []verify.Pair {
	var pairs []verify.Pair

	z := html.NewTokenizer(bytes.NewReader(src))
	offset := 0
	line := 1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return pairs
		}

		raw := z.Raw()
		line += bytes.Count(src[offset:offset+len(raw)], []byte{'\n'})
		offset += len(raw)

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := z.TagName()
		attr, watched := linkAttrs[string(name)]
		if !watched || !hasAttr {
			continue
		}

		for {
			key, val, more := z.TagAttr()
			if strings.EqualFold(string(key), attr) {
				pairs = appendRef(pairs, path, strings.TrimSpace(string(val)), line, 0)
			}
			if !more {
				break
			}
		}
	}
}

// appendRef resolves target and appends the pair, dropping references that
// have no verifiable identity (empty targets, fragment-only links).
func appendRef(pairs []verify.Pair, docPath, target string, line, column int) []verify.Pair {
	link, ok := Resolve(docPath, target)
	if !ok {
		return pairs
	}
	return append(pairs, verify.Pair{
		Location: types.Location{File: docPath, Line: line, Column: column},
		Link:     link,
	})
}

// Resolve canonicalizes a reference found in the document at docPath.
// The second return is false when the reference is not verifiable.
func Resolve(docPath, target string) (types.Link, bool) {
	raw := target

	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		// Fragment-only or empty: names a position, not a resource.
		return types.Link{}, false
	}

	link := types.Link{Href: target}
	if link.Scheme() != "" || strings.HasPrefix(target, "/") {
		if target != raw {
			link.Raw = raw
		}
		return link, true
	}

	// Document-relative: anchor at the containing directory.
	link.Href = filepath.Join(filepath.Dir(docPath), target)
	if link.Href != raw {
		link.Raw = raw
	}
	return link, true
}
