// Package policy defines the caller-supplied ignore rules for a check run.
//
// Rules decide which links are deliberately excluded from validity
// judgment: whole schemes (mailto:, tel:), host patterns (staging hosts,
// localhost), and path patterns (generated docs, vendored trees). An
// ignored link is still reported and lands in the outcome's ignored class;
// it is just never probed.
package policy

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Config is the raw rule set, typically decoded from assay.yaml.
type Config struct {
	// Schemes lists URI schemes excluded from judgment (e.g. "mailto").
	Schemes []string `yaml:"schemes"`
	// Hosts lists host glob patterns (path.Match syntax, e.g. "*.internal").
	Hosts []string `yaml:"hosts"`
	// Paths lists filesystem/URL-path glob patterns (e.g. "/vendor/*").
	Paths []string `yaml:"paths"`
}

// Rules is a compiled, immutable rule set. Safe for concurrent use.
type Rules struct {
	schemes map[string]struct{}
	hosts   []string
	paths   []string
}

// Compile validates the configured patterns and builds a Rules.
// Invalid glob patterns are configuration errors, reported eagerly rather
// than silently matching nothing at check time.
func Compile(cfg Config) (*Rules, error) {
	r := &Rules{schemes: make(map[string]struct{}, len(cfg.Schemes))}

	for _, scheme := range cfg.Schemes {
		r.schemes[strings.ToLower(scheme)] = struct{}{}
	}

	for _, pattern := range cfg.Hosts {
		if _, err := path.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid host pattern %q: %w", pattern, err)
		}
		r.hosts = append(r.hosts, strings.ToLower(pattern))
	}

	for _, pattern := range cfg.Paths {
		if _, err := path.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid path pattern %q: %w", pattern, err)
		}
		r.paths = append(r.paths, pattern)
	}

	return r, nil
}

// Empty reports whether no rule is configured.
func (r *Rules) Empty() bool {
	return len(r.schemes) == 0 && len(r.hosts) == 0 && len(r.paths) == 0
}

// IgnoreScheme reports whether the scheme is excluded outright.
func (r *Rules) IgnoreScheme(scheme string) bool {
	_, ok := r.schemes[strings.ToLower(scheme)]
	return ok
}

// IgnoreURL reports whether the URL matches a scheme, host, or path rule.
func (r *Rules) IgnoreURL(u *url.URL) bool {
	if r.IgnoreScheme(u.Scheme) {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, pattern := range r.hosts {
		if ok, _ := path.Match(pattern, host); ok {
			return true
		}
	}
	return r.IgnorePath(u.Path)
}

// IgnorePath reports whether a filesystem or URL path matches a path rule.
// Patterns match against the full slash-separated path and, for bare
// patterns like "*.png", against the final element.
func (r *Rules) IgnorePath(p string) bool {
	p = strings.ReplaceAll(p, "\\", "/")
	base := path.Base(p)
	for _, pattern := range r.paths {
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := path.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}
