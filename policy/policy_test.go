package policy

import (
	"net/url"
	"testing"
)

func mustCompile(t *testing.T, cfg Config) *Rules {
	t.Helper()
	r, err := Compile(cfg)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return r
}

func TestCompile_RejectsBadPattern(t *testing.T) {
	if _, err := Compile(Config{Hosts: []string{"[oops"}}); err == nil {
		t.Error("Compile accepted an invalid host pattern")
	}
	if _, err := Compile(Config{Paths: []string{"[oops"}}); err == nil {
		t.Error("Compile accepted an invalid path pattern")
	}
}

func TestRules_Empty(t *testing.T) {
	if !mustCompile(t, Config{}).Empty() {
		t.Error("empty config should compile to empty rules")
	}
	if mustCompile(t, Config{Schemes: []string{"mailto"}}).Empty() {
		t.Error("non-empty config should not be empty")
	}
}

func TestRules_IgnoreScheme(t *testing.T) {
	r := mustCompile(t, Config{Schemes: []string{"mailto", "TEL"}})

	for scheme, want := range map[string]bool{
		"mailto": true,
		"MAILTO": true,
		"tel":    true,
		"https":  false,
		"":       false,
	} {
		if got := r.IgnoreScheme(scheme); got != want {
			t.Errorf("IgnoreScheme(%q) = %v, want %v", scheme, got, want)
		}
	}
}

func TestRules_IgnoreURL(t *testing.T) {
	r := mustCompile(t, Config{
		Hosts: []string{"*.internal", "localhost"},
		Paths: []string{"/drafts/*"},
	})

	tests := []struct {
		raw  string
		want bool
	}{
		{"https://docs.internal/page", true},
		{"https://DOCS.INTERNAL/page", true},
		{"http://localhost:8080/health", true},
		{"https://example.com/drafts/wip", true},
		{"https://example.com/docs/done", false},
		{"https://internal/page", false}, // "*.internal" requires a subdomain
	}

	for _, tt := range tests {
		u, err := url.Parse(tt.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.raw, err)
		}
		if got := r.IgnoreURL(u); got != tt.want {
			t.Errorf("IgnoreURL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestRules_IgnorePath(t *testing.T) {
	r := mustCompile(t, Config{Paths: []string{"*.png", "/vendor/*"}})

	tests := []struct {
		p    string
		want bool
	}{
		{"assets/logo.png", true}, // bare pattern matches the final element
		{"/vendor/lib.md", true},
		{"/vendor/nested/lib.md", false}, // path.Match "*" does not cross "/"
		{"docs/guide.md", false},
	}

	for _, tt := range tests {
		if got := r.IgnorePath(tt.p); got != tt.want {
			t.Errorf("IgnorePath(%q) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
