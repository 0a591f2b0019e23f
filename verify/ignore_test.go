package verify

import (
	"context"
	"testing"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/policy"
	"github.com/pithecene-io/assay/types"
)

func TestIgnoreVerifier(t *testing.T) {
	rules, err := policy.Compile(policy.Config{
		Schemes: []string{"mailto", "tel"},
		Hosts:   []string{"*.internal"},
		Paths:   []string{"/drafts/*"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	checker := IgnoreVerifier(rules)

	tests := []struct {
		href string
		want Result
	}{
		{"mailto:team@example.com", ResultIgnored},
		{"tel:+15551234", ResultIgnored},
		{"https://docs.internal/page", ResultIgnored},
		{"https://example.com/page", ResultUnsupported},
		{"/drafts/wip.md", ResultIgnored},
		{"/docs/done.md", ResultUnsupported},
		{"gopher://example.com", ResultUnsupported},
	}

	for _, tt := range tests {
		if got := checker.Verify(context.Background(), types.NewLink(tt.href), cache.None{}); got != tt.want {
			t.Errorf("Verify(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestIgnoreVerifier_FirstInChainShortCircuits(t *testing.T) {
	rules, err := policy.Compile(policy.Config{Hosts: []string{"skip.example.com"}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	probe := &stubVerifier{result: ResultValid}
	chain := []Verifier{IgnoreVerifier(rules), probe}

	got := verifyOne(context.Background(), types.NewLink("https://skip.example.com/x"), chain, cache.None{})
	if got != ResultIgnored {
		t.Errorf("verifyOne = %q, want %q", got, ResultIgnored)
	}
	if probe.Calls() != 0 {
		t.Errorf("probe ran %d times for an ignored link, want 0", probe.Calls())
	}
}
