package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/assay/runner"
	"github.com/pithecene-io/assay/types"
	"github.com/pithecene-io/assay/verify"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"", "", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// rendererWith builds a renderer through a real flag parse.
func rendererWith(t *testing.T, fallback Format, args ...string) *Renderer {
	t.Helper()

	var r *Renderer
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format"},
			&cli.BoolFlag{Name: "no-color"},
		},
		Action: func(c *cli.Context) error {
			var err error
			r, err = NewRendererWithDefault(c, fallback)
			return err
		},
	}
	if err := app.Run(append([]string{"assay"}, args...)); err != nil {
		t.Fatalf("app.Run: %v", err)
	}
	return r
}

func TestNewRendererFormatPrecedence(t *testing.T) {
	// The flag wins over the fallback.
	if r := rendererWith(t, FormatYAML, "--format", "json"); r.format != FormatJSON {
		t.Errorf("format = %q, want json", r.format)
	}
	// The fallback applies when the flag is unset.
	if r := rendererWith(t, FormatYAML); r.format != FormatYAML {
		t.Errorf("format = %q, want yaml", r.format)
	}
	// Neither leaves the stream default, which is never empty.
	if r := rendererWith(t, ""); r.format == "" {
		t.Error("unset format should fall back to a stream default")
	}
}

func sampleReport() runner.Report {
	return runner.Report{
		Version:    "0.2.0",
		RunID:      "run-1",
		DurationMS: 42,
		Links:      3,
		Valid:      1,
		Ignored:    1,
		Unverified: 1,
		Entries: []verify.Entry{
			{
				Location: types.Location{File: "docs/a.md", Line: 3, Column: 1},
				Link:     types.Link{Href: "docs/ok.md"},
				Result:   verify.ResultValid,
			},
			{
				Location: types.Location{File: "docs/a.md", Line: 5, Column: 1},
				Link:     types.Link{Href: "mailto:x@y"},
				Result:   verify.ResultIgnored,
			},
			{
				Location: types.Location{File: "docs/a.md", Line: 9, Column: 4},
				Link:     types.Link{Href: "docs/missing.md", Raw: "./missing.md"},
				Result:   verify.ResultUnsupported,
			},
		},
	}
}

func TestRenderReportJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, true, &buf)
	if err := r.Render(sampleReport()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded runner.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.Links != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRenderReportTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)
	if err := r.Render(sampleReport()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "run run-1: 3 links") {
		t.Errorf("missing summary line:\n%s", out)
	}
	// Only unverified links appear as rows, with written form and location.
	if !strings.Contains(out, "docs/a.md:9:4") {
		t.Errorf("missing unverified location:\n%s", out)
	}
	if !strings.Contains(out, "./missing.md") {
		t.Errorf("missing written form:\n%s", out)
	}
	if strings.Contains(out, "docs/ok.md") || strings.Contains(out, "mailto:x@y") {
		t.Errorf("table should only list unverified links:\n%s", out)
	}
}

func TestRenderCleanReportTable(t *testing.T) {
	rep := sampleReport()
	rep.Unverified = 0
	rep.Entries = rep.Entries[:2]

	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)
	if err := r.Render(rep); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "LOCATION") {
		t.Errorf("clean run should not print an entry table:\n%s", buf.String())
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, true, &buf)
	if err := r.Render(sampleReport()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "run_id: run-1") {
		t.Errorf("yaml output missing run id:\n%s", buf.String())
	}
}

func TestRenderGenericTable(t *testing.T) {
	type row struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)
	if err := r.Render([]row{{"a", 1}, {"b", 2}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "name") || !strings.Contains(out, "count") {
		t.Errorf("missing headers:\n%s", out)
	}
	if !strings.Contains(out, "a") || !strings.Contains(out, "2") {
		t.Errorf("missing rows:\n%s", out)
	}
}

func TestRenderEmptySliceTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)
	if err := r.Render([]int{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "(no results)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	r := NewRendererWithWriter("csv", true, &bytes.Buffer{})
	if err := r.Render(sampleReport()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
