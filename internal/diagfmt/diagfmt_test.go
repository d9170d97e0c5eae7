package diagfmt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"viewspec/internal/diag"
)

func sampleBag(base string) *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.CfgMissingAttr,
		diag.Location{Origin: filepath.Join(base, "layouts", "main.xml"), Line: 12, Node: "seq"},
		`missing attribute "field"`).
		WithNote(diag.Location{Origin: "<spec>"}, "caused by: nothing"))
	bag.Add(diag.New(diag.SevWarning, diag.DataDanglingRef, diag.Location{}, "dangling"))
	return bag
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "proj")
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(base), JSONOpts{BaseDir: base, PathMode: PathModeRelative}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("count = %d, diagnostics = %d", output.Count, len(output.Diagnostics))
	}
	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "CFG2001" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if want := filepath.Join("layouts", "main.xml"); d.Location.File != want || d.Location.Line != 12 || d.Location.Node != "seq" {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 0 {
		t.Errorf("notes must be omitted unless requested")
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleBag("/proj"), JSONOpts{Max: 1, IncludeNotes: true, PathMode: PathModeBasename})
	if out.Count != 1 {
		t.Fatalf("count = %d, want 1", out.Count)
	}
	if len(out.Diagnostics[0].Notes) != 1 || out.Diagnostics[0].Location.File != "main.xml" {
		t.Fatalf("diagnostic = %+v", out.Diagnostics[0])
	}
}

func TestPrettyPlain(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "proj")
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(base), PrettyOpts{BaseDir: base, ShowNotes: true})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	want := filepath.Join("layouts", "main.xml") + `:12: error CFG2001: missing attribute "field" [seq]`
	if lines[0] != want {
		t.Fatalf("line 0 = %q, want %q", lines[0], want)
	}
	if lines[1] != "  note: caused by: nothing" {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if lines[2] != "<spec>: warning DAT3004: dangling" {
		t.Fatalf("line 2 = %q", lines[2])
	}
}

func TestFormatPathModes(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "proj")
	in := filepath.Join(base, "a", "b.xml")
	outside := filepath.Join(string(filepath.Separator), "etc", "x.xml")

	cases := []struct {
		origin string
		mode   PathMode
		want   string
	}{
		{in, PathModeAuto, filepath.Join("a", "b.xml")},
		{outside, PathModeAuto, outside},
		{in, PathModeBasename, "b.xml"},
		{"<spec>", PathModeRelative, "<spec>"},
		{in, PathModeAbsolute, in},
	}
	for _, tc := range cases {
		if got := formatPath(tc.origin, tc.mode, base); got != tc.want {
			t.Fatalf("formatPath(%q, %d) = %q, want %q", tc.origin, tc.mode, got, tc.want)
		}
	}
	if _, ok := ParsePathMode("sideways"); ok {
		t.Fatalf("expected unknown path mode")
	}
}
