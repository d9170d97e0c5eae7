package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"viewspec/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const full = `
[data]
schema = "data/schema.yaml"
objects = "data/objects.yaml"
layouts = ["layouts/main.xml", "/abs/extra.xml"]

[render]
root_layout = "publish"
main_field = "Entries"
width = 100

[locales]
vernacular = ["fr"]
analysis = ["en", "de"]
ui = "de"

[analysis]
max_depth = 6
max_vector_depth = 3

[estimate]
line_height = 2

[batch]
jobs = 4
`

func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, full)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != dir {
		t.Fatalf("root = %q, want %q", cfg.Root, dir)
	}
	if want := filepath.Join(dir, "data", "schema.yaml"); cfg.Data.Schema != want {
		t.Fatalf("schema = %q, want %q", cfg.Data.Schema, want)
	}
	if len(cfg.Data.Layouts) != 2 || cfg.Data.Layouts[1] != "/abs/extra.xml" {
		t.Fatalf("layouts = %v", cfg.Data.Layouts)
	}
	if cfg.Render.RootLayout != "publish" || cfg.Render.MainField != "Entries" || cfg.Render.Width != 100 {
		t.Fatalf("render = %+v", cfg.Render)
	}
	if cfg.Locales.UI != "de" || len(cfg.Locales.Analysis) != 2 {
		t.Fatalf("locales = %+v", cfg.Locales)
	}
	if cfg.Analysis.MaxDepth != 6 || cfg.Analysis.MaxVectorDepth != 3 {
		t.Fatalf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Estimate.LineHeight != 2 || cfg.Batch.Jobs != 4 {
		t.Fatalf("estimate/batch = %+v %+v", cfg.Estimate, cfg.Batch)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "[data]\nschema = \"s.yaml\"\nlayouts = [\"l.xml\"]\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Render.RootLayout != def.Render.RootLayout || cfg.Render.Width != def.Render.Width {
		t.Fatalf("render = %+v, want defaults %+v", cfg.Render, def.Render)
	}
	if cfg.Data.Objects != "" {
		t.Fatalf("objects = %q, want empty", cfg.Data.Objects)
	}
	if cfg.Analysis.MaxDepth != 0 {
		t.Fatalf("max_depth = %d, want 0 (interpreter default)", cfg.Analysis.MaxDepth)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no data", "[render]\nwidth = 1\n", ErrDataSectionMissing},
		{"no schema", "[data]\nlayouts = [\"l.xml\"]\n", ErrSchemaMissing},
		{"no layouts", "[data]\nschema = \"s.yaml\"\n", ErrLayoutsMissing},
		{"negative width", "[data]\nschema = \"s\"\nlayouts = [\"l\"]\n[render]\nwidth = -1\n", nil},
		{"zero depth", "[data]\nschema = \"s\"\nlayouts = [\"l\"]\n[analysis]\nmax_depth = 0\n", nil},
		{"unknown key", "[data]\nschema = \"s\"\nlayouts = [\"l\"]\ncolour = true\n", nil},
		{"syntax", "[data\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			var ce *Error
			if !errors.As(err, &ce) || ce.Code != diag.ProjConfigInvalid {
				t.Fatalf("err = %v, want ProjConfigInvalid", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "[data]\nschema = \"s.yaml\"\nlayouts = [\"l.xml\"]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, err := Discover(nested, "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != filepath.Join(root, FileName) {
		t.Fatalf("path = %q", cfg.Path)
	}
	if cfg.Data.Schema != filepath.Join(root, "s.yaml") {
		t.Fatalf("schema = %q", cfg.Data.Schema)
	}
}

func TestDiscoverMissing(t *testing.T) {
	_, err := Discover(t.TempDir(), "")
	if err == nil {
		// a viewspec.toml somewhere above the temp dir
		t.Skip("found a configuration above the temporary directory")
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Code != diag.ProjConfigMissing {
		t.Fatalf("err = %v, want ProjConfigMissing", err)
	}

	_, err = Discover("", filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.As(err, &ce) || ce.Code != diag.ProjConfigMissing {
		t.Fatalf("err = %v, want ProjConfigMissing", err)
	}
	if d := diag.FromError(err); d.Code != diag.ProjConfigMissing {
		t.Fatalf("diag code = %v", d.Code)
	}
}
