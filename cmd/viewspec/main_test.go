package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"viewspec/internal/config"
	"viewspec/internal/memdb"
	"viewspec/internal/model"
)

const testSchema = `
types:
  - name: Lexicon
    fields:
      - {name: Entries, kind: refseq, target: Entry}
  - name: Entry
    fields:
      - {name: Citation, kind: string}
      - {name: Senses, kind: refseq, target: Sense}
  - name: Sense
    fields:
      - {name: Gloss, kind: multistring}
locales:
  analysis: [en]
`

const testObjects = `
root: 1
objects:
  - id: 1
    type: Lexicon
    fields:
      Entries: [2, 3]
  - id: 2
    type: Entry
    fields:
      Citation: cat
      Senses: [4]
  - id: 3
    type: Entry
    fields:
      Citation: dog
  - id: 4
    type: Sense
    fields:
      Gloss: {en: feline, de: Katze}
`

const testLayouts = `<layouts>
  <layout class="Entry" name="publish"><para><string field="Citation"/><seq field="Senses" layout="publish"/></para></layout>
  <layout class="Sense" name="publish"><string field="Gloss" ws="analysis"/></layout>
</layouts>`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"schema.yaml":  testSchema,
		"objects.yaml": testObjects,
		"layouts.xml":  testLayouts,
	}
	files[config.FileName] = `
[data]
schema = "schema.yaml"
objects = "objects.yaml"
layouts = ["layouts.xml"]

[render]
root_layout = "publish"
main_field = "Entries"
width = 40
`
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return filepath.Join(dir, config.FileName)
}

func testWorkspace(t *testing.T) *workspace {
	t.Helper()
	cfg, err := config.Load(writeProject(t))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	db, err := memdb.Load(memdb.Paths{Schema: cfg.Data.Schema, Objects: cfg.Data.Objects, Layouts: cfg.Data.Layouts})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return &workspace{cfg: cfg, db: db}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
	if !shouldUseTUI(uiModeOn, 1) || shouldUseTUI(uiModeOff, 10) {
		t.Fatalf("explicit modes must win")
	}
}

func TestWorkspaceRoots(t *testing.T) {
	ws := testWorkspace(t)

	roots, err := ws.roots(nil)
	if err != nil {
		t.Fatalf("roots: %v", err)
	}
	if len(roots) != 2 || roots[0] != 2 || roots[1] != 3 {
		t.Fatalf("default roots = %v, want [2 3]", roots)
	}

	roots, err = ws.roots([]string{"3"})
	if err != nil || len(roots) != 1 || roots[0] != model.Handle(3) {
		t.Fatalf("explicit roots = %v, %v", roots, err)
	}
	for _, bad := range []string{"0", "x", "99"} {
		if _, err := ws.roots([]string{bad}); err == nil {
			t.Fatalf("roots(%q): expected error", bad)
		}
	}

	ws.cfg.Render.MainField = ""
	roots, err = ws.roots(nil)
	if err != nil || len(roots) != 1 || roots[0] != 1 {
		t.Fatalf("roots without main field = %v, %v", roots, err)
	}
}

func TestApplyLocalesOverridesSchema(t *testing.T) {
	ws := testWorkspace(t)
	if err := applyLocales(ws.db, config.Locales{Analysis: []string{"de", "en"}}); err != nil {
		t.Fatalf("applyLocales: %v", err)
	}
	got := ws.db.Locales.Locales("analysis", 0)
	if len(got) != 2 || got[0] != "de" {
		t.Fatalf("analysis = %v", got)
	}
	if err := applyLocales(ws.db, config.Locales{Vernacular: []string{"not a tag!"}}); err == nil {
		t.Fatalf("expected error for a bad tag")
	}
}

func TestTypeOfAndFieldName(t *testing.T) {
	ws := testWorkspace(t)
	typ, err := ws.typeOf("")
	if err != nil || ws.db.Schema.TypeName(typ) != "Lexicon" {
		t.Fatalf("typeOf(\"\") = %v, %v", typ, err)
	}
	if _, err := ws.typeOf("Nope"); err == nil {
		t.Fatalf("expected unknown class error")
	}
	if got := ws.fieldName(model.FieldID(9999)); got != "#9999" {
		t.Fatalf("fieldName = %q", got)
	}
}

func TestCommandsEndToEnd(t *testing.T) {
	path := writeProject(t)

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(append([]string{"--config", path, "--color", "off"}, args...))
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	rendered := run("render", "--ui", "off")
	for _, want := range []string{"cat", "feline", "dog"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("render output %q lacks %q", rendered, want)
		}
	}

	plan := run("analyze", "--class", "Entry")
	if !strings.Contains(plan, "Citation") || !strings.Contains(plan, "=> Senses") || !strings.Contains(plan, "Gloss") {
		t.Fatalf("analyze output:\n%s", plan)
	}

	checked := run("check")
	if !strings.HasPrefix(checked, "ok: 2 objects") {
		t.Fatalf("check output %q", checked)
	}
}
