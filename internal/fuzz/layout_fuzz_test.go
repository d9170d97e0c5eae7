package fuzztests

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"viewspec/internal/fragment"
	"viewspec/internal/interp"
	"viewspec/internal/memdb"
	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/surface"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// displayTimeout is the maximum time allowed for one input. Anything slower
// points at a loop the recursion guard failed to cut.
const displayTimeout = 5 * time.Second

const fuzzSchema = `
types:
  - name: Entry
    fields:
      - {name: Form, kind: multistring}
      - {name: Citation, kind: string}
      - {name: Homograph, kind: int}
      - {name: Senses, kind: refseq, target: Sense}
      - {name: Main, kind: ref, target: Sense}
  - name: Sense
    fields:
      - {name: Gloss, kind: multistring}
      - {name: Subs, kind: refseq, target: Sense}
locales:
  vernacular: [fr]
  analysis: [en, de]
orderings:
  rel: {syn: 0, ant: 1}
`

const fuzzObjects = `
root: 1
objects:
  - id: 1
    type: Entry
    fields:
      Form: {fr: chat}
      Citation: cat
      Homograph: 2
      Senses: [2, 3]
      Main: 2
  - id: 2
    type: Sense
    fields:
      Gloss: {en: feline, de: Katze}
      Subs: [3]
  - id: 3
    type: Sense
    fields:
      Gloss: {en: tomcat}
      Subs: [2]
`

func newDB(t *testing.T) *memdb.DB {
	t.Helper()
	db := memdb.New()
	if err := db.ReadSchema(strings.NewReader(fuzzSchema), "schema.yaml"); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := db.ReadObjects(strings.NewReader(fuzzObjects), "objects.yaml"); err != nil {
		t.Fatalf("objects: %v", err)
	}
	return db
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// FuzzLayoutParse checks that the XML reader never panics and that every
// node it returns is a known kind.
func FuzzLayoutParse(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		n, err := spec.Parse(bytes.NewReader(input), "fuzz.xml")
		if err != nil {
			return
		}
		n.Walk(func(c *spec.Node) bool {
			if _, ok := spec.ParseKind(c.Kind.String()); !ok {
				t.Fatalf("parsed node with unknown kind %v", c.Kind)
			}
			return true
		})
	})
}

// FuzzDisplayIsBalanced registers the input as the body of a layout for both
// types and displays and analyzes it. Errors are fine; panics, hangs and
// unbalanced regions are not.
func FuzzDisplayIsBalanced(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		body := string(clampInput(input))
		doc := `<layouts><layout class="Entry" name="fuzz">` + body +
			`</layout><layout class="Sense" name="fuzz">` + body + `</layout></layouts>`

		db := newDB(t)
		if err := db.Layouts.Read(strings.NewReader(doc), "fuzz.xml"); err != nil {
			return
		}
		in, err := interp.New(interp.Options{
			Specs:      db.Layouts,
			Fields:     db.Schema,
			Objects:    db.Store,
			Locales:    db.Locales,
			Computer:   db.Computer,
			Orders:     db.Orders,
			RootLayout: "fuzz",
			MainField:  "Senses",
		})
		if err != nil {
			t.Fatalf("interp.New: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for _, frag := range []model.FragID{fragment.Root, fragment.MainSeq} {
				rec := surface.NewRecorder()
				_ = in.Display(rec, db.Root, frag)
				if !rec.Balanced() {
					t.Errorf("unbalanced regions for fragment %d: %s", frag, rec.Structure())
				}
			}
			entry := db.Store.TypeOf(db.Root)
			_ = in.AnalyzeFragment(entry, fragment.Root)
		}()
		select {
		case <-done:
		case <-time.After(displayTimeout):
			t.Fatalf("display did not finish within %s", displayTimeout)
		}
	})
}
