package interp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewspec/internal/diag"
	"viewspec/internal/memdb"
	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/surface"
	"viewspec/internal/vecsort"
)

const fixtureLayouts = `<layouts>
  <layout class="Lexicon" name="publish"><seq field="Entries" layout="publish"/></layout>
  <layout class="Entry" name="publish"><para><string field="Citation"/></para></layout>
  <layout class="Sense" name="publish"><span><string field="Def"/></span></layout>
  <layout class="Sense" name="gloss"><string field="Gloss" ws="analysis"/></layout>
  <layout class="Sense" name="glossws"><string field="Gloss" ws="$ws=analysis"/></layout>
  <layout class="Sense" name="card"><string field="Def"/><lit name="tail">.</lit></layout>
  <layout class="Sense" name="tree"><string field="Def"/><seq field="Subs" layout="tree"/></layout>
  <layout class="Entry" name="plain">
    <string field="Citation"/>
    <string field="Form" ws="vernacular"/>
    <int field="Homograph"/>
    <obj field="Main" layout="plainsense"/>
    <seq field="Senses" layout="plainsense"/>
  </layout>
  <layout class="Sense" name="plainsense">
    <string field="Def"/>
    <string field="Gloss" ws="all analysis"/>
  </layout>
</layouts>`

// fixture is a small dictionary:
//
//	lex ── Entries ─> e1 "cat" (senses s1, s2; main s1), e2 "dog"
//	s1 feline/ant, s2 "adult male"/syn, s3 kitten/hyp (not attached)
type fixture struct {
	db *memdb.DB

	entryT, senseT, lexT model.TypeID

	lex, e1, e2, s1, s2, s3 model.Handle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb.New()
	s := db.Schema
	s.MustType("Object", "")
	f := &fixture{db: db}
	f.lexT = s.MustType("Lexicon", "Object")
	f.senseT = s.MustType("Sense", "Object")
	f.entryT = s.MustType("Entry", "Object")

	s.MustField(f.lexT, "Entries", model.FieldRefSeq, "Entry")
	s.MustField(f.entryT, "Form", model.FieldLocaleString, "")
	s.MustField(f.entryT, "Citation", model.FieldString, "")
	s.MustField(f.entryT, "Homograph", model.FieldInt, "")
	s.MustField(f.entryT, "Irregular", model.FieldBool, "")
	s.MustField(f.entryT, "Senses", model.FieldRefSeq, "Sense")
	s.MustField(f.entryT, "Main", model.FieldRef, "Sense")
	s.MustField(f.entryT, "Related", model.FieldRefSeq, "Entry")
	s.MustField(f.senseT, "Gloss", model.FieldLocaleString, "")
	s.MustField(f.senseT, "Def", model.FieldString, "")
	s.MustField(f.senseT, "Rel", model.FieldString, "")
	s.MustField(f.senseT, "Subs", model.FieldRefSeq, "Sense")

	db.Locales.SetList("vernacular", "fr")
	db.Locales.SetList("analysis", "en", "de")
	db.Locales.SetLabel("en", "En")
	db.Locales.SetLabel("de", "De")
	db.Locales.SetLabel("fr", "Fr")
	db.Orders.Set("rel", vecsort.NewOrder(map[string]int{"ant": 0, "syn": 1}))

	st := db.Store
	f.lex = st.Create(f.lexT)
	f.e1 = st.Create(f.entryT)
	f.e2 = st.Create(f.entryT)
	f.s1 = st.Create(f.senseT)
	f.s2 = st.Create(f.senseT)
	f.s3 = st.Create(f.senseT)

	f.set(t, f.lex, "Entries", []model.Handle{f.e1, f.e2})
	f.set(t, f.e1, "Form", map[model.Locale]string{"fr": "chat"})
	f.set(t, f.e1, "Citation", "cat")
	f.set(t, f.e1, "Homograph", 1)
	f.set(t, f.e1, "Senses", []model.Handle{f.s1, f.s2})
	f.set(t, f.e1, "Main", f.s1)
	f.set(t, f.e1, "Related", []model.Handle{f.e2})
	f.set(t, f.e2, "Form", map[model.Locale]string{"fr": "chien"})
	f.set(t, f.e2, "Citation", "dog")
	f.set(t, f.e2, "Related", []model.Handle{f.e1})
	f.set(t, f.s1, "Gloss", map[model.Locale]string{"en": "cat", "de": "Katze"})
	f.set(t, f.s1, "Def", "feline")
	f.set(t, f.s1, "Rel", "ant")
	f.set(t, f.s2, "Gloss", map[model.Locale]string{"de": "Kater"})
	f.set(t, f.s2, "Def", "adult male")
	f.set(t, f.s2, "Rel", "syn")
	f.set(t, f.s3, "Gloss", map[model.Locale]string{"en": "kitten"})
	f.set(t, f.s3, "Def", "kitten")
	f.set(t, f.s3, "Rel", "hyp")

	require.NoError(t, db.Layouts.Read(strings.NewReader(fixtureLayouts), "fixture.xml"))
	return f
}

func (f *fixture) fieldID(t *testing.T, h model.Handle, name string) model.FieldID {
	t.Helper()
	id, ok := f.db.Schema.FieldID(f.db.Store.TypeOf(h), name)
	require.True(t, ok, "field %s", name)
	return id
}

func (f *fixture) set(t *testing.T, h model.Handle, name string, v any) {
	t.Helper()
	id := f.fieldID(t, h, name)
	st := f.db.Store
	var err error
	switch v := v.(type) {
	case int:
		err = st.SetInt(h, id, int64(v))
	case bool:
		var n int64
		if v {
			n = 1
		}
		err = st.SetInt(h, id, n)
	case string:
		err = st.SetString(h, id, v)
	case map[model.Locale]string:
		for loc, s := range v {
			if err = st.SetLocaleString(h, id, loc, s); err != nil {
				break
			}
		}
	case model.Handle:
		err = st.SetRef(h, id, v)
	case []model.Handle:
		err = st.SetRefs(h, id, v)
	default:
		t.Fatalf("unsupported value %T", v)
	}
	require.NoError(t, err)
}

func (f *fixture) interp(t *testing.T, mods ...func(*Options)) *Interpreter {
	t.Helper()
	opts := Options{
		Specs:      f.db.Layouts,
		Fields:     f.db.Schema,
		Objects:    f.db.Store,
		Locales:    f.db.Locales,
		Computer:   f.db.Computer,
		Orders:     f.db.Orders,
		RootLayout: "publish",
		MainField:  "Entries",
	}
	for _, m := range mods {
		m(&opts)
	}
	in, err := New(opts)
	require.NoError(t, err)
	return in
}

// show renders the children of an ad hoc <layout> for obj.
func show(t *testing.T, in *Interpreter, obj model.Handle, doc string) (*surface.Recorder, error) {
	t.Helper()
	n, err := spec.ParseString(doc)
	require.NoError(t, err)
	rec := surface.NewRecorder()
	err = in.ProcessChildren(n, rec, obj, nil)
	assert.True(t, rec.Balanced(), "unbalanced regions: %s", rec.Structure())
	return rec, err
}

// text renders doc and returns the text, failing on error.
func text(t *testing.T, in *Interpreter, obj model.Handle, doc string) string {
	t.Helper()
	rec, err := show(t, in, obj, doc)
	require.NoError(t, err)
	return rec.Text()
}

func structure(t *testing.T, in *Interpreter, obj model.Handle, doc string) string {
	t.Helper()
	rec, err := show(t, in, obj, doc)
	require.NoError(t, err)
	return rec.Structure()
}

func requireCode(t *testing.T, err error, code diag.Code) {
	t.Helper()
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, code, ce.Code, ce.Error())
}
