package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"

	"viewspec/internal/diag"
	"viewspec/internal/model"
	"viewspec/internal/surface"
)

func TestStringLeafLocaleSelectors(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	cases := []struct {
		name string
		obj  model.Handle
		doc  string
		want string
	}{
		{"plain", f.e1, `<layout><string field="Citation"/></layout>`, "cat"},
		{"explicit", f.e1, `<layout><string field="Form" ws="fr"/></layout>`, "chat"},
		{"list", f.e1, `<layout><string field="Form" ws="vernacular"/></layout>`, "chat"},
		{"first of list", f.s1, `<layout><string field="Gloss" ws="analysis"/></layout>`, "cat"},
		{"first of list empty", f.s2, `<layout><string field="Gloss" ws="analysis"/></layout>`, ""},
		{"all with labels", f.s1, `<layout><string field="Gloss" ws="all analysis" sep="; " showLabels="true"/></layout>`, "En cat; De Katze"},
		{"all skips empty", f.s2, `<layout><string field="Gloss" ws="all analysis" sep="; "/></layout>`, "Kater"},
		{"best", f.s2, `<layout><string field="Gloss" ws="best analysis"/></layout>`, "Kater"},
		{"best prefers first", f.s1, `<layout><string field="Gloss" ws="best analysis"/></layout>`, "cat"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, text(t, in, tc.obj, tc.doc))
		})
	}
}

func TestStringLeafRunsCarryLocale(t *testing.T) {
	f := newFixture(t)
	rec, err := show(t, f.interp(t), f.s1, `<layout><string field="Gloss" ws="de" bold="true"/></layout>`)
	require.NoError(t, err)
	require.Equal(t, 1, rec.Count(surface.EvText))
	for _, ev := range rec.Events {
		if ev.Kind == surface.EvText {
			assert.Equal(t, model.Locale("de"), ev.Run.Locale)
			assert.Len(t, ev.Run.Props, 1)
		}
	}
}

func TestStringLeafConfigErrors(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	cases := map[string]struct {
		doc  string
		code diag.Code
	}{
		"no field":        {`<layout><string/></layout>`, diag.CfgMissingAttr},
		"unknown field":   {`<layout><string field="Bogus"/></layout>`, diag.CfgUnknownField},
		"wrong kind":      {`<layout><string field="Homograph"/></layout>`, diag.CfgFieldKind},
		"no ws":           {`<layout><string field="Form"/></layout>`, diag.CfgMissingAttr},
		"current outside": {`<layout><string field="Form" ws="current"/></layout>`, diag.CfgNoCurrentLocale},
		"bad ws":          {`<layout><string field="Form" ws="all nowhere"/></layout>`, diag.CfgBadValue},
		"bad prop":        {`<layout><string field="Citation" bold="maybe"/></layout>`, diag.CfgBadValue},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := show(t, in, f.e1, tc.doc)
			requireCode(t, err, tc.code)
		})
	}
}

func TestIntLeaf(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	assert.Equal(t, "1", text(t, in, f.e1, `<layout><int field="Homograph"/></layout>`))
	assert.Equal(t, "", text(t, in, f.e2, `<layout><int field="Homograph"/></layout>`))
	assert.Equal(t, "0", text(t, in, f.e2, `<layout><int field="Homograph" showZero="true"/></layout>`))

	f.set(t, f.e2, "Homograph", 1234)
	assert.Equal(t, "1,234", text(t, in, f.e2, `<layout><int field="Homograph" format="grouped"/></layout>`))
	assert.Equal(t, "mccxxxiv", text(t, in, f.e2, `<layout><int field="Homograph" format="roman"/></layout>`))

	f.set(t, f.e2, "Irregular", true)
	assert.Equal(t, "1", text(t, in, f.e2, `<layout><int field="Irregular"/></layout>`))

	_, err := show(t, in, f.e2, `<layout><int field="Homograph" format="hex"/></layout>`)
	requireCode(t, err, diag.CfgBadValue)
	_, err = show(t, in, f.e2, `<layout><int field="Citation"/></layout>`)
	requireCode(t, err, diag.CfgFieldKind)
}

func TestComputed(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	assert.Equal(t, "CAT", text(t, in, f.e1, `<layout><computed method="upper" arg="Citation"/></layout>`))
	assert.Equal(t, "cat 1", text(t, in, f.e1, `<layout><computed method="concat" arg="Citation, Homograph"/></layout>`))
	assert.Equal(t, "", text(t, in, f.e1, `<layout><computed method="nope"/></layout>`))
	assert.Equal(t, "", text(t, in, f.e1, `<layout><computed method="upper" arg="Bogus"/></layout>`))

	_, err := show(t, in, f.e1, `<layout><computed arg="Citation"/></layout>`)
	requireCode(t, err, diag.CfgMissingAttr)

	bare := f.interp(t, func(o *Options) { o.Computer = nil })
	assert.Equal(t, "", text(t, bare, f.e1, `<layout><computed method="upper" arg="Citation"/></layout>`))
}

func TestCustomFieldCacheFollowsVersion(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)
	doc := `<layout><custom field="Nick"/></layout>`

	assert.Equal(t, "", text(t, in, f.e1, doc))

	_, err := f.db.Schema.AddCustomField(f.entryT, "Nick", model.FieldString)
	require.NoError(t, err)
	f.set(t, f.e1, "Nick", "kitty")
	assert.Equal(t, "kitty", text(t, in, f.e1, doc))

	id := f.fieldID(t, f.e1, "Nick")
	require.NoError(t, f.db.Schema.RemoveCustomField(id))
	assert.Equal(t, "", text(t, in, f.e1, doc))
}

func TestCustomFieldKinds(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)
	_, err := f.db.Schema.AddCustomField(f.entryT, "Alt", model.FieldLocaleString)
	require.NoError(t, err)
	_, err = f.db.Schema.AddCustomField(f.entryT, "Rank", model.FieldInt)
	require.NoError(t, err)
	f.set(t, f.e1, "Alt", map[model.Locale]string{"fr": "minou"})
	f.set(t, f.e1, "Rank", 3)

	assert.Equal(t, "", text(t, in, f.e1, `<layout><custom field="Alt"/></layout>`))
	assert.Equal(t, "minou", text(t, in, f.e1, `<layout><custom field="Alt" ws="fr"/></layout>`))
	assert.Equal(t, "iii", text(t, in, f.e1, `<layout><custom field="Rank" format="roman"/></layout>`))

	_, err = show(t, in, f.e1, `<layout><custom/></layout>`)
	requireCode(t, err, diag.CfgMissingAttr)
}

func TestLiteral(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	rec, err := show(t, in, f.e1, `<layout><lit ws="fr" italic="true">Sens</lit></layout>`)
	require.NoError(t, err)
	assert.Equal(t, "Sens", rec.Text())
	assert.Equal(t, model.Locale("fr"), rec.Events[0].Run.Locale)

	// decomposed é is normalised
	assert.Equal(t, "\u00e9t\u00e9", text(t, in, f.e1, "<layout><lit>e\u0301te\u0301</lit></layout>"))
	assert.Equal(t, "100%", text(t, in, f.e1, `<layout><lit>100%</lit></layout>`))

	assert.Equal(t, "cat , cat", text(t, in, f.s1,
		`<layout><string field="Gloss" ws="en"/><lit> </lit><lit>, </lit><string field="Gloss" ws="en"/></layout>`))

	_, err = show(t, in, f.e1, `<layout><lit ws="not a tag!">x</lit></layout>`)
	requireCode(t, err, diag.CfgBadValue)
}

func TestLiteralTranslatedThroughCatalog(t *testing.T) {
	f := newFixture(t)
	b := catalog.NewBuilder()
	require.NoError(t, b.SetString(language.French, "Senses", "Sens"))
	in := f.interp(t, func(o *Options) {
		o.Catalog = b
		o.UILocale = "fr"
	})
	assert.Equal(t, "Sens", text(t, in, f.e1, `<layout><lit>Senses</lit></layout>`))
	assert.Equal(t, "Other", text(t, in, f.e1, `<layout><lit>Other</lit></layout>`))
}
