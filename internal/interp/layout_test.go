package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewspec/internal/diag"
)

func TestSublayoutGroups(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	cases := map[string]struct {
		doc  string
		want string
	}{
		"para":          {`<sublayout group="para"><lit>a</lit></sublayout>`, "<para>a</para>"},
		"para in para":  {`<para><sublayout group="para"><lit>a</lit></sublayout></para>`, "<para>a</para>"},
		"para in div":   {`<div><sublayout group="para"><lit>a</lit></sublayout></div>`, "<div><para>a</para></div>"},
		"innerpile":     {`<para><sublayout group="innerpile"><lit>a</lit></sublayout></para>`, "<para><innerpile>a</innerpile></para>"},
		"inline":        {`<sublayout><lit>a</lit><lit>b</lit></sublayout>`, "ab"},
		"named":         {`<sublayout name="card"/>`, "feline."},
		"named grouped": {`<sublayout name="card" group="para"/>`, "<para>feline.</para>"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, structure(t, in, f.s1, "<layout>"+tc.doc+"</layout>"))
		})
	}

	_, err := show(t, in, f.s1, `<layout><sublayout name="nope"/></layout>`)
	requireCode(t, err, diag.CfgUnknownLayout)
	_, err = show(t, in, f.s1, `<layout><sublayout group="pile"><lit>a</lit></sublayout></layout>`)
	requireCode(t, err, diag.CfgBadValue)
}

func TestPartParameters(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	assert.Equal(t, "cat", text(t, in, f.s1, `<layout><part ref="glossws"/></layout>`))
	assert.Equal(t, "Katze", text(t, in, f.s1, `<layout><part ref="glossws" ws="de"/></layout>`))
	// the stored layout keeps its placeholder
	stored := f.db.Layouts.GetSpecNode(f.senseT, "glossws", false)
	require.NotNil(t, stored)
	assert.Equal(t, "$ws=analysis", stored.Children[0].Attr("ws"))
}

func TestPartChildrenOverride(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	assert.Equal(t, "feline!", text(t, in, f.s1, `<layout><part ref="card"><lit name="tail">!</lit></part></layout>`))
	assert.Equal(t, "feline.", text(t, in, f.s1, `<layout><part ref="card"/></layout>`))
	assert.Equal(t, "feline.?", text(t, in, f.s1, `<layout><part ref="card"><lit name="other">?</lit></part></layout>`))
}

func TestPartMissing(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	rec, err := show(t, in, f.e1, `<layout><part ref="card"/></layout>`)
	require.NoError(t, err)
	assert.Empty(t, rec.Structure())

	_, err = show(t, in, f.e1, `<layout><part/></layout>`)
	requireCode(t, err, diag.CfgMissingAttr)
}

func TestMultilingLabelsAndSeparators(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)
	doc := `<layout><multiling ws="all analysis" sep=" / " showLabels="true"><string field="Gloss" ws="current"/></multiling></layout>`

	assert.Equal(t, "En cat / De Katze", text(t, in, f.s1, doc))
	// no stray separator for the empty English gloss
	assert.Equal(t, "De Kater", text(t, in, f.s2, doc))
}

func TestMultilingForcesLocale(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	got := text(t, in, f.s1, `<layout><multiling ws="all analysis" sep="|"><string field="Gloss" ws="analysis"/></multiling></layout>`)
	assert.Equal(t, "cat|Katze", got)

	rec, err := show(t, in, f.s1, `<layout><multiling ws="all analysis"><string field="Gloss" ws="current"/></multiling></layout>`)
	require.NoError(t, err)
	locs := []string{}
	for _, ev := range rec.Events {
		if ev.Run.Text == "cat" || ev.Run.Text == "Katze" {
			locs = append(locs, string(ev.Locale))
		}
	}
	assert.Equal(t, []string{"en", "de"}, locs)
}

func TestMultilingErrors(t *testing.T) {
	f := newFixture(t)
	in := f.interp(t)

	_, err := show(t, in, f.s1, `<layout><multiling><lit>x</lit></multiling></layout>`)
	requireCode(t, err, diag.CfgMissingAttr)
	_, err = show(t, in, f.s1, `<layout><multiling ws="current"><lit>x</lit></multiling></layout>`)
	requireCode(t, err, diag.CfgNoCurrentLocale)
	_, err = show(t, in, f.s1, `<layout><string field="Gloss" ws="current"/></layout>`)
	requireCode(t, err, diag.CfgNoCurrentLocale)
}
