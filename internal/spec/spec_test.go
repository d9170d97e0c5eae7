package spec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewspec/internal/diag"
)

const layoutsDoc = `<?xml version="1.0"?>
<layouts>
  <layout class="Entry" name="publish">
    <para bold="true">
      <string field="Form" ws="vernacular"/>
      <lit> : </lit>
    </para>
    <seq field="Senses" layout="publish" number="%d) "/>
  </layout>
  <layout class="Sense" name="publish">
    <string field="Gloss" ws="analysis"/>
  </layout>
</layouts>`

func TestParseLayouts(t *testing.T) {
	layouts, err := ParseLayouts(strings.NewReader(layoutsDoc), "entries.xml")
	require.NoError(t, err)
	require.Len(t, layouts, 2)

	entry := layouts[0]
	assert.Equal(t, KindLayout, entry.Kind)
	assert.Equal(t, "Entry", entry.Attr("class"))
	require.Len(t, entry.Children, 2)

	para := entry.Children[0]
	assert.Equal(t, KindPara, para.Kind)
	assert.Equal(t, 4, para.Line)
	assert.True(t, para.Bool("bold", false))
	lit := para.Children[1]
	assert.Equal(t, " : ", lit.Text)

	assert.Equal(t, "seq field=Senses (entries.xml:8)", entry.Children[1].Where())
}

func TestLitKeepsSpacing(t *testing.T) {
	n, err := ParseString("<layout><lit> </lit><lit>, </lit><lit>\n    </lit></layout>")
	require.NoError(t, err)
	require.Len(t, n.Children, 3)
	assert.Equal(t, " ", n.Children[0].Text)
	assert.Equal(t, ", ", n.Children[1].Text)
	assert.Equal(t, "", n.Children[2].Text)
}

func TestParseRejectsUnknownElement(t *testing.T) {
	_, err := ParseString(`<layout><marquee/></layout>`)
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, diag.SpecUnknownElement, se.Code)
	assert.Equal(t, 1, se.Line)
}

func TestParseRejectsTextOutsideLit(t *testing.T) {
	_, err := ParseString("<layout>\n<para>hello</para></layout>")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, diag.SpecUnexpectedText, se.Code)
	assert.Equal(t, 2, se.Line)
}

func TestParseLayoutsNeedsWrapper(t *testing.T) {
	_, err := ParseLayouts(strings.NewReader(`<layout name="x"/>`), "x.xml")
	require.Error(t, err)
}

func TestWithNeverMutates(t *testing.T) {
	child := New(KindLit, nil)
	n := New(KindString, A("field", "Form", "ws", "$ws=analysis"), child)

	bound := n.With("ws", "vernacular")
	assert.Equal(t, "$ws=analysis", n.Attr("ws"))
	assert.Equal(t, "vernacular", bound.Attr("ws"))
	assert.Same(t, child, bound.Children[0])
	assert.NotSame(t, n, bound)

	other := n.WithChildren(nil)
	assert.Len(t, n.Children, 1)
	assert.Empty(t, other.Children)
}

func TestKindNamesRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("invalid")
	assert.False(t, ok)
}

func TestIntAttr(t *testing.T) {
	n := New(KindIf, A("intequals", " 42 ", "bad", "x"))
	v, ok, err := n.Int("intequals")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 42, v)
	_, ok, err = n.Int("bad")
	assert.True(t, ok)
	assert.Error(t, err)
	_, ok, _ = n.Int("missing")
	assert.False(t, ok)
}
