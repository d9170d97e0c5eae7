package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocaleCanonicalises(t *testing.T) {
	l, err := ParseLocale(" en-us ")
	require.NoError(t, err)
	assert.Equal(t, Locale("en-US"), l)
	assert.Equal(t, "en-US", l.Tag().String())

	_, err = ParseLocale("not a tag")
	assert.Error(t, err)
	assert.Panics(t, func() { MustLocale("") })
}

func TestParseSelector(t *testing.T) {
	lists := func(name string) bool { return name == "vernacular" || name == "analysis" }

	cases := []struct {
		raw  string
		want Selector
	}{
		{"current", Selector{Kind: SelCurrent}},
		{"fr", Selector{Kind: SelExplicit, Locale: "fr"}},
		{"vernacular", Selector{Kind: SelList, List: "vernacular"}},
		{"all analysis", Selector{Kind: SelList, Mode: SelectAll, List: "analysis"}},
		{"best vernacular", Selector{Kind: SelList, Mode: SelectBest, List: "vernacular"}},
	}
	for _, tc := range cases {
		got, err := ParseSelector(tc.raw, lists)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
		assert.Equal(t, tc.raw, got.String())
	}

	for _, bad := range []string{"", "all nowhere", "best nowhere", "??"} {
		_, err := ParseSelector(bad, lists)
		assert.Error(t, err, bad)
	}
}

func TestFieldKindNames(t *testing.T) {
	for k := FieldInt; k <= FieldRefSeq; k++ {
		got, err := ParseFieldKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseFieldKind("blob")
	assert.Error(t, err)
	assert.True(t, FieldRefSeq.IsReference())
	assert.False(t, FieldLocaleString.IsReference())
}
