package vecsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

type item struct {
	name string
	typ  string
}

func typeOf(it item) (string, bool) { return it.typ, it.typ != "" }

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestApplyGroupsByTypeStably(t *testing.T) {
	in := []item{{"a", "T1"}, {"b", "T2"}, {"c", "T1"}}
	got := Apply(in, typeOf, NewOrder(map[string]int{"T1": 0, "T2": 1}))
	assert.Equal(t, []string{"a", "c", "b"}, names(got))
	assert.Equal(t, []string{"a", "b", "c"}, names(in), "input must not be reordered")
}

func TestApplyUnspecifiedBucket(t *testing.T) {
	in := []item{{"a", "T1"}, {"b", "T2"}, {"c", ""}}
	got := Apply(in, typeOf, NewOrder(map[string]int{"T1": 0, "T2": 1, "unspecified": 0}))
	assert.Equal(t, []string{"a", "c", "b"}, names(got))
}

func TestApplyDropsUnknownTypes(t *testing.T) {
	in := []item{{"a", "T1"}, {"b", "T3"}, {"c", ""}}
	got := Apply(in, typeOf, NewOrder(map[string]int{"T1": 0}))
	assert.Equal(t, []string{"a"}, names(got))
}

func TestApplyGUIDNormalisation(t *testing.T) {
	in := []item{
		{"x", "{B7862F14-EA5E-11DE-8D47-0013722F8DEC}"},
		{"y", "b7862f14-ea5e-11de-8d47-0013722f8dec"},
	}
	got := Apply(in, typeOf, FromList([]string{"B7862F14-EA5E-11DE-8D47-0013722F8DEC"}))
	assert.Equal(t, []string{"x", "y"}, names(got))
}

func TestByKeyCollates(t *testing.T) {
	in := []item{{"zèbre", ""}, {"Éclair", ""}, {"abricot", ""}, {"eau", ""}}
	got := ByKey(in, func(it item) string { return it.name }, language.French)
	assert.Equal(t, []string{"abricot", "eau", "Éclair", "zèbre"}, names(got))
}
