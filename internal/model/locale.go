package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a canonical BCP 47 tag string. The empty locale means
// "not locale-indexed".
type Locale string

// ParseLocale canonicalises a tag.
func ParseLocale(s string) (Locale, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("bad locale %q: %w", s, err)
	}
	return Locale(tag.String()), nil
}

// MustLocale is ParseLocale for literals in code and tests.
func MustLocale(s string) Locale {
	l, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Tag returns the x/text tag; language.Und for an unparsable value.
func (l Locale) Tag() language.Tag {
	tag, err := language.Parse(string(l))
	if err != nil {
		return language.Und
	}
	return tag
}

// SelectorMode says how many locales a selector yields.
type SelectorMode uint8

const (
	SelectOne  SelectorMode = iota // a single locale
	SelectAll                      // every locale of a list
	SelectBest                     // first locale of a list with a value
)

// SelectorKind says where locales come from.
type SelectorKind uint8

const (
	SelExplicit SelectorKind = iota + 1
	SelCurrent
	SelList
)

// Selector is a parsed `ws` attribute.
type Selector struct {
	Kind   SelectorKind
	Mode   SelectorMode
	Locale Locale // SelExplicit
	List   string // SelList: "vernacular", "analysis", ...
}

func (s Selector) String() string {
	switch s.Kind {
	case SelExplicit:
		return string(s.Locale)
	case SelCurrent:
		return "current"
	case SelList:
		switch s.Mode {
		case SelectAll:
			return "all " + s.List
		case SelectBest:
			return "best " + s.List
		}
		return s.List
	}
	return "?"
}

// ParseSelector parses `ws` values:
//
//	en | fr-CA          explicit
//	current             locale of the enclosing multilingual loop
//	vernacular          first locale of a list
//	all vernacular      every locale of a list
//	best analysis       first locale of a list that has a value
func ParseSelector(raw string, lists func(string) bool) (Selector, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Selector{}, fmt.Errorf("empty locale selector")
	}
	if s == "current" {
		return Selector{Kind: SelCurrent}, nil
	}
	mode := SelectOne
	name := s
	if rest, ok := strings.CutPrefix(s, "all "); ok {
		mode, name = SelectAll, strings.TrimSpace(rest)
	} else if rest, ok := strings.CutPrefix(s, "best "); ok {
		mode, name = SelectBest, strings.TrimSpace(rest)
	}
	if lists != nil && lists(name) {
		return Selector{Kind: SelList, Mode: mode, List: name}, nil
	}
	if mode != SelectOne {
		return Selector{}, fmt.Errorf("unknown locale list %q", name)
	}
	loc, err := ParseLocale(name)
	if err != nil {
		return Selector{}, err
	}
	return Selector{Kind: SelExplicit, Locale: loc}, nil
}
