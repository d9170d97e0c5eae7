package memdb

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"viewspec/internal/model"
)

// Computations evaluates the named methods of computed nodes. Arguments
// are field names of the displayed object; a locale-indexed field takes the
// first locale of the "analysis" list unless an argument "ws:<tag>" follows.
//
//	upper  Field [ws:tag]     value in upper case
//	lower  Field [ws:tag]     value in lower case
//	title  Field [ws:tag]     value in title case
//	concat Field Field ...    non-empty values joined by a space
//	count  Field              size of a collection
//	type                      type name of the object
type Computations struct {
	schema  *Schema
	store   *Store
	locales *Locales
}

// NewComputations wires the computations to their data.
func NewComputations(schema *Schema, store *Store, locales *Locales) *Computations {
	return &Computations{schema: schema, store: store, locales: locales}
}

func (c *Computations) Compute(h model.Handle, method string, args []string) (string, bool) {
	switch method {
	case "upper", "lower", "title":
		if len(args) == 0 {
			return "", false
		}
		v, loc, ok := c.value(h, args[0], args[1:])
		if !ok {
			return "", false
		}
		tag := language.Und
		if loc != "" {
			tag = loc.Tag()
		}
		var caser cases.Caser
		switch method {
		case "upper":
			caser = cases.Upper(tag)
		case "lower":
			caser = cases.Lower(tag)
		default:
			caser = cases.Title(tag)
		}
		return caser.String(v), true
	case "concat":
		if len(args) == 0 {
			return "", false
		}
		parts := make([]string, 0, len(args))
		for _, a := range args {
			v, _, ok := c.value(h, a, nil)
			if !ok {
				return "", false
			}
			if v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, " "), true
	case "count":
		if len(args) != 1 {
			return "", false
		}
		fi, ok := c.field(h, args[0])
		if !ok || fi.Kind != model.FieldRefSeq {
			return "", false
		}
		return strconv.Itoa(len(c.store.Refs(h, fi.ID))), true
	case "type":
		t := c.store.TypeOf(h)
		if t == model.NoType {
			return "", false
		}
		return c.schema.TypeName(t), true
	}
	return "", false
}

func (c *Computations) field(h model.Handle, name string) (model.FieldInfo, bool) {
	id, ok := c.schema.FieldID(c.store.TypeOf(h), name)
	if !ok {
		return model.FieldInfo{}, false
	}
	return c.schema.Field(id)
}

// value reads a string-like field as text.
func (c *Computations) value(h model.Handle, name string, rest []string) (string, model.Locale, bool) {
	fi, ok := c.field(h, name)
	if !ok {
		return "", "", false
	}
	switch fi.Kind {
	case model.FieldString:
		return c.store.String(h, fi.ID), "", true
	case model.FieldInt, model.FieldBool:
		return strconv.FormatInt(c.store.Int(h, fi.ID), 10), "", true
	case model.FieldLocaleString:
		var loc model.Locale
		for _, a := range rest {
			if raw, ok := strings.CutPrefix(a, "ws:"); ok {
				l, err := model.ParseLocale(raw)
				if err != nil {
					return "", "", false
				}
				loc = l
			}
		}
		if loc == "" {
			if all := c.locales.Locales("analysis", fi.ID); len(all) > 0 {
				loc = all[0]
			}
		}
		return c.store.LocaleString(h, fi.ID, loc), loc, true
	}
	return "", "", false
}
