package memdb

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"viewspec/internal/diag"
	"viewspec/internal/model"
	"viewspec/internal/vecsort"
)

// schemaFile is the YAML schema:
//
//	types:
//	  - name: Entry
//	    super: Object
//	    fields:
//	      - {name: Form, kind: multistring}
//	      - {name: Senses, kind: refseq, target: Sense}
//	locales:
//	  vernacular: [fr, de]
//	  analysis: [en]
//	labels: {fr: Fr}
//	orderings:
//	  relations: {synonym: 0, antonym: 1, unspecified: 2}
type schemaFile struct {
	Types     []typeDef                 `yaml:"types"`
	Locales   map[string][]string       `yaml:"locales"`
	Labels    map[string]string         `yaml:"labels"`
	Orderings map[string]map[string]int `yaml:"orderings"`
}

type typeDef struct {
	Name   string     `yaml:"name"`
	Super  string     `yaml:"super"`
	Fields []fieldDef `yaml:"fields"`
}

type fieldDef struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	Custom bool   `yaml:"custom"`
}

// objectsFile is the YAML object graph. Field values follow the field kind:
// a number for int and ref, true/false for bool, a string, a locale map for
// multistring, a list of ids for refseq.
//
//	root: 1
//	objects:
//	  - id: 1
//	    type: Lexicon
//	    fields:
//	      Entries: [2]
//	  - id: 2
//	    type: Entry
//	    fields:
//	      Form: {fr: chat, en: cat}
type objectsFile struct {
	Root    uint64      `yaml:"root"`
	Objects []objectDef `yaml:"objects"`
}

type objectDef struct {
	ID     uint64               `yaml:"id"`
	Type   string               `yaml:"type"`
	Fields map[string]yaml.Node `yaml:"fields"`
}

func decodeStrict(r io.Reader, origin string, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &LoadError{Origin: origin, Code: diag.DataLoad, Err: err}
	}
	return nil
}

// ReadSchema loads types, locale lists and orderings.
func (db *DB) ReadSchema(r io.Reader, origin string) error {
	var f schemaFile
	if err := decodeStrict(r, origin, &f); err != nil {
		return err
	}
	bad := func(code diag.Code, err error) error {
		return &LoadError{Origin: origin, Code: code, Err: err}
	}

	// supertypes may be declared after their subtypes
	pending := f.Types
	for len(pending) > 0 {
		var next []typeDef
		for _, td := range pending {
			if td.Super != "" {
				if _, ok := db.Schema.TypeByName(td.Super); !ok {
					next = append(next, td)
					continue
				}
			}
			if _, err := db.Schema.AddType(td.Name, td.Super); err != nil {
				return bad(diag.DataBadField, err)
			}
		}
		if len(next) == len(pending) {
			return bad(diag.DataUnknownType, fmt.Errorf("type %q: unknown supertype %q", next[0].Name, next[0].Super))
		}
		pending = next
	}
	for _, td := range f.Types {
		owner, _ := db.Schema.TypeByName(td.Name)
		for _, fd := range td.Fields {
			kind, err := model.ParseFieldKind(fd.Kind)
			if err != nil {
				return bad(diag.DataBadField, fmt.Errorf("%s.%s: %w", td.Name, fd.Name, err))
			}
			if fd.Custom {
				_, err = db.Schema.AddCustomField(owner, fd.Name, kind)
			} else {
				_, err = db.Schema.AddField(owner, fd.Name, kind, fd.Target)
			}
			if err != nil {
				return bad(diag.DataBadField, err)
			}
		}
	}

	for name, tags := range f.Locales {
		locs := make([]model.Locale, 0, len(tags))
		for _, tag := range tags {
			loc, err := model.ParseLocale(tag)
			if err != nil {
				return bad(diag.DataLoad, fmt.Errorf("locale list %s: %w", name, err))
			}
			locs = append(locs, loc)
		}
		db.Locales.SetList(name, locs...)
	}
	for tag, label := range f.Labels {
		loc, err := model.ParseLocale(tag)
		if err != nil {
			return bad(diag.DataLoad, fmt.Errorf("label: %w", err))
		}
		db.Locales.SetLabel(loc, label)
	}
	for name, entries := range f.Orderings {
		db.Orders.Set(name, vecsort.NewOrder(entries))
	}
	return nil
}

// ReadObjects loads an object graph. The schema must be loaded first.
func (db *DB) ReadObjects(r io.Reader, origin string) error {
	var f objectsFile
	if err := decodeStrict(r, origin, &f); err != nil {
		return err
	}
	for _, od := range f.Objects {
		t, ok := db.Schema.TypeByName(od.Type)
		if !ok {
			return &LoadError{Origin: origin, Code: diag.DataUnknownType, Err: fmt.Errorf("object %d: unknown type %q", od.ID, od.Type)}
		}
		if err := db.Store.CreateWithHandle(model.Handle(od.ID), t); err != nil {
			return &LoadError{Origin: origin, Code: diag.DataLoad, Err: err}
		}
	}
	// values after every object exists so references can be checked
	for _, od := range f.Objects {
		h := model.Handle(od.ID)
		for name, node := range od.Fields {
			if err := db.setValue(h, name, &node); err != nil {
				return &LoadError{Origin: origin, Line: node.Line, Code: diag.DataBadField, Err: fmt.Errorf("object %d field %s: %w", od.ID, name, err)}
			}
		}
	}
	if f.Root != 0 {
		root := model.Handle(f.Root)
		if db.Store.TypeOf(root) == model.NoType {
			return &LoadError{Origin: origin, Code: diag.DataDanglingRef, Err: fmt.Errorf("root %d does not exist", f.Root)}
		}
		db.Root = root
	}
	return nil
}

func (db *DB) setValue(h model.Handle, name string, node *yaml.Node) error {
	id, ok := db.Schema.FieldID(db.Store.TypeOf(h), name)
	if !ok {
		return errors.New("no such field")
	}
	fi, _ := db.Schema.Field(id)
	switch fi.Kind {
	case model.FieldInt:
		var v int64
		if err := node.Decode(&v); err != nil {
			return err
		}
		return db.Store.SetInt(h, id, v)
	case model.FieldBool:
		var v bool
		if err := node.Decode(&v); err != nil {
			return err
		}
		var n int64
		if v {
			n = 1
		}
		return db.Store.SetInt(h, id, n)
	case model.FieldString:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		return db.Store.SetString(h, id, v)
	case model.FieldLocaleString:
		var v map[string]string
		if err := node.Decode(&v); err != nil {
			return err
		}
		for tag, s := range v {
			loc, err := model.ParseLocale(tag)
			if err != nil {
				return err
			}
			if err := db.Store.SetLocaleString(h, id, loc, s); err != nil {
				return err
			}
		}
		return nil
	case model.FieldRef:
		var v uint64
		if err := node.Decode(&v); err != nil {
			return err
		}
		if err := db.checkTarget(fi, model.Handle(v)); err != nil {
			return err
		}
		return db.Store.SetRef(h, id, model.Handle(v))
	case model.FieldRefSeq:
		var v []uint64
		if err := node.Decode(&v); err != nil {
			return err
		}
		hs := make([]model.Handle, len(v))
		for i, x := range v {
			hs[i] = model.Handle(x)
			if err := db.checkTarget(fi, hs[i]); err != nil {
				return err
			}
		}
		return db.Store.SetRefs(h, id, hs)
	}
	return fmt.Errorf("field kind %s cannot be loaded", fi.Kind)
}

func (db *DB) checkTarget(fi model.FieldInfo, h model.Handle) error {
	if h == model.NoHandle {
		return nil
	}
	t := db.Store.TypeOf(h)
	if t == model.NoType {
		return fmt.Errorf("dangling reference to %d", h)
	}
	if !db.Schema.IsA(t, db.Schema.TypeName(fi.Target)) {
		return fmt.Errorf("object %d is %s, want %s", h, db.Schema.TypeName(t), db.Schema.TypeName(fi.Target))
	}
	return nil
}

// Paths names the files Load reads.
type Paths struct {
	Schema  string
	Objects string
	Layouts []string
}

// Load builds a database from files.
func Load(p Paths) (*DB, error) {
	db := New()
	if err := db.readFile(p.Schema, db.ReadSchema); err != nil {
		return nil, err
	}
	if p.Objects != "" {
		if err := db.readFile(p.Objects, db.ReadObjects); err != nil {
			return nil, err
		}
	}
	for _, path := range p.Layouts {
		if err := db.Layouts.ReadFile(path); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *DB) readFile(path string, read func(io.Reader, string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Origin: path, Code: diag.IOLoadFileError, Err: err}
	}
	defer f.Close()
	return read(f, path)
}
