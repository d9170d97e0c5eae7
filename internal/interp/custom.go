package interp

import "viewspec/internal/model"

type customKey struct {
	typ  model.TypeID
	name string
}

type customEntry struct {
	info model.FieldInfo
	ok   bool
}

// customCache remembers custom-field resolutions, misses included. It is
// dropped whenever the metadata's custom version moves.
type customCache struct {
	version uint64
	valid   bool
	entries map[customKey]customEntry
}

func (in *Interpreter) customField(typ model.TypeID, name string) (model.FieldInfo, bool) {
	md := in.opts.Fields
	c := &in.custom
	if v := md.CustomVersion(); !c.valid || v != c.version {
		c.version, c.valid = v, true
		c.entries = make(map[customKey]customEntry)
	}
	key := customKey{typ: typ, name: name}
	if e, ok := c.entries[key]; ok {
		return e.info, e.ok
	}
	var e customEntry
	if id, ok := md.FieldID(typ, name); ok {
		e.info, e.ok = md.Field(id)
	}
	c.entries[key] = e
	return e.info, e.ok
}
