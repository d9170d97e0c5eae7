// Package preload holds the Needed-Property-Info tree produced by the
// dependency analyzer, and runs it against an object store before bulk
// rendering.
package preload

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"viewspec/internal/model"
)

// FieldUse is one scalar or locale-indexed field read.
type FieldUse struct {
	Field  model.FieldID `msgpack:"f"`
	Locale model.Locale  `msgpack:"l,omitempty"`
}

// Child is a followed relationship.
type Child struct {
	Field model.FieldID `msgpack:"f"`
	Many  bool          `msgpack:"m,omitempty"`
	Info  *Info         `msgpack:"i"`
}

// Info records what is needed for objects of one type at one point of the
// specification tree.
type Info struct {
	Type     model.TypeID `msgpack:"t"`
	Fields   []FieldUse   `msgpack:"fs,omitempty"`
	Children []*Child     `msgpack:"cs,omitempty"`

	seen map[FieldUse]struct{}
}

// NewInfo creates an empty accumulator for objects of type t.
func NewInfo(t model.TypeID) *Info {
	return &Info{Type: t}
}

// AddField records a field read; it reports false for a duplicate.
func (i *Info) AddField(f model.FieldID, loc model.Locale) bool {
	if i.seen == nil {
		i.seen = make(map[FieldUse]struct{}, len(i.Fields)+4)
		for _, u := range i.Fields {
			i.seen[u] = struct{}{}
		}
	}
	u := FieldUse{Field: f, Locale: loc}
	if _, dup := i.seen[u]; dup {
		return false
	}
	i.seen[u] = struct{}{}
	i.Fields = append(i.Fields, u)
	return true
}

// HasField reports whether (f, loc) was recorded.
func (i *Info) HasField(f model.FieldID, loc model.Locale) bool {
	for _, u := range i.Fields {
		if u.Field == f && u.Locale == loc {
			return true
		}
	}
	return false
}

// Child returns the nested accumulator for relationship f, creating it on
// first use. Repeated follows of the same relationship share one node.
func (i *Info) Child(f model.FieldID, many bool, target model.TypeID) *Info {
	for _, c := range i.Children {
		if c.Field == f {
			if many {
				c.Many = true
			}
			return c.Info
		}
	}
	c := &Child{Field: f, Many: many, Info: NewInfo(target)}
	i.Children = append(i.Children, c)
	return c.Info
}

// Lookup returns the nested accumulator for f, if any.
func (i *Info) Lookup(f model.FieldID) (*Child, bool) {
	for _, c := range i.Children {
		if c.Field == f {
			return c, true
		}
	}
	return nil, false
}

// Depth is the relationship nesting depth (0 for a leaf-only node).
func (i *Info) Depth() int {
	if i == nil {
		return 0
	}
	d := 0
	for _, c := range i.Children {
		if cd := 1 + c.Info.Depth(); cd > d {
			d = cd
		}
	}
	return d
}

// VectorDepth is the maximum number of to-many relationships on any path.
func (i *Info) VectorDepth() int {
	if i == nil {
		return 0
	}
	d := 0
	for _, c := range i.Children {
		cd := c.Info.VectorDepth()
		if c.Many {
			cd++
		}
		if cd > d {
			d = cd
		}
	}
	return d
}

// Size counts recorded fields and relationships in the whole tree.
func (i *Info) Size() (fields, rels int) {
	if i == nil {
		return 0, 0
	}
	fields = len(i.Fields)
	for _, c := range i.Children {
		f, r := c.Info.Size()
		fields += f
		rels += r + 1
	}
	return fields, rels
}

// FieldSet returns every field id read at this level, relationships included.
func (i *Info) FieldSet() map[model.FieldID]bool {
	out := make(map[model.FieldID]bool, len(i.Fields)+len(i.Children))
	for _, u := range i.Fields {
		out[u.Field] = true
	}
	for _, c := range i.Children {
		out[c.Field] = true
	}
	return out
}

// Format renders the tree with field names resolved by name.
func (i *Info) Format(name func(model.FieldID) string) string {
	var b strings.Builder
	i.format(&b, name, 0)
	return b.String()
}

func (i *Info) format(b *strings.Builder, name func(model.FieldID) string, indent int) {
	pad := strings.Repeat("  ", indent)
	fields := make([]string, 0, len(i.Fields))
	for _, u := range i.Fields {
		s := name(u.Field)
		if u.Locale != "" {
			s += "[" + string(u.Locale) + "]"
		}
		fields = append(fields, s)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(b, "%s%s\n", pad, f)
	}
	for _, c := range i.Children {
		arrow := "->"
		if c.Many {
			arrow = "=>"
		}
		fmt.Fprintf(b, "%s%s %s\n", pad, arrow, name(c.Field))
		c.Info.format(b, name, indent+1)
	}
}

// Encode writes the plan as msgpack.
func Encode(w io.Writer, i *Info) error {
	return msgpack.NewEncoder(w).Encode(i)
}

// Decode reads a plan written by Encode.
func Decode(r io.Reader) (*Info, error) {
	var out Info
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode preload plan: %w", err)
	}
	return &out, nil
}
