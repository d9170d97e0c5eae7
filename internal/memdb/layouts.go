package memdb

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"viewspec/internal/diag"
	"viewspec/internal/model"
	"viewspec/internal/spec"
)

// DefaultLayout is tried, with fallback on, after the requested layout
// failed for a type and every supertype.
const DefaultLayout = "default"

type layoutKey struct {
	class string
	name  string
}

// Layouts is the Specification Store: <layout class=".." name=".."> trees
// keyed by class and name.
type Layouts struct {
	schema *Schema

	mu      sync.RWMutex
	byKey   map[layoutKey]*spec.Node
	version atomic.Uint64
}

// NewLayouts creates an empty store resolving classes through schema.
func NewLayouts(schema *Schema) *Layouts {
	return &Layouts{schema: schema, byKey: make(map[layoutKey]*spec.Node)}
}

// Add registers layouts. A layout replaces an existing one with the same
// class and name; every call bumps the version.
func (l *Layouts) Add(nodes ...*spec.Node) error {
	for _, n := range nodes {
		if n.Kind != spec.KindLayout {
			return &LoadError{Origin: n.Origin, Line: n.Line, Code: diag.SpecUnknownElement, Err: fmt.Errorf("<%s> where <layout> expected", n.Kind)}
		}
		class, name := n.Attr("class"), n.Attr("name")
		if class == "" || name == "" {
			return &LoadError{Origin: n.Origin, Line: n.Line, Code: diag.CfgMissingAttr, Err: fmt.Errorf("layout needs class and name")}
		}
		if _, ok := l.schema.TypeByName(class); !ok {
			return &LoadError{Origin: n.Origin, Line: n.Line, Code: diag.DataUnknownType, Err: fmt.Errorf("layout %q: unknown class %q", name, class)}
		}
	}
	l.mu.Lock()
	for _, n := range nodes {
		l.byKey[layoutKey{class: n.Attr("class"), name: n.Attr("name")}] = n
	}
	l.mu.Unlock()
	l.version.Add(1)
	return nil
}

// Read parses a <layouts> document and adds its layouts.
func (l *Layouts) Read(r io.Reader, origin string) error {
	nodes, err := spec.ParseLayouts(r, origin)
	if err != nil {
		return err
	}
	return l.Add(nodes...)
}

// ReadFile parses a layouts file and adds its layouts.
func (l *Layouts) ReadFile(path string) error {
	nodes, err := spec.ParseLayoutsFile(path)
	if err != nil {
		return err
	}
	return l.Add(nodes...)
}

// Len is the number of stored layouts.
func (l *Layouts) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byKey)
}

// Names lists the stored (class, name) pairs as "class/name".
func (l *Layouts) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.byKey))
	for k := range l.byKey {
		out = append(out, k.class+"/"+k.name)
	}
	return out
}

func (l *Layouts) GetSpecNode(t model.TypeID, layout string, fallback bool) *spec.Node {
	chain := []model.TypeID{t}
	if fallback {
		chain = l.schema.Supertypes(t)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, name := range []string{layout, DefaultLayout} {
		for _, tt := range chain {
			if n := l.byKey[layoutKey{class: l.schema.TypeName(tt), name: name}]; n != nil {
				return n
			}
		}
		if !fallback || layout == DefaultLayout {
			break
		}
	}
	return nil
}

func (l *Layouts) Version() uint64 { return l.version.Load() }

// Unify overlays the children of override onto base. An override child
// replaces the base child of the same kind and key (name, ref or field);
// children without a counterpart are appended. Neither tree is modified.
func (l *Layouts) Unify(base, override *spec.Node) *spec.Node {
	if override == nil || len(override.Children) == 0 {
		return base
	}
	children := make([]*spec.Node, len(base.Children))
	copy(children, base.Children)
	for _, o := range override.Children {
		replaced := false
		if k, ok := unifyKey(o); ok {
			for i, c := range children {
				if ck, ok := unifyKey(c); ok && ck == k {
					children[i] = o
					replaced = true
					break
				}
			}
		}
		if !replaced {
			children = append(children, o)
		}
	}
	return base.WithChildren(children)
}

type nodeKey struct {
	kind       spec.Kind
	attr, name string
}

func unifyKey(n *spec.Node) (nodeKey, bool) {
	for _, attr := range []string{"name", "ref", "field"} {
		if v, ok := n.Get(attr); ok {
			return nodeKey{kind: n.Kind, attr: attr, name: v}, true
		}
	}
	return nodeKey{}, false
}
