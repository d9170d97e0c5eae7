package spec

import (
	"strconv"
	"strings"
)

// Attr is a single node attribute. Order is preserved from the source.
type Attr struct {
	Key   string
	Value string
}

// Node is an immutable specification tree node.
// Memoisation uses pointer identity, never structural equality.
type Node struct {
	Kind     Kind
	Attrs    []Attr
	Children []*Node
	Text     string // character data, used by lit

	// Line is the 1-based source line, 0 for synthesized nodes.
	Line int
	// Origin names the source (file or layout) the node was loaded from.
	Origin string
}

// New builds a node. Used by tests and by code that synthesizes trees.
func New(kind Kind, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: kind, Attrs: attrs, Children: children}
}

// A is a shorthand for building attribute lists: A("field", "Form", "ws", "en").
func A(kv ...string) []Attr {
	if len(kv)%2 != 0 {
		panic("spec.A: odd number of arguments")
	}
	out := make([]Attr, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		out = append(out, Attr{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

// Get returns the attribute value and whether it is present.
func (n *Node) Get(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns the attribute value or "".
func (n *Node) Attr(key string) string {
	v, _ := n.Get(key)
	return v
}

// AttrOr returns the attribute value or def when absent.
func (n *Node) AttrOr(key, def string) string {
	if v, ok := n.Get(key); ok {
		return v
	}
	return def
}

// Has reports whether the attribute is present.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Bool parses a boolean attribute. Absent or malformed values yield def.
func (n *Node) Bool(key string, def bool) bool {
	v, ok := n.Get(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	}
	return def
}

// Int parses an integer attribute.
func (n *Node) Int(key string) (int64, bool, error) {
	v, ok := n.Get(key)
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, true, err
	}
	return i, true, nil
}

// With returns a copy of n with key set to value. Children are shared.
func (n *Node) With(key, value string) *Node {
	cp := n.shallow()
	for i := range cp.Attrs {
		if cp.Attrs[i].Key == key {
			cp.Attrs[i].Value = value
			return cp
		}
	}
	cp.Attrs = append(cp.Attrs, Attr{Key: key, Value: value})
	return cp
}

// WithChildren returns a copy of n with the given children.
func (n *Node) WithChildren(children []*Node) *Node {
	cp := n.shallow()
	cp.Children = children
	return cp
}

func (n *Node) shallow() *Node {
	cp := *n
	cp.Attrs = append([]Attr(nil), n.Attrs...)
	return &cp
}

// Walk visits n and its descendants depth-first, stopping a branch when fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Where describes the node for error messages: "seq field=Senses (entries.xml:12)".
func (n *Node) Where() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(n.Kind.String())
	for _, key := range []string{"name", "ref", "field", "method"} {
		if v, ok := n.Get(key); ok {
			b.WriteString(" ")
			b.WriteString(key)
			b.WriteString("=")
			b.WriteString(v)
			break
		}
	}
	if n.Origin != "" || n.Line > 0 {
		b.WriteString(" (")
		b.WriteString(n.Origin)
		if n.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(n.Line))
		}
		b.WriteString(")")
	}
	return b.String()
}
