package fragment

import (
	"fmt"

	"viewspec/internal/model"
	"viewspec/internal/spec"
)

// CommandKind tags the Display Command variants.
type CommandKind uint8

const (
	// CmdNode displays Node (or only its children).
	CmdNode CommandKind = iota + 1
	// CmdLayout looks up the named Layout for the displayed object's type
	// and displays its children, with Caller as the calling context.
	CmdLayout
	// CmdCaller re-enters Node with an overriding Caller.
	CmdCaller
	// CmdLocale displays the children of a multilingual loop with Locale forced.
	CmdLocale
	// CmdMainSeq displays the configured main collection lazily.
	CmdMainSeq
)

func (k CommandKind) String() string {
	switch k {
	case CmdNode:
		return "node"
	case CmdLayout:
		return "layout"
	case CmdCaller:
		return "caller"
	case CmdLocale:
		return "locale"
	case CmdMainSeq:
		return "mainseq"
	}
	return fmt.Sprintf("cmd(%d)", uint8(k))
}

// Command is bound to exactly one fragment id. It is a comparable value and
// is used directly as the memo key: two commands are the same fragment iff
// every field is equal (node and caller compared by identity).
type Command struct {
	Kind         CommandKind
	Node         *spec.Node
	Caller       *spec.Node
	Layout       string
	ChildrenOnly bool
	Locale       model.Locale
}

// Node builds a CmdNode command.
func Node(n *spec.Node, childrenOnly bool) Command {
	return Command{Kind: CmdNode, Node: n, ChildrenOnly: childrenOnly}
}

// Layout builds a CmdLayout command.
func Layout(name string, caller *spec.Node) Command {
	return Command{Kind: CmdLayout, Layout: name, Caller: caller}
}

// WithCaller builds a CmdCaller command.
func WithCaller(n, caller *spec.Node, childrenOnly bool) Command {
	return Command{Kind: CmdCaller, Node: n, Caller: caller, ChildrenOnly: childrenOnly}
}

// ForLocale builds a CmdLocale command.
func ForLocale(n, caller *spec.Node, loc model.Locale) Command {
	return Command{Kind: CmdLocale, Node: n, Caller: caller, ChildrenOnly: true, Locale: loc}
}

func (c Command) String() string {
	s := c.Kind.String()
	if c.Node != nil {
		s += " " + c.Node.Where()
	}
	if c.Layout != "" {
		s += " layout=" + c.Layout
	}
	if c.Caller != nil {
		s += " caller=" + c.Caller.Kind.String()
	}
	if c.ChildrenOnly {
		s += " children"
	}
	if c.Locale != "" {
		s += " ws=" + string(c.Locale)
	}
	return s
}
