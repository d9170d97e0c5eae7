package interp

import (
	"viewspec/internal/model"
	"viewspec/internal/preload"
	"viewspec/internal/spec"
	"viewspec/internal/style"
)

// target is the object being displayed. When recording there is no object:
// only its type and the accumulator that collects its reads.
type target struct {
	obj model.Handle
	typ model.TypeID

	need     *preload.Info
	depth    int
	vecDepth int
}

type tableCtx uint8

const (
	noTable tableCtx = iota
	inTable
	inRow
	inCell
)

// decoration is text waiting for the first non-empty run of an item: a
// delayed ordinal or a multilingual separator. The pointer is shared by every
// frame of the item so that whichever child emits first consumes it.
// A decoration made inside an item that still has one pending chains to it;
// the outer text goes first.
type decoration struct {
	text  string
	props style.Props
	used  bool
	outer *decoration
}

// localeCtx is the locale-iteration context of a multilingual loop.
type localeCtx struct {
	current model.Locale
	forced  bool
}

// inherit is the part of a frame that survives recursion into another object.
type inherit struct {
	loc    localeCtx
	deco   *decoration
	prev   model.Handle // object the recursion came from
	inPara bool
	table  tableCtx
}

type frame struct {
	inherit
	caller *spec.Node
}

// pass builds the inherited state for a recursion from t.
func (f frame) pass(t *target) inherit {
	inh := f.inherit
	inh.prev = t.obj
	return inh
}
