package interp

import (
	"viewspec/internal/model"
	"viewspec/internal/style"
)

// tri is a predicate outcome. Recording has no values, so its predicates
// come out unknown and every branch is walked.
type tri uint8

const (
	triFalse tri = iota
	triTrue
	triUnknown
)

// effect is everything the walker does besides walking.
// Reads report known=false when there is no value to look at.
type effect interface {
	readInt(t *target, f model.FieldInfo) (v int64, known bool)
	readString(t *target, f model.FieldInfo, loc model.Locale) (v string, known bool)
	readHandle(t *target, f model.FieldInfo) (h model.Handle, known bool)
	readCount(t *target, f model.FieldInfo) (n int, known bool)

	// follow and followAll cross a relationship; the returned targets are
	// what recursion should be done on.
	follow(t *target, f model.FieldInfo) (target, bool)
	followAll(t *target, f model.FieldInfo) []target

	// isA tests the object, or the object f points at when f is not nil.
	isA(t *target, f *model.FieldInfo, typeName string) tri
	compute(t *target, method string, args []string) (string, bool)

	open(k style.RegionKind, props style.Props)
	close(k style.RegionKind)
	text(r model.Run)

	recurse(w *walker, t target, frag model.FragID, inh inherit) error
	recurseSeq(w *walker, owner *target, f model.FieldInfo, items []target, frag model.FragID, inh inherit, lazy bool) error

	// fail decides what a configuration error does: abort or carry on.
	fail(err error) error
}
