// Package surface holds Rendering Surface implementations: Recorder keeps
// every event for tests and dependency tracking, Terminal prints styled text.
package surface

import (
	"fmt"
	"strings"

	"viewspec/internal/model"
	"viewspec/internal/style"
)

// EventKind tags recorded surface calls.
type EventKind uint8

const (
	EvOpen EventKind = iota + 1
	EvClose
	EvText
	EvProp
	EvRecurse
	EvSeq
	EvSeqEnd
	EvDep
)

func (k EventKind) String() string {
	switch k {
	case EvOpen:
		return "open"
	case EvClose:
		return "close"
	case EvText:
		return "text"
	case EvProp:
		return "prop"
	case EvRecurse:
		return "recurse"
	case EvSeq:
		return "seq"
	case EvSeqEnd:
		return "seqend"
	case EvDep:
		return "dep"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is one recorded call.
type Event struct {
	Kind   EventKind
	Region style.RegionKind
	Run    model.Run
	Prop   style.Prop
	Value  style.Value
	Obj    model.Handle
	Field  model.FieldID
	Locale model.Locale
	Frag   model.FragID
	Items  []model.Handle
	Lazy   bool
}

// Dep is a noted dependency.
type Dep struct {
	Obj    model.Handle
	Field  model.FieldID
	Locale model.Locale
}

// Recorder is a surface that records every call and performs recursion
// eagerly. With SkipLazy set, lazy collections are recorded but not expanded.
type Recorder struct {
	Events   []Event
	SkipLazy bool

	stack      []style.RegionKind
	unbalanced int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) OpenRegion(kind style.RegionKind) {
	r.stack = append(r.stack, kind)
	r.Events = append(r.Events, Event{Kind: EvOpen, Region: kind})
}

func (r *Recorder) CloseRegion(kind style.RegionKind) {
	if n := len(r.stack); n == 0 || r.stack[n-1] != kind {
		r.unbalanced++
	} else {
		r.stack = r.stack[:n-1]
	}
	r.Events = append(r.Events, Event{Kind: EvClose, Region: kind})
}

func (r *Recorder) AppendText(run model.Run) {
	r.Events = append(r.Events, Event{Kind: EvText, Run: run, Locale: run.Locale})
}

func (r *Recorder) SetProperty(p style.Prop, v style.Value) {
	r.Events = append(r.Events, Event{Kind: EvProp, Prop: p, Value: v})
}

func (r *Recorder) RecurseInto(obj model.Handle, frag model.FragID, d model.Displayer) error {
	r.Events = append(r.Events, Event{Kind: EvRecurse, Obj: obj, Frag: frag})
	return d.Display(r, obj, frag)
}

func (r *Recorder) RecurseIntoSeq(owner model.Handle, field model.FieldID, items []model.Handle, frag model.FragID, d model.Displayer, lazy bool) error {
	r.Events = append(r.Events, Event{Kind: EvSeq, Obj: owner, Field: field, Items: append([]model.Handle(nil), items...), Frag: frag, Lazy: lazy})
	defer func() { r.Events = append(r.Events, Event{Kind: EvSeqEnd, Obj: owner, Field: field}) }()
	if lazy && r.SkipLazy {
		return nil
	}
	for _, it := range items {
		if err := d.Display(r, it, frag); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) NoteDependency(obj model.Handle, field model.FieldID, loc model.Locale) {
	r.Events = append(r.Events, Event{Kind: EvDep, Obj: obj, Field: field, Locale: loc})
}

// Balanced reports whether every opened region was closed in order.
func (r *Recorder) Balanced() bool { return r.unbalanced == 0 && len(r.stack) == 0 }

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
	r.stack = r.stack[:0]
	r.unbalanced = 0
}

// Text concatenates all text runs.
func (r *Recorder) Text() string {
	var b strings.Builder
	for _, ev := range r.Events {
		if ev.Kind == EvText {
			b.WriteString(ev.Run.Text)
		}
	}
	return b.String()
}

// Deps returns the set of noted dependencies.
func (r *Recorder) Deps() map[Dep]bool {
	out := make(map[Dep]bool)
	for _, ev := range r.Events {
		if ev.Kind == EvDep {
			out[Dep{Obj: ev.Obj, Field: ev.Field, Locale: ev.Locale}] = true
		}
	}
	return out
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Structure is a compact dump without dependencies, e.g.
// "<para>Form</para><seq>", convenient for assertions.
func (r *Recorder) Structure() string {
	var b strings.Builder
	for _, ev := range r.Events {
		switch ev.Kind {
		case EvOpen:
			fmt.Fprintf(&b, "<%s>", ev.Region)
		case EvClose:
			fmt.Fprintf(&b, "</%s>", ev.Region)
		case EvText:
			b.WriteString(ev.Run.Text)
		case EvSeq:
			b.WriteString("[")
		case EvSeqEnd:
			b.WriteString("]")
		}
	}
	return b.String()
}
