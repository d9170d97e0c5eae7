// Package interp is the view-specification interpreter.
//
// A specification tree is walked by one node-kind switch (walk.go). The switch
// never talks to the Object Store or the Rendering Surface directly; it goes
// through an effect. renderEffect reads real values, notes dependencies and
// writes to a surface. recordEffect reads nothing and records every field and
// relationship the switch would touch into a preload.Info tree. Display uses
// the first, the Analyze family the second, so the two cannot drift apart.
//
// An Interpreter is single-threaded: one instance per surface or worker.
package interp

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"viewspec/internal/fragment"
	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/style"
	"viewspec/internal/trace"
)

const (
	DefaultMaxDepth       = 4
	DefaultMaxVectorDepth = 2

	// maxNest bounds node nesting within one render, recursion included.
	maxNest = 256
)

// Options wires an interpreter to its collaborators.
type Options struct {
	Specs   model.SpecStore
	Fields  model.FieldMetadata
	Objects model.ObjectStore
	Locales model.LocaleService

	Computer model.Computer    // optional; computed nodes show nothing without it
	Orders   model.OrderSource // optional; typeOrder fails without it
	Catalog  catalog.Catalog   // optional literal translations

	// UILocale is the language of literals and the default collation.
	UILocale model.Locale

	// RootLayout drives fragment.Root; MainField is the collection shown by
	// fragment.MainSeq.
	RootLayout string
	MainField  string

	MaxDepth       int
	MaxVectorDepth int

	Tracer trace.Tracer
}

// Interpreter renders objects through specification trees.
type Interpreter struct {
	opts    Options
	table   *fragment.Table
	printer *message.Printer
	uiTag   language.Tag

	specVersion uint64
	active      int
	nest        int

	hasParams map[*spec.Node]bool
	bound     map[nodePair]*spec.Node
	unified   map[nodePair]*spec.Node
	props     map[*spec.Node]style.Props
	selectors map[*spec.Node]model.Selector
	lits      map[*spec.Node]string
	custom    customCache
}

type nodePair struct {
	a, b *spec.Node
}

// New creates an interpreter. Specs, Fields, Objects and Locales are required.
func New(opts Options) (*Interpreter, error) {
	if opts.Specs == nil || opts.Fields == nil || opts.Objects == nil || opts.Locales == nil {
		return nil, errors.New("interp: Specs, Fields, Objects and Locales are required")
	}
	if opts.RootLayout == "" {
		return nil, errors.New("interp: RootLayout is required")
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxVectorDepth <= 0 {
		opts.MaxVectorDepth = DefaultMaxVectorDepth
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	in := &Interpreter{
		opts:  opts,
		table: fragment.NewTable(opts.RootLayout),
		uiTag: language.English,
	}
	if opts.UILocale != "" {
		in.uiTag = opts.UILocale.Tag()
	}
	if opts.Catalog != nil {
		in.printer = message.NewPrinter(in.uiTag, message.Catalog(opts.Catalog))
	} else {
		in.printer = message.NewPrinter(in.uiTag)
	}
	in.clearCaches()
	in.specVersion = opts.Specs.Version()
	return in, nil
}

func (in *Interpreter) clearCaches() {
	in.hasParams = make(map[*spec.Node]bool)
	in.bound = make(map[nodePair]*spec.Node)
	in.unified = make(map[nodePair]*spec.Node)
	in.props = make(map[*spec.Node]style.Props)
	in.selectors = make(map[*spec.Node]model.Selector)
	in.lits = make(map[*spec.Node]string)
}

// Table exposes the fragment table, mostly for tests and the batch driver.
func (in *Interpreter) Table() *fragment.Table { return in.table }

// Fragment mints (or reuses) the fragment id for cmd.
func (in *Interpreter) Fragment(cmd fragment.Command) model.FragID {
	return in.table.GetOrCreate(cmd)
}

// Reset rebinds fragment.Root to layout and drops every memoised fragment
// together with the caches keyed on specification nodes.
func (in *Interpreter) Reset(layout string) {
	in.table.Reset(layout)
	in.clearCaches()
	in.specVersion = in.opts.Specs.Version()
}

// checkVersion resets the table when the stored layouts changed. Only done
// between top-level calls: ids held by an in-flight render must stay valid.
func (in *Interpreter) checkVersion() {
	if v := in.opts.Specs.Version(); v != in.specVersion {
		trace.Point(in.opts.Tracer, trace.ScopeFragment, "reset", fmt.Sprintf("spec version %d -> %d", in.specVersion, v))
		in.Reset(in.table.RootLayout())
	}
}

// Display renders obj with the command bound to frag. A zero handle renders
// nothing. A ConfigError aborts the call and is returned.
func (in *Interpreter) Display(s model.Surface, obj model.Handle, frag model.FragID) error {
	return in.display(s, obj, frag, inherit{})
}

func (in *Interpreter) display(s model.Surface, obj model.Handle, frag model.FragID, inh inherit) error {
	if obj == model.NoHandle {
		return nil
	}
	if in.active == 0 {
		in.checkVersion()
	}
	cmd, ok := in.table.Lookup(frag)
	if !ok {
		if in.table.Stale(frag) {
			return fmt.Errorf("%w: %d", ErrStaleFragment, frag)
		}
		cmd = in.table.Resolve(frag) // panics
	}
	in.active++
	defer func() { in.active-- }()

	sp := trace.Begin(in.opts.Tracer, trace.ScopeFragment, "display", 0)
	w := &walker{in: in, fx: &renderEffect{in: in, s: s}}
	t := target{obj: obj, typ: in.opts.Objects.TypeOf(obj)}
	err := w.execute(cmd, &t, inh)
	if in.opts.Tracer.Enabled() {
		sp.WithExtra("frag", fmt.Sprint(frag))
		if err != nil {
			sp.WithExtra("error", "true").WithExtra("cause", err.Error())
		}
		sp.End(cmd.String())
	}
	return err
}

// ProcessChildren renders the children of n for obj with caller as the
// calling context.
func (in *Interpreter) ProcessChildren(n *spec.Node, s model.Surface, obj model.Handle, caller *spec.Node) error {
	if obj == model.NoHandle || n == nil {
		return nil
	}
	if in.active == 0 {
		in.checkVersion()
	}
	in.active++
	defer func() { in.active-- }()
	w := &walker{in: in, fx: &renderEffect{in: in, s: s}}
	t := target{obj: obj, typ: in.opts.Objects.TypeOf(obj)}
	return w.processChildren(n, &t, frame{caller: caller})
}

// displayer carries the inherited frame state across a surface recursion.
type displayer struct {
	in  *Interpreter
	inh inherit
}

func (d displayer) Display(s model.Surface, obj model.Handle, frag model.FragID) error {
	return d.in.display(s, obj, frag, d.inh)
}
