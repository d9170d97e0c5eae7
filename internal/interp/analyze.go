package interp

import (
	"fmt"

	"viewspec/internal/fragment"
	"viewspec/internal/model"
	"viewspec/internal/preload"
	"viewspec/internal/spec"
	"viewspec/internal/trace"
)

// Analyze records into acc what displaying n (called from caller) reads for
// an object of type typ. It never fails: configuration errors and panics
// inside the walk only make the plan less complete.
func (in *Interpreter) Analyze(n, caller *spec.Node, typ model.TypeID, acc *preload.Info) {
	if n == nil || acc == nil {
		return
	}
	in.analyze(typ, acc, "node", func(w *walker, t *target) error {
		return w.process(n, t, frame{caller: caller})
	})
}

// AnalyzeFragment builds the plan for displaying an object of type typ with
// frag. An unknown fragment yields an empty plan.
func (in *Interpreter) AnalyzeFragment(typ model.TypeID, frag model.FragID) *preload.Info {
	acc := preload.NewInfo(typ)
	cmd, ok := in.table.Lookup(frag)
	if !ok {
		return acc
	}
	in.analyze(typ, acc, cmd.String(), func(w *walker, t *target) error {
		return w.execute(cmd, t, inherit{})
	})
	return acc
}

// AnalyzeLayout builds the plan for the named layout of typ.
func (in *Interpreter) AnalyzeLayout(typ model.TypeID, layout string) *preload.Info {
	acc := preload.NewInfo(typ)
	cmd := fragment.Layout(layout, nil)
	in.analyze(typ, acc, cmd.String(), func(w *walker, t *target) error {
		return w.execute(cmd, t, inherit{})
	})
	return acc
}

func (in *Interpreter) analyze(typ model.TypeID, acc *preload.Info, what string, run func(*walker, *target) error) {
	if in.active == 0 {
		in.checkVersion()
	}
	in.active++
	defer func() { in.active-- }()

	fx := newRecordEffect(in)
	w := &walker{in: in, fx: fx}
	t := target{typ: typ, need: acc}
	sp := trace.Begin(in.opts.Tracer, trace.ScopeFragment, "analyze", 0)
	defer func() {
		if r := recover(); r != nil {
			trace.Point(in.opts.Tracer, trace.ScopeFragment, "analyze-panic", fmt.Sprint(r))
		}
		fields, rels := acc.Size()
		sp.WithExtra("skipped", fmt.Sprint(fx.skipped)).
			WithExtra("fields", fmt.Sprint(fields)).
			WithExtra("rels", fmt.Sprint(rels)).
			End(what)
	}()
	if err := run(w, &t); err != nil {
		trace.Point(in.opts.Tracer, trace.ScopeFragment, "analyze-skip", err.Error())
	}
}
