package interp

import (
	"viewspec/internal/model"
	"viewspec/internal/preload"
	"viewspec/internal/style"
	"viewspec/internal/trace"
)

// visit is one recorded (accumulator, fragment) pair. Each locale of a
// multilingual loop reads different values, so the loop locale is part of it.
type visit struct {
	need *preload.Info
	frag model.FragID
	loc  localeCtx
}

// recordEffect fills preload.Info instead of rendering. Relationships are
// followed for one representative item, bounded by MaxDepth and
// MaxVectorDepth; a relationship past a ceiling is recorded as a plain field
// read so the preloader still fetches the handles.
type recordEffect struct {
	in      *Interpreter
	seen    map[visit]struct{}
	skipped int
}

func newRecordEffect(in *Interpreter) *recordEffect {
	return &recordEffect{in: in, seen: make(map[visit]struct{})}
}

func (r *recordEffect) readInt(t *target, f model.FieldInfo) (int64, bool) {
	t.need.AddField(f.ID, "")
	return 0, false
}

func (r *recordEffect) readString(t *target, f model.FieldInfo, loc model.Locale) (string, bool) {
	if f.Kind != model.FieldLocaleString {
		loc = ""
	}
	t.need.AddField(f.ID, loc)
	return "", false
}

func (r *recordEffect) readHandle(t *target, f model.FieldInfo) (model.Handle, bool) {
	t.need.AddField(f.ID, "")
	return model.NoHandle, false
}

func (r *recordEffect) readCount(t *target, f model.FieldInfo) (int, bool) {
	t.need.AddField(f.ID, "")
	return 0, false
}

func (r *recordEffect) follow(t *target, f model.FieldInfo) (target, bool) {
	if f.Target == model.NoType || t.depth+1 > r.in.opts.MaxDepth {
		t.need.AddField(f.ID, "")
		return target{}, false
	}
	child := t.need.Child(f.ID, false, f.Target)
	return target{typ: f.Target, need: child, depth: t.depth + 1, vecDepth: t.vecDepth}, true
}

func (r *recordEffect) followAll(t *target, f model.FieldInfo) []target {
	if f.Target == model.NoType || t.depth+1 > r.in.opts.MaxDepth || t.vecDepth+1 > r.in.opts.MaxVectorDepth {
		t.need.AddField(f.ID, "")
		return nil
	}
	child := t.need.Child(f.ID, true, f.Target)
	return []target{{typ: f.Target, need: child, depth: t.depth + 1, vecDepth: t.vecDepth + 1}}
}

func (r *recordEffect) isA(t *target, f *model.FieldInfo, _ string) tri {
	if f != nil {
		t.need.AddField(f.ID, "")
	}
	return triUnknown
}

func (r *recordEffect) compute(*target, string, []string) (string, bool) { return "", false }

func (r *recordEffect) open(style.RegionKind, style.Props) {}

func (r *recordEffect) close(style.RegionKind) {}

func (r *recordEffect) text(model.Run) {}

func (r *recordEffect) recurse(w *walker, t target, frag model.FragID, inh inherit) error {
	key := visit{need: t.need, frag: frag, loc: inh.loc}
	if _, ok := r.seen[key]; ok {
		return nil
	}
	r.seen[key] = struct{}{}
	cmd, ok := r.in.table.Lookup(frag)
	if !ok {
		return nil
	}
	return w.execute(cmd, &t, inh)
}

func (r *recordEffect) recurseSeq(w *walker, _ *target, _ model.FieldInfo, items []target, frag model.FragID, inh inherit, _ bool) error {
	for _, it := range items {
		if err := r.recurse(w, it, frag, inh); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordEffect) fail(err error) error {
	r.skipped++
	trace.Point(r.in.opts.Tracer, trace.ScopeFragment, "analyze-skip", err.Error())
	return nil
}
