package interp

import (
	"viewspec/internal/model"
	"viewspec/internal/style"
)

type renderEffect struct {
	in *Interpreter
	s  model.Surface
}

func (r *renderEffect) objects() model.ObjectStore { return r.in.opts.Objects }

func (r *renderEffect) readInt(t *target, f model.FieldInfo) (int64, bool) {
	r.s.NoteDependency(t.obj, f.ID, "")
	return r.objects().Int(t.obj, f.ID), true
}

func (r *renderEffect) readString(t *target, f model.FieldInfo, loc model.Locale) (string, bool) {
	r.s.NoteDependency(t.obj, f.ID, loc)
	if f.Kind == model.FieldLocaleString {
		return r.objects().LocaleString(t.obj, f.ID, loc), true
	}
	return r.objects().String(t.obj, f.ID), true
}

func (r *renderEffect) readHandle(t *target, f model.FieldInfo) (model.Handle, bool) {
	r.s.NoteDependency(t.obj, f.ID, "")
	return r.objects().Ref(t.obj, f.ID), true
}

func (r *renderEffect) readCount(t *target, f model.FieldInfo) (int, bool) {
	r.s.NoteDependency(t.obj, f.ID, "")
	return len(r.objects().Refs(t.obj, f.ID)), true
}

func (r *renderEffect) follow(t *target, f model.FieldInfo) (target, bool) {
	h, _ := r.readHandle(t, f)
	if h == model.NoHandle {
		return target{}, false
	}
	return target{obj: h, typ: r.objects().TypeOf(h)}, true
}

func (r *renderEffect) followAll(t *target, f model.FieldInfo) []target {
	r.s.NoteDependency(t.obj, f.ID, "")
	hs := r.objects().Refs(t.obj, f.ID)
	out := make([]target, 0, len(hs))
	for _, h := range hs {
		if h == model.NoHandle {
			continue
		}
		out = append(out, target{obj: h, typ: r.objects().TypeOf(h)})
	}
	return out
}

func (r *renderEffect) isA(t *target, f *model.FieldInfo, typeName string) tri {
	typ := t.typ
	if f != nil {
		h, _ := r.readHandle(t, *f)
		if h == model.NoHandle {
			return triFalse
		}
		typ = r.objects().TypeOf(h)
	}
	if r.in.opts.Fields.IsA(typ, typeName) {
		return triTrue
	}
	return triFalse
}

func (r *renderEffect) compute(t *target, method string, args []string) (string, bool) {
	if r.in.opts.Computer == nil {
		return "", false
	}
	return r.in.opts.Computer.Compute(t.obj, method, args)
}

func (r *renderEffect) open(k style.RegionKind, props style.Props) {
	r.s.OpenRegion(k)
	for _, p := range props {
		r.s.SetProperty(p.Prop, p.Value)
	}
}

func (r *renderEffect) close(k style.RegionKind) { r.s.CloseRegion(k) }

func (r *renderEffect) text(run model.Run) { r.s.AppendText(run) }

func (r *renderEffect) recurse(_ *walker, t target, frag model.FragID, inh inherit) error {
	return r.s.RecurseInto(t.obj, frag, displayer{in: r.in, inh: inh})
}

func (r *renderEffect) recurseSeq(_ *walker, owner *target, f model.FieldInfo, items []target, frag model.FragID, inh inherit, lazy bool) error {
	hs := make([]model.Handle, len(items))
	for i, it := range items {
		hs[i] = it.obj
	}
	return r.s.RecurseIntoSeq(owner.obj, f.ID, hs, frag, displayer{in: r.in, inh: inh}, lazy)
}

func (r *renderEffect) fail(err error) error { return err }
