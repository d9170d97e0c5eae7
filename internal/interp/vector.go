package interp

import (
	"viewspec/internal/diag"
	"viewspec/internal/fragment"
	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/style"
	"viewspec/internal/vecsort"
)

// wholeUnitAttrs switch a seq from surface-driven iteration to the
// interpreter processing the collection itself.
var wholeUnitAttrs = []string{"sep", "number", "exclude", "firstOnly", "sort", "typeOrder"}

// childFrag is the fragment an obj or seq node displays its targets with.
func (w *walker) childFrag(n *spec.Node, f frame) (model.FragID, error) {
	if layout := n.Attr("layout"); layout != "" {
		return w.in.table.GetOrCreate(fragment.Layout(layout, n)), nil
	}
	if len(n.Children) == 0 {
		return fragment.None, missingAttr(n, "layout")
	}
	if f.caller == nil {
		return w.in.table.GetOrCreate(fragment.Node(n, true)), nil
	}
	return w.in.table.GetOrCreate(fragment.WithCaller(n, f.caller, true)), nil
}

func (w *walker) obj(n *spec.Node, t *target, f frame) error {
	fi, err := w.fieldOfKind(n, t, model.FieldRef)
	if err != nil {
		return w.fx.fail(err)
	}
	frag, err := w.childFrag(n, f)
	if err != nil {
		return w.fx.fail(err)
	}
	tt, ok := w.fx.follow(t, fi)
	if !ok {
		return nil
	}
	return w.fx.recurse(w, tt, frag, f.pass(t))
}

func (w *walker) seq(n *spec.Node, t *target, f frame) error {
	fi, err := w.fieldOfKind(n, t, model.FieldRefSeq)
	if err != nil {
		return w.fx.fail(err)
	}
	frag, err := w.childFrag(n, f)
	if err != nil {
		return w.fx.fail(err)
	}
	for _, a := range wholeUnitAttrs {
		if n.Has(a) {
			return w.seqWhole(n, t, f, fi, frag)
		}
	}

	items := w.fx.followAll(t, fi)
	inh := f.pass(t)
	if !n.Bool("merge", true) {
		for _, it := range items {
			if err := w.fx.recurse(w, it, frag, inh); err != nil {
				return err
			}
		}
		return nil
	}
	if len(items) == 0 {
		// present but empty
		w.fx.open(style.RegionSeq, nil)
		w.fx.close(style.RegionSeq)
		return nil
	}
	return w.fx.recurseSeq(w, t, fi, items, frag, inh, n.Bool("lazy", false))
}

// seqWhole filters, orders and decorates the collection itself.
func (w *walker) seqWhole(n *spec.Node, t *target, f frame, fi model.FieldInfo, frag model.FragID) error {
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}
	items := w.fx.followAll(t, fi)

	switch n.Attr("exclude") {
	case "":
	case "caller":
		items = excludeHandle(items, f.prev)
	default:
		return w.fx.fail(configErr(n, diag.CfgBadValue, "unknown exclude %q", n.Attr("exclude")))
	}

	if name := n.Attr("typeOrder"); name != "" {
		if items, err = w.orderByType(n, items, name); err != nil {
			return w.fx.fail(err)
		}
	}
	if key := n.Attr("sort"); key != "" {
		if items, err = w.sortByField(n, f, items, key); err != nil {
			return w.fx.fail(err)
		}
	}
	if n.Bool("firstOnly", false) && len(items) > 1 {
		items = items[:1]
	}

	w.fx.open(style.RegionSeq, nil)
	defer w.fx.close(style.RegionSeq)

	sep := n.Attr("sep")
	tmpl := n.Attr("number")
	delay := n.Bool("numdelay", false)
	for i, it := range items {
		if i > 0 && sep != "" {
			w.emit(f, model.Run{Text: sep, Props: props})
		}
		inh := f.pass(t)
		if tmpl != "" {
			num := formatNumber(tmpl, i+1)
			if delay {
				inh.deco = &decoration{text: num, props: props, outer: f.deco}
			} else {
				w.emit(f, model.Run{Text: num, Props: props})
			}
		}
		if err := w.fx.recurse(w, it, frag, inh); err != nil {
			return err
		}
	}
	return nil
}

func excludeHandle(items []target, h model.Handle) []target {
	if h == model.NoHandle {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if it.obj != h {
			out = append(out, it)
		}
	}
	return out
}

// orderByType applies a named semantic-type ordering. Item types are read
// from typeField; when any is unknown (recording) the items are kept as is.
func (w *walker) orderByType(n *spec.Node, items []target, name string) ([]target, error) {
	var ord vecsort.Order
	ok := false
	if src := w.in.opts.Orders; src != nil {
		ord, ok = src.Ordering(name)
	}
	if !ok {
		return nil, configErr(n, diag.CfgUnknownOrdering, "no type ordering %q", name)
	}
	typeField := n.Attr("typeField")
	if typeField == "" {
		return nil, missingAttr(n, "typeField")
	}
	keyed := make([]keyedTarget, len(items))
	allKnown := true
	for i := range items {
		fi, err := w.fieldNamed(n, items[i].typ, typeField)
		if err != nil {
			return nil, err
		}
		v, known := w.fx.readString(&items[i], fi, "")
		allKnown = allKnown && known
		keyed[i] = keyedTarget{t: items[i], key: v}
	}
	if !allKnown {
		return items, nil
	}
	kept := vecsort.Apply(keyed, func(k keyedTarget) (string, bool) { return k.key, k.key != "" }, ord)
	return unkey(kept), nil
}

type keyedTarget struct {
	t   target
	key string
}

func unkey(ks []keyedTarget) []target {
	out := make([]target, len(ks))
	for i, k := range ks {
		out[i] = k.t
	}
	return out
}

// sortByField orders items by a string field, collated for the ws locale of
// the seq or, without one, the interface locale.
func (w *walker) sortByField(n *spec.Node, f frame, items []target, key string) ([]target, error) {
	tag := w.in.uiTag
	loc := model.Locale("")
	if sel, ok, err := w.in.selector(n); err != nil {
		return nil, err
	} else if ok {
		switch {
		case sel.Kind == model.SelExplicit:
			loc = sel.Locale
		case sel.Kind == model.SelCurrent || f.loc.forced:
			loc = f.loc.current
		default:
			if all := w.in.opts.Locales.Locales(sel.List, model.NoField); len(all) > 0 {
				loc = all[0]
			}
		}
		if loc != "" {
			tag = loc.Tag()
		}
	}
	keyed := make([]keyedTarget, len(items))
	allKnown := true
	for i := range items {
		fi, err := w.fieldNamed(n, items[i].typ, key)
		if err != nil {
			return nil, err
		}
		if fi.Kind != model.FieldString && fi.Kind != model.FieldLocaleString {
			return nil, configErr(n, diag.CfgFieldKind, "sort field %s is %s", fi.Name, fi.Kind)
		}
		v, known := w.fx.readString(&items[i], fi, loc)
		allKnown = allKnown && known
		keyed[i] = keyedTarget{t: items[i], key: v}
	}
	if !allKnown {
		return items, nil
	}
	return unkey(vecsort.ByKey(keyed, func(k keyedTarget) string { return k.key }, tag)), nil
}
