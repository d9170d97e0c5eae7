package interp

import (
	"viewspec/internal/diag"
	"viewspec/internal/fragment"
	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/style"
	"viewspec/internal/trace"
)

// layoutFor looks up layout name for typ, unified with the caller's children
// when it has any.
func (in *Interpreter) layoutFor(typ model.TypeID, name string, caller *spec.Node) (*spec.Node, error) {
	base := in.opts.Specs.GetSpecNode(typ, name, true)
	if base == nil {
		return nil, configErr(caller, diag.CfgUnknownLayout, "no layout %q for type %s", name, in.opts.Fields.TypeName(typ))
	}
	if caller != nil && len(caller.Children) > 0 {
		return in.unify(base, caller), nil
	}
	return base, nil
}

// unify is cached so the unified tree keeps one identity per pair.
func (in *Interpreter) unify(base, override *spec.Node) *spec.Node {
	key := nodePair{base, override}
	if u, ok := in.unified[key]; ok {
		return u
	}
	u := in.opts.Specs.Unify(base, override)
	in.unified[key] = u
	return u
}

func (w *walker) sublayout(n *spec.Node, t *target, f frame) error {
	body := n
	if name := n.Attr("name"); name != "" {
		base := w.in.opts.Specs.GetSpecNode(t.typ, name, true)
		if base == nil {
			return w.fx.fail(configErr(n, diag.CfgUnknownLayout, "no layout %q for type %s", name, w.in.opts.Fields.TypeName(t.typ)))
		}
		body = base
		f.caller = n
	}

	var region style.RegionKind
	switch group := n.Attr("group"); group {
	case "":
	case "para":
		if !f.inPara {
			region = style.RegionPara
		}
	case "innerpile":
		region = style.RegionInnerPile
	default:
		return w.fx.fail(configErr(n, diag.CfgBadValue, "unknown group %q", group))
	}
	if region == 0 {
		return w.processChildren(body, t, f)
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}
	w.fx.open(region, props)
	defer w.fx.close(region)
	f.inPara = region == style.RegionPara
	return w.processChildren(body, t, f)
}

// part includes a named layout for the object's type. The part node is the
// caller of the layout, so its attributes fill the layout's parameters, and
// its children override the layout's. A type without the part shows nothing.
func (w *walker) part(n *spec.Node, t *target, f frame) error {
	ref := n.Attr("ref")
	if ref == "" {
		return w.fx.fail(missingAttr(n, "ref"))
	}
	base := w.in.opts.Specs.GetSpecNode(t.typ, ref, true)
	if base == nil {
		trace.Point(w.in.opts.Tracer, trace.ScopeFragment, "part-missing", ref)
		return nil
	}
	body := base
	if len(n.Children) > 0 {
		body = w.in.unify(base, n)
	}
	f.caller = n
	return w.processChildren(body, t, f)
}

// multiling displays its children once per locale with the locale forced.
// Separators and labels are pending decorations, so a locale with nothing to
// show leaves no stray separator behind.
func (w *walker) multiling(n *spec.Node, t *target, f frame) error {
	sel, ok, err := w.in.selector(n)
	if err != nil {
		return w.fx.fail(err)
	}
	if !ok {
		return w.fx.fail(missingAttr(n, "ws"))
	}
	var locs []model.Locale
	switch sel.Kind {
	case model.SelExplicit:
		locs = []model.Locale{sel.Locale}
	case model.SelCurrent:
		if f.loc.current == "" {
			return w.fx.fail(configErr(n, diag.CfgNoCurrentLocale, "ws=\"current\" outside a multilingual loop"))
		}
		locs = []model.Locale{f.loc.current}
	default:
		locs = w.in.opts.Locales.Locales(sel.List, model.NoField)
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}

	sep := n.AttrOr("sep", " ")
	labels := n.Bool("showLabels", false)
	shown := false
	for _, loc := range locs {
		text := ""
		if shown {
			text = sep
		}
		if labels {
			text += w.in.opts.Locales.Label(loc) + " "
		}
		inh := f.pass(t)
		inh.deco = &decoration{text: text, props: props, outer: f.deco}
		frag := w.in.table.GetOrCreate(fragment.ForLocale(n, f.caller, loc))
		if err := w.fx.recurse(w, *t, frag, inh); err != nil {
			return err
		}
		shown = shown || inh.deco.used
	}
	return nil
}
