package interp

import (
	"strconv"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"viewspec/internal/diag"
	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/style"
)

func (w *walker) stringLeaf(n *spec.Node, t *target, f frame) error {
	fi, err := w.fieldOfKind(n, t, model.FieldString, model.FieldLocaleString)
	if err != nil {
		return w.fx.fail(err)
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}
	return w.showString(n, t, f, fi, props)
}

func (w *walker) showString(n *spec.Node, t *target, f frame, fi model.FieldInfo, props style.Props) error {
	if fi.Kind == model.FieldString {
		v, _ := w.fx.readString(t, fi, "")
		w.emit(f, model.Run{Text: v, Props: props})
		return nil
	}

	locs, best, err := w.localesFor(n, f, fi.ID)
	if err != nil {
		return w.fx.fail(err)
	}
	if best {
		for _, loc := range locs {
			if v, known := w.fx.readString(t, fi, loc); known && v != "" {
				w.emit(f, model.Run{Text: v, Locale: loc, Props: props})
				return nil
			}
		}
		return nil
	}
	if len(locs) == 1 {
		v, _ := w.fx.readString(t, fi, locs[0])
		w.emit(f, model.Run{Text: v, Locale: locs[0], Props: props})
		return nil
	}

	sep := n.AttrOr("sep", " ")
	labels := n.Bool("showLabels", false)
	first := true
	for _, loc := range locs {
		v, _ := w.fx.readString(t, fi, loc)
		if v == "" {
			continue
		}
		if !first {
			w.emit(f, model.Run{Text: sep, Props: props})
		}
		if labels {
			w.emit(f, model.Run{Text: w.in.opts.Locales.Label(loc) + " ", Props: props})
		}
		w.emit(f, model.Run{Text: v, Locale: loc, Props: props})
		first = false
	}
	return nil
}

// localesFor resolves the ws selector of n. best reports that only the first
// locale with a value should be shown.
func (w *walker) localesFor(n *spec.Node, f frame, field model.FieldID) (locs []model.Locale, best bool, err error) {
	sel, ok, err := w.in.selector(n)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		if f.loc.current == "" {
			return nil, false, missingAttr(n, "ws")
		}
		return []model.Locale{f.loc.current}, false, nil
	}
	switch sel.Kind {
	case model.SelExplicit:
		return []model.Locale{sel.Locale}, false, nil
	case model.SelCurrent:
		if f.loc.current == "" {
			return nil, false, configErr(n, diag.CfgNoCurrentLocale, "ws=\"current\" outside a multilingual loop")
		}
		return []model.Locale{f.loc.current}, false, nil
	}
	if f.loc.forced {
		return []model.Locale{f.loc.current}, false, nil
	}
	all := w.in.opts.Locales.Locales(sel.List, field)
	switch sel.Mode {
	case model.SelectAll:
		return all, false, nil
	case model.SelectBest:
		return all, true, nil
	}
	if len(all) == 0 {
		return nil, false, nil
	}
	return all[:1], false, nil
}

func (w *walker) intLeaf(n *spec.Node, t *target, f frame) error {
	fi, err := w.fieldOfKind(n, t, model.FieldInt, model.FieldBool)
	if err != nil {
		return w.fx.fail(err)
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}
	return w.showInt(n, t, f, fi, props)
}

func (w *walker) showInt(n *spec.Node, t *target, f frame, fi model.FieldInfo, props style.Props) error {
	v, known := w.fx.readInt(t, fi)
	if !known {
		return nil
	}
	if v == 0 && !n.Bool("showZero", false) {
		return nil
	}
	var text string
	switch n.Attr("format") {
	case "":
		text = strconv.FormatInt(v, 10)
	case "grouped":
		text = w.in.printer.Sprintf("%d", v)
	case "roman":
		text = roman(v, false)
	default:
		return w.fx.fail(configErr(n, diag.CfgBadValue, "unknown int format %q", n.Attr("format")))
	}
	w.emit(f, model.Run{Text: text, Props: props})
	return nil
}

// computed degrades to no output for an unknown method or bad arguments.
func (w *walker) computed(n *spec.Node, t *target, f frame) error {
	method := n.Attr("method")
	if method == "" {
		return w.fx.fail(missingAttr(n, "method"))
	}
	var args []string
	for _, a := range strings.Split(n.Attr("arg"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	v, ok := w.fx.compute(t, method, args)
	if !ok {
		return nil
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}
	w.emit(f, model.Run{Text: v, Props: props})
	return nil
}

// custom shows a field that may be registered at run time. A field that does
// not resolve, or that cannot be shown as text, shows nothing.
func (w *walker) custom(n *spec.Node, t *target, f frame) error {
	name := n.Attr("field")
	if name == "" {
		return w.fx.fail(missingAttr(n, "field"))
	}
	fi, ok := w.in.customField(t.typ, name)
	if !ok {
		return nil
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}
	switch fi.Kind {
	case model.FieldString:
		return w.showString(n, t, f, fi, props)
	case model.FieldLocaleString:
		if _, has := n.Get("ws"); !has && f.loc.current == "" {
			return nil
		}
		return w.showString(n, t, f, fi, props)
	case model.FieldInt, model.FieldBool:
		return w.showInt(n, t, f, fi, props)
	}
	return nil
}

func (w *walker) lit(n *spec.Node, f frame) error {
	if n.Text == "" {
		return nil
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}
	var loc model.Locale
	if raw := n.Attr("ws"); raw != "" {
		if loc, err = model.ParseLocale(raw); err != nil {
			return w.fx.fail(badValue(n, "ws", err))
		}
	}
	w.emit(f, model.Run{Text: w.in.literal(n), Locale: loc, Props: props})
	return nil
}

// literal translates n's text through the message catalog; untranslated
// text is shown as is.
func (in *Interpreter) literal(n *spec.Node) string {
	if s, ok := in.lits[n]; ok {
		return s
	}
	text := norm.NFC.String(n.Text)
	s := in.printer.Sprintf(message.Key(text, strings.ReplaceAll(text, "%", "%%")))
	in.lits[n] = s
	return s
}
