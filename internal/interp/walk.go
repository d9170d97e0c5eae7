package interp

import (
	"fmt"

	"viewspec/internal/diag"
	"viewspec/internal/fragment"
	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/style"
)

type walker struct {
	in *Interpreter
	fx effect
}

// execute runs a Display Command against t.
func (w *walker) execute(cmd fragment.Command, t *target, inh inherit) error {
	f := frame{inherit: inh}
	switch cmd.Kind {
	case fragment.CmdNode:
		return w.run(cmd.Node, t, f, cmd.ChildrenOnly)
	case fragment.CmdCaller:
		f.caller = cmd.Caller
		return w.run(cmd.Node, t, f, cmd.ChildrenOnly)
	case fragment.CmdLocale:
		f.caller = cmd.Caller
		f.loc = localeCtx{current: cmd.Locale, forced: true}
		return w.processChildren(cmd.Node, t, f)
	case fragment.CmdLayout:
		node, err := w.in.layoutFor(t.typ, cmd.Layout, cmd.Caller)
		if err != nil {
			return w.fx.fail(err)
		}
		f.caller = cmd.Caller
		return w.processChildren(node, t, f)
	case fragment.CmdMainSeq:
		return w.mainSeq(t, f)
	}
	panic(fmt.Sprintf("interp: unhandled command kind %v", cmd.Kind))
}

func (w *walker) run(n *spec.Node, t *target, f frame, childrenOnly bool) error {
	if childrenOnly {
		return w.processChildren(n, t, f)
	}
	return w.process(n, t, f)
}

func (w *walker) processChildren(n *spec.Node, t *target, f frame) error {
	for _, c := range n.Children {
		if err := w.process(c, t, f); err != nil {
			return err
		}
	}
	return nil
}

// process is the node-kind switch.
func (w *walker) process(n *spec.Node, t *target, f frame) error {
	if w.in.nest >= maxNest {
		return w.fx.fail(configErr(n, diag.CfgRecursion, "nesting deeper than %d", maxNest))
	}
	w.in.nest++
	defer func() { w.in.nest-- }()

	n, err := w.in.bind(n, f.caller)
	if err != nil {
		return w.fx.fail(err)
	}
	switch n.Kind {
	case spec.KindLayout:
		return w.processChildren(n, t, f)
	case spec.KindString:
		return w.stringLeaf(n, t, f)
	case spec.KindInt:
		return w.intLeaf(n, t, f)
	case spec.KindComputed:
		return w.computed(n, t, f)
	case spec.KindCustom:
		return w.custom(n, t, f)
	case spec.KindLit:
		return w.lit(n, f)
	case spec.KindPara, spec.KindDiv, spec.KindSpan, spec.KindInnerPile,
		spec.KindTable, spec.KindRow, spec.KindCell:
		return w.container(n, t, f)
	case spec.KindIf, spec.KindIfNot:
		return w.cond(n, t, f)
	case spec.KindChoice:
		return w.choice(n, t, f)
	case spec.KindWhere, spec.KindOtherwise:
		return w.fx.fail(configErr(n, diag.CfgBadNesting, "<%s> outside <choice>", n.Kind))
	case spec.KindObj:
		return w.obj(n, t, f)
	case spec.KindSeq:
		return w.seq(n, t, f)
	case spec.KindSublayout:
		return w.sublayout(n, t, f)
	case spec.KindPart:
		return w.part(n, t, f)
	case spec.KindMultiling:
		return w.multiling(n, t, f)
	}
	return w.fx.fail(configErr(n, diag.CfgUnhandledKind, "unhandled node kind"))
}

func (w *walker) container(n *spec.Node, t *target, f frame) error {
	kind, _ := style.RegionFor(n.Kind)
	switch n.Kind {
	case spec.KindRow:
		if f.table != inTable {
			return w.fx.fail(configErr(n, diag.CfgBadNesting, "<row> outside <table>"))
		}
	case spec.KindCell:
		if f.table != inRow {
			return w.fx.fail(configErr(n, diag.CfgBadNesting, "<cell> outside <row>"))
		}
	}
	props, err := w.in.propsOf(n)
	if err != nil {
		return w.fx.fail(err)
	}

	w.fx.open(kind, props)
	defer w.fx.close(kind)

	switch n.Kind {
	case spec.KindPara:
		f.inPara = true
	case spec.KindDiv, spec.KindInnerPile:
		f.inPara = false
	case spec.KindTable:
		f.table = inTable
	case spec.KindRow:
		f.table = inRow
	case spec.KindCell:
		f.table = inCell
	}
	return w.processChildren(n, t, f)
}

// emit appends a run, splicing in a pending decoration first.
func (w *walker) emit(f frame, r model.Run) {
	if r.Text == "" {
		return
	}
	w.flush(f.deco)
	w.fx.text(r)
}

func (w *walker) flush(d *decoration) {
	if d == nil || d.used {
		return
	}
	d.used = true
	w.flush(d.outer)
	if d.text != "" {
		w.fx.text(model.Run{Text: d.text, Props: d.props})
	}
}

// field resolves the field named by attr on t's type.
func (w *walker) field(n *spec.Node, t *target, attr string) (model.FieldInfo, error) {
	name := n.Attr(attr)
	if name == "" {
		return model.FieldInfo{}, missingAttr(n, attr)
	}
	return w.fieldNamed(n, t.typ, name)
}

func (w *walker) fieldNamed(n *spec.Node, typ model.TypeID, name string) (model.FieldInfo, error) {
	md := w.in.opts.Fields
	id, ok := md.FieldID(typ, name)
	if !ok {
		return model.FieldInfo{}, configErr(n, diag.CfgUnknownField, "type %s has no field %q", md.TypeName(typ), name)
	}
	info, ok := md.Field(id)
	if !ok {
		return model.FieldInfo{}, configErr(n, diag.CfgUnknownField, "field %q has no metadata", name)
	}
	return info, nil
}

func (w *walker) fieldOfKind(n *spec.Node, t *target, kinds ...model.FieldKind) (model.FieldInfo, error) {
	fi, err := w.field(n, t, "field")
	if err != nil {
		return fi, err
	}
	for _, k := range kinds {
		if fi.Kind == k {
			return fi, nil
		}
	}
	return fi, configErr(n, diag.CfgFieldKind, "field %s is %s", fi.Name, fi.Kind)
}

func (w *walker) mainSeq(t *target, f frame) error {
	name := w.in.opts.MainField
	if name == "" {
		return w.fx.fail(configErr(nil, diag.CfgMissingAttr, "no main field configured"))
	}
	fi, err := w.fieldNamed(nil, t.typ, name)
	if err != nil {
		return w.fx.fail(err)
	}
	if fi.Kind != model.FieldRefSeq {
		return w.fx.fail(configErr(nil, diag.CfgFieldKind, "main field %s is %s", fi.Name, fi.Kind))
	}
	items := w.fx.followAll(t, fi)
	return w.fx.recurseSeq(w, t, fi, items, fragment.Root, f.pass(t), true)
}
