package interp

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"viewspec/internal/diag"
	"viewspec/internal/model"
	"viewspec/internal/spec"
)

// predicate evaluates the test attributes of if, ifnot and where. Every test
// present must hold. All tests are evaluated, even after one fails, so the
// recorded reads do not depend on evaluation order.
type predicate struct {
	w      *walker
	n      *spec.Node
	t      *target
	f      frame
	fi     *model.FieldInfo
	tests  int
	result tri
}

func (w *walker) eval(n *spec.Node, t *target, f frame) (tri, error) {
	p := &predicate{w: w, n: n, t: t, f: f, result: triTrue}
	if n.Has("field") {
		fi, err := w.field(n, t, "field")
		if err != nil {
			return triFalse, err
		}
		p.fi = &fi
	}
	steps := []func() error{p.is, p.hasValue, p.length, p.ints, p.boolEquals, p.stringEquals}
	for _, step := range steps {
		if err := step(); err != nil {
			return triFalse, err
		}
	}
	if p.tests == 0 {
		return triFalse, configErr(n, diag.CfgMissingAttr, "predicate has no test")
	}
	return p.result, nil
}

func (p *predicate) hold(r tri) {
	p.tests++
	switch r {
	case triFalse:
		p.result = triFalse
	case triUnknown:
		if p.result == triTrue {
			p.result = triUnknown
		}
	}
}

func check(known, ok bool) tri {
	switch {
	case !known:
		return triUnknown
	case ok:
		return triTrue
	}
	return triFalse
}

func (p *predicate) needField(attr string) (model.FieldInfo, error) {
	if p.fi == nil {
		return model.FieldInfo{}, configErr(p.n, diag.CfgMissingAttr, "%q needs a field", attr)
	}
	return *p.fi, nil
}

func (p *predicate) is() error {
	name, ok := p.n.Get("is")
	if !ok {
		return nil
	}
	if p.fi != nil && p.fi.Kind != model.FieldRef {
		return configErr(p.n, diag.CfgFieldKind, "\"is\" on field %s of kind %s", p.fi.Name, p.fi.Kind)
	}
	p.hold(p.w.fx.isA(p.t, p.fi, name))
	return nil
}

func (p *predicate) hasValue() error {
	raw, ok := p.n.Get("hasvalue")
	if !ok {
		return nil
	}
	want, err := strconv.ParseBool(raw)
	if err != nil {
		return badValue(p.n, "hasvalue", err)
	}
	fi, err := p.needField("hasvalue")
	if err != nil {
		return err
	}
	var has, known bool
	switch fi.Kind {
	case model.FieldInt, model.FieldBool:
		v, k := p.w.fx.readInt(p.t, fi)
		has, known = v != 0, k
	case model.FieldString, model.FieldLocaleString:
		v, k, err := p.readString(fi)
		if err != nil {
			return err
		}
		has, known = v != "", k
	case model.FieldRef:
		h, k := p.w.fx.readHandle(p.t, fi)
		has, known = h != model.NoHandle, k
	case model.FieldRefSeq:
		c, k := p.w.fx.readCount(p.t, fi)
		has, known = c > 0, k
	default:
		return configErr(p.n, diag.CfgFieldKind, "hasvalue on field %s of kind %s", fi.Name, fi.Kind)
	}
	p.hold(check(known, has == want))
	return nil
}

func (p *predicate) length() error {
	least, hasLeast := p.n.Get("lengthatleast")
	most, hasMost := p.n.Get("lengthatmost")
	if !hasLeast && !hasMost {
		return nil
	}
	fi, err := p.needField("length")
	if err != nil {
		return err
	}
	var n int
	var known bool
	switch fi.Kind {
	case model.FieldRefSeq:
		n, known = p.w.fx.readCount(p.t, fi)
	case model.FieldString, model.FieldLocaleString:
		v, k, err := p.readString(fi)
		if err != nil {
			return err
		}
		n, known = utf8.RuneCountInString(v), k
	default:
		return configErr(p.n, diag.CfgFieldKind, "length test on field %s of kind %s", fi.Name, fi.Kind)
	}
	if hasLeast {
		lim, err := strconv.Atoi(strings.TrimSpace(least))
		if err != nil {
			return badValue(p.n, "lengthatleast", err)
		}
		p.hold(check(known, n >= lim))
	}
	if hasMost {
		lim, err := strconv.Atoi(strings.TrimSpace(most))
		if err != nil {
			return badValue(p.n, "lengthatmost", err)
		}
		p.hold(check(known, n <= lim))
	}
	return nil
}

func (p *predicate) ints() error {
	attrs := []string{"intequals", "intgreaterthan", "intlessthan", "intmemberof"}
	present := false
	for _, a := range attrs {
		if p.n.Has(a) {
			present = true
			break
		}
	}
	if !present {
		return nil
	}
	fi, err := p.needField("int")
	if err != nil {
		return err
	}
	if fi.Kind != model.FieldInt && fi.Kind != model.FieldBool {
		return configErr(p.n, diag.CfgFieldKind, "int test on field %s of kind %s", fi.Name, fi.Kind)
	}
	v, known := p.w.fx.readInt(p.t, fi)
	for _, a := range attrs[:3] {
		want, ok, err := p.n.Int(a)
		if err != nil {
			return badValue(p.n, a, err)
		}
		if !ok {
			continue
		}
		switch a {
		case "intequals":
			p.hold(check(known, v == want))
		case "intgreaterthan":
			p.hold(check(known, v > want))
		case "intlessthan":
			p.hold(check(known, v < want))
		}
	}
	if raw, ok := p.n.Get("intmemberof"); ok {
		member := false
		for _, s := range strings.Split(raw, ",") {
			m, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return badValue(p.n, "intmemberof", err)
			}
			member = member || m == v
		}
		p.hold(check(known, member))
	}
	return nil
}

func (p *predicate) boolEquals() error {
	raw, ok := p.n.Get("boolequals")
	if !ok {
		return nil
	}
	want, err := strconv.ParseBool(raw)
	if err != nil {
		return badValue(p.n, "boolequals", err)
	}
	fi, err := p.needField("boolequals")
	if err != nil {
		return err
	}
	if fi.Kind != model.FieldInt && fi.Kind != model.FieldBool {
		return configErr(p.n, diag.CfgFieldKind, "boolequals on field %s of kind %s", fi.Name, fi.Kind)
	}
	v, known := p.w.fx.readInt(p.t, fi)
	p.hold(check(known, (v != 0) == want))
	return nil
}

func (p *predicate) stringEquals() error {
	want, ok := p.n.Get("stringequals")
	if !ok {
		return nil
	}
	fi, err := p.needField("stringequals")
	if err != nil {
		return err
	}
	if fi.Kind != model.FieldString && fi.Kind != model.FieldLocaleString {
		return configErr(p.n, diag.CfgFieldKind, "stringequals on field %s of kind %s", fi.Name, fi.Kind)
	}
	v, known, err := p.readString(fi)
	if err != nil {
		return err
	}
	p.hold(check(known, v == want))
	return nil
}

// readString reads one value; a locale-indexed field uses the first locale
// the ws selector yields.
func (p *predicate) readString(fi model.FieldInfo) (string, bool, error) {
	if fi.Kind == model.FieldString {
		v, k := p.w.fx.readString(p.t, fi, "")
		return v, k, nil
	}
	locs, _, err := p.w.localesFor(p.n, p.f, fi.ID)
	if err != nil {
		return "", false, err
	}
	if len(locs) == 0 {
		return "", true, nil
	}
	v, k := p.w.fx.readString(p.t, fi, locs[0])
	return v, k, nil
}

func (w *walker) cond(n *spec.Node, t *target, f frame) error {
	r, err := w.eval(n, t, f)
	if err != nil {
		return w.fx.fail(err)
	}
	want := triTrue
	if n.Kind == spec.KindIfNot {
		want = triFalse
	}
	if r == want || r == triUnknown {
		return w.processChildren(n, t, f)
	}
	return nil
}

// choice processes the first where whose predicate holds, else otherwise.
// With unknown predicates every branch is processed.
func (w *walker) choice(n *spec.Node, t *target, f frame) error {
	for _, c := range n.Children {
		c, err := w.in.bind(c, f.caller)
		if err != nil {
			return w.fx.fail(err)
		}
		switch c.Kind {
		case spec.KindWhere:
			r, err := w.eval(c, t, f)
			if err != nil {
				if err := w.fx.fail(err); err != nil {
					return err
				}
				continue
			}
			if r == triFalse {
				continue
			}
			if err := w.processChildren(c, t, f); err != nil {
				return err
			}
			if r == triTrue {
				return nil
			}
		case spec.KindOtherwise:
			return w.processChildren(c, t, f)
		default:
			if err := w.fx.fail(configErr(c, diag.CfgBadNesting, "<%s> inside <choice>", c.Kind)); err != nil {
				return err
			}
		}
	}
	return nil
}
