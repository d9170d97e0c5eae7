package interp

import (
	"fmt"
	"strings"

	"viewspec/internal/model"
	"viewspec/internal/spec"
	"viewspec/internal/style"
)

// bind substitutes $name=default placeholders in n's attributes from the
// caller. The result is a new node, cached per (node, caller) so fragments
// minted for it stay stable; n itself is never touched.
func (in *Interpreter) bind(n, caller *spec.Node) (*spec.Node, error) {
	has, ok := in.hasParams[n]
	if !ok {
		for _, a := range n.Attrs {
			if strings.HasPrefix(a.Value, "$") {
				has = true
				break
			}
		}
		in.hasParams[n] = has
	}
	if !has {
		return n, nil
	}
	key := nodePair{n, caller}
	if b, ok := in.bound[key]; ok {
		return b, nil
	}
	b := n
	for _, a := range n.Attrs {
		name, def, ok := parseParam(a.Value)
		if !ok {
			continue
		}
		if name == "" {
			return nil, badValue(n, a.Key, fmt.Errorf("empty parameter name in %q", a.Value))
		}
		v, found := caller.Get(name)
		if !found {
			v = def
		}
		b = b.With(a.Key, v)
	}
	in.bound[key] = b
	return b, nil
}

// parseParam splits "$ws=analysis" into ("ws", "analysis").
func parseParam(v string) (name, def string, ok bool) {
	rest, ok := strings.CutPrefix(v, "$")
	if !ok {
		return "", "", false
	}
	name, def, _ = strings.Cut(rest, "=")
	return strings.TrimSpace(name), def, true
}

func (in *Interpreter) propsOf(n *spec.Node) (style.Props, error) {
	if ps, ok := in.props[n]; ok {
		return ps, nil
	}
	ps, err := style.FromNode(n)
	if err != nil {
		return nil, badValue(n, "style", err)
	}
	in.props[n] = ps
	return ps, nil
}

// selector parses the ws attribute of n; ok is false when there is none.
func (in *Interpreter) selector(n *spec.Node) (model.Selector, bool, error) {
	raw, has := n.Get("ws")
	if !has {
		return model.Selector{}, false, nil
	}
	if sel, ok := in.selectors[n]; ok {
		return sel, true, nil
	}
	sel, err := model.ParseSelector(raw, in.opts.Locales.HasList)
	if err != nil {
		return model.Selector{}, false, badValue(n, "ws", err)
	}
	in.selectors[n] = sel
	return sel, true, nil
}
