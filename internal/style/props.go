package style

import (
	"fmt"
	"strings"

	"viewspec/internal/spec"
)

// Setting is one property override.
type Setting struct {
	Prop  Prop
	Value Value
}

// Props is an ordered list of overrides; later settings win.
type Props []Setting

// Get returns the last value set for p.
func (ps Props) Get(p Prop) (Value, bool) {
	for i := len(ps) - 1; i >= 0; i-- {
		if ps[i].Prop == p {
			return ps[i].Value, true
		}
	}
	return Value{}, false
}

// Merge returns ps followed by more, without modifying either.
func (ps Props) Merge(more Props) Props {
	if len(more) == 0 {
		return ps
	}
	if len(ps) == 0 {
		return more
	}
	out := make(Props, 0, len(ps)+len(more))
	out = append(out, ps...)
	return append(out, more...)
}

func (ps Props) String() string {
	parts := make([]string, 0, len(ps))
	for _, s := range ps {
		parts = append(parts, s.Prop.String()+"="+s.Value.String())
	}
	return strings.Join(parts, " ")
}

// FromNode collects every vocabulary attribute of n. Attributes that are not
// properties are ignored; malformed property values are an error.
func FromNode(n *spec.Node) (Props, error) {
	var out Props
	for _, a := range n.Attrs {
		p, ok := Lookup(a.Key)
		if !ok {
			continue
		}
		v, err := p.Parse(a.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Setting{Prop: p, Value: v})
	}
	return out, nil
}

// RegionKind names the structural regions a surface can open.
type RegionKind uint8

const (
	RegionPara RegionKind = iota + 1
	RegionDiv
	RegionSpan
	RegionInnerPile
	RegionTable
	RegionRow
	RegionCell
	RegionSeq // a displayed collection, possibly empty
)

func (k RegionKind) String() string {
	switch k {
	case RegionPara:
		return "para"
	case RegionDiv:
		return "div"
	case RegionSpan:
		return "span"
	case RegionInnerPile:
		return "innerpile"
	case RegionTable:
		return "table"
	case RegionRow:
		return "row"
	case RegionCell:
		return "cell"
	case RegionSeq:
		return "seq"
	}
	return fmt.Sprintf("region(%d)", uint8(k))
}

// IsBlock reports whether the region starts on a new line.
func (k RegionKind) IsBlock() bool {
	switch k {
	case RegionPara, RegionDiv, RegionInnerPile, RegionTable, RegionRow:
		return true
	}
	return false
}

// RegionFor maps a container kind onto its region.
func RegionFor(k spec.Kind) (RegionKind, bool) {
	switch k {
	case spec.KindPara:
		return RegionPara, true
	case spec.KindDiv:
		return RegionDiv, true
	case spec.KindSpan:
		return RegionSpan, true
	case spec.KindInnerPile:
		return RegionInnerPile, true
	case spec.KindTable:
		return RegionTable, true
	case spec.KindRow:
		return RegionRow, true
	case spec.KindCell:
		return RegionCell, true
	}
	return 0, false
}
