package spec

import "fmt"

// Kind is the closed vocabulary of specification nodes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindLayout
	KindString
	KindInt
	KindComputed
	KindCustom
	KindLit
	KindPara
	KindDiv
	KindSpan
	KindInnerPile
	KindTable
	KindRow
	KindCell
	KindIf
	KindIfNot
	KindChoice
	KindWhere
	KindOtherwise
	KindObj
	KindSeq
	KindSublayout
	KindPart
	KindMultiling

	kindCount
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindLayout:    "layout",
	KindString:    "string",
	KindInt:       "int",
	KindComputed:  "computed",
	KindCustom:    "custom",
	KindLit:       "lit",
	KindPara:      "para",
	KindDiv:       "div",
	KindSpan:      "span",
	KindInnerPile: "innerpile",
	KindTable:     "table",
	KindRow:       "row",
	KindCell:      "cell",
	KindIf:        "if",
	KindIfNot:     "ifnot",
	KindChoice:    "choice",
	KindWhere:     "where",
	KindOtherwise: "otherwise",
	KindObj:       "obj",
	KindSeq:       "seq",
	KindSublayout: "sublayout",
	KindPart:      "part",
	KindMultiling: "multiling",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if Kind(k) == KindInvalid {
			continue
		}
		m[name] = Kind(k)
	}
	return m
}()

// String returns the element name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps an element name onto its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindCount)-1)
	for k := KindLayout; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsContainer reports whether the kind opens a structural region.
func (k Kind) IsContainer() bool {
	switch k {
	case KindPara, KindDiv, KindSpan, KindInnerPile, KindTable, KindRow, KindCell:
		return true
	}
	return false
}

// IsConditional reports whether the kind selects children by predicate.
func (k Kind) IsConditional() bool {
	switch k {
	case KindIf, KindIfNot, KindChoice, KindWhere, KindOtherwise:
		return true
	}
	return false
}
