package style

import "fmt"

// Prop is one entry of the literal property vocabulary honoured by
// structural containers and literal runs.
type Prop uint8

const (
	PropInvalid Prop = iota
	PropFontFamily
	PropBold
	PropItalic
	PropSuperscript
	PropUnderline
	PropFontSize
	PropForeColor
	PropBackColor
	PropUnderlineColor
	PropAlign
	PropLeadingIndent
	PropTrailingIndent
	PropFirstIndent
	PropSpaceBefore
	PropSpaceAfter
	PropLineHeight
	PropBorderLeading
	PropBorderTrailing
	PropBorderTop
	PropBorderBottom
	PropPadLeading
	PropPadTrailing
	PropPadTop
	PropPadBottom
	PropRightToLeft
	PropEditable
	PropMaxLines

	propCount
)

type propDef struct {
	name  string
	parse func(string) (Value, error)
}

var propDefs = [...]propDef{
	PropInvalid:        {name: "invalid"},
	PropFontFamily:     {name: "fontfamily", parse: parseText},
	PropBold:           {name: "bold", parse: parseBool},
	PropItalic:         {name: "italic", parse: parseBool},
	PropSuperscript:    {name: "superscript", parse: enumParser(superscriptNames)},
	PropUnderline:      {name: "underline", parse: enumParser(underlineNames)},
	PropFontSize:       {name: "fontsize", parse: parseSize},
	PropForeColor:      {name: "forecolor", parse: parseColor},
	PropBackColor:      {name: "backcolor", parse: parseColor},
	PropUnderlineColor: {name: "underlinecolor", parse: parseColor},
	PropAlign:          {name: "align", parse: enumParser(alignNames)},
	PropLeadingIndent:  {name: "leadingindent", parse: parseLength},
	PropTrailingIndent: {name: "trailingindent", parse: parseLength},
	PropFirstIndent:    {name: "firstindent", parse: parseLength},
	PropSpaceBefore:    {name: "spacebefore", parse: parseLength},
	PropSpaceAfter:     {name: "spaceafter", parse: parseLength},
	PropLineHeight:     {name: "lineheight", parse: parseSize},
	PropBorderLeading:  {name: "borderleading", parse: parseLength},
	PropBorderTrailing: {name: "bordertrailing", parse: parseLength},
	PropBorderTop:      {name: "bordertop", parse: parseLength},
	PropBorderBottom:   {name: "borderbottom", parse: parseLength},
	PropPadLeading:     {name: "padleading", parse: parseLength},
	PropPadTrailing:    {name: "padtrailing", parse: parseLength},
	PropPadTop:         {name: "padtop", parse: parseLength},
	PropPadBottom:      {name: "padbottom", parse: parseLength},
	PropRightToLeft:    {name: "righttoleft", parse: parseBool},
	PropEditable:       {name: "editable", parse: enumParser(editableNames)},
	PropMaxLines:       {name: "maxlines", parse: parseCount},
}

var propByName = func() map[string]Prop {
	m := make(map[string]Prop, len(propDefs))
	for p := PropFontFamily; p < propCount; p++ {
		m[propDefs[p].name] = p
	}
	return m
}()

// String returns the attribute name of the property.
func (p Prop) String() string {
	if int(p) < len(propDefs) {
		return propDefs[p].name
	}
	return fmt.Sprintf("prop(%d)", uint8(p))
}

// Lookup maps an attribute name onto a property.
func Lookup(name string) (Prop, bool) {
	p, ok := propByName[name]
	return p, ok
}

// Parse converts the textual attribute value for p.
func (p Prop) Parse(raw string) (Value, error) {
	if p <= PropInvalid || p >= propCount {
		return Value{}, fmt.Errorf("unknown property %d", uint8(p))
	}
	v, err := propDefs[p].parse(raw)
	if err != nil {
		return Value{}, fmt.Errorf("%s=%q: %w", p, raw, err)
	}
	return v, nil
}

// Enumerated values.
const (
	UnderlineNone = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineDotted
	UnderlineDashed
	UnderlineSquiggle
	UnderlineStrikethrough
)

var underlineNames = map[string]int64{
	"none":          UnderlineNone,
	"single":        UnderlineSingle,
	"double":        UnderlineDouble,
	"dotted":        UnderlineDotted,
	"dashed":        UnderlineDashed,
	"squiggle":      UnderlineSquiggle,
	"strikethrough": UnderlineStrikethrough,
}

const (
	SuperscriptOff = iota
	SuperscriptSuper
	SuperscriptSub
)

var superscriptNames = map[string]int64{
	"off":   SuperscriptOff,
	"false": SuperscriptOff,
	"super": SuperscriptSuper,
	"true":  SuperscriptSuper,
	"sub":   SuperscriptSub,
}

const (
	AlignLeading = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignTrailing
	AlignJustify
)

var alignNames = map[string]int64{
	"leading":  AlignLeading,
	"left":     AlignLeft,
	"center":   AlignCenter,
	"right":    AlignRight,
	"trailing": AlignTrailing,
	"justify":  AlignJustify,
}

const (
	EditableNot = iota
	EditableSemi
	EditableFull
)

var editableNames = map[string]int64{
	"not":          EditableNot,
	"false":        EditableNot,
	"noteditable":  EditableNot,
	"semi":         EditableSemi,
	"semieditable": EditableSemi,
	"editable":     EditableFull,
	"true":         EditableFull,
}
