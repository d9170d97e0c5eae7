package spec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
	"unicode"

	"viewspec/internal/diag"
)

// Parse reads a single specification tree from XML.
// Element names must belong to the closed vocabulary; the root may also be
// a <layouts> wrapper, in which case ParseLayouts should be used instead.
func Parse(r io.Reader, origin string) (*Node, error) {
	roots, err := parse(r, origin, false)
	if err != nil {
		return nil, err
	}
	if len(roots) != 1 {
		return nil, syntaxErr(origin, 0, diag.SpecSyntax, "expected one root element, got %d", len(roots))
	}
	return roots[0], nil
}

// ParseString is Parse over an in-memory document.
func ParseString(doc string) (*Node, error) {
	return Parse(strings.NewReader(doc), "<string>")
}

// ParseLayouts reads a <layouts> document and returns its layout children.
func ParseLayouts(r io.Reader, origin string) ([]*Node, error) {
	return parse(r, origin, true)
}

// ParseLayoutsFile is ParseLayouts over a file on disk.
func ParseLayoutsFile(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLayouts(bytes.NewReader(data), path)
}

type lineCounter struct {
	data []byte
}

func (lc lineCounter) lineAt(offset int64) int {
	if offset > int64(len(lc.data)) {
		offset = int64(len(lc.data))
	}
	return bytes.Count(lc.data[:offset], []byte("\n")) + 1
}

func parse(r io.Reader, origin string, wrapped bool) ([]*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lc := lineCounter{data: data}
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack   []*Node
		roots   []*Node
		inWrap  bool
		sawWrap bool
	)
	for {
		offset := decoder.InputOffset()
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SyntaxError{Origin: origin, Line: lc.lineAt(offset), Code: diag.SpecSyntax, Msg: "malformed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if wrapped && len(stack) == 0 && !inWrap {
				if name != "layouts" {
					return nil, syntaxErr(origin, lc.lineAt(offset), diag.SpecSyntax, "expected <layouts> root, got <%s>", name)
				}
				inWrap, sawWrap = true, true
				continue
			}
			kind, ok := ParseKind(name)
			if !ok {
				return nil, syntaxErr(origin, lc.lineAt(offset), diag.SpecUnknownElement, "unknown element <%s>", name)
			}
			n := &Node{
				Kind:   kind,
				Attrs:  convertAttrs(t.Attr),
				Line:   lc.lineAt(offset),
				Origin: origin,
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else {
				roots = append(roots, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				if inWrap && t.Name.Local == "layouts" {
					inWrap = false
				}
				continue
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if !isBlank(string(t)) {
					return nil, syntaxErr(origin, lc.lineAt(offset), diag.SpecUnexpectedText, "unexpected character data outside an element")
				}
				continue
			}
			top := stack[len(stack)-1]
			if top.Kind == KindLit {
				top.Text += string(t)
			} else if !isBlank(string(t)) {
				return nil, syntaxErr(origin, top.Line, diag.SpecUnexpectedText, "<%s> does not take text content", top.Kind)
			}
		}
	}
	if wrapped && !sawWrap {
		return nil, syntaxErr(origin, 0, diag.SpecSyntax, "missing <layouts> root")
	}
	for _, root := range roots {
		root.Walk(func(n *Node) bool {
			// только отступы между тегами
			if n.Kind == KindLit && isBlank(n.Text) && strings.ContainsAny(n.Text, "\r\n") {
				n.Text = ""
			}
			return true
		})
	}
	return roots, nil
}

func convertAttrs(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(in))
	for _, a := range in {
		out = append(out, Attr{Key: a.Name.Local, Value: a.Value})
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
