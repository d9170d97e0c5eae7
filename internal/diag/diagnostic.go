package diag

import "strconv"

// Location points at a specification node: where it was loaded from and a
// short description of the node itself.
type Location struct {
	Origin string
	Line   int
	Node   string
}

func (l Location) String() string {
	s := l.Origin
	if s == "" {
		s = "<spec>"
	}
	if l.Line > 0 {
		s += ":" + strconv.Itoa(l.Line)
	}
	return s
}

type Note struct {
	Loc Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}
