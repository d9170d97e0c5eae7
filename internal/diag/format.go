package diag

import (
	"strings"
)

// FormatShort renders one line per diagnostic and note:
//
//	error CFG2001 layouts.xml:12 seq: missing attribute "field"
//	note CFG2001 layouts.xml:12 caused by: ...
//
// Newlines inside messages are folded so every entry stays on one line.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, line(d.Severity.Lower(), d.Code, d.Primary, d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, line("note", d.Code, n.Loc, n.Msg))
		}
	}
	return strings.Join(lines, "\n")
}

func line(kind string, code Code, loc Location, msg string) string {
	return kind + " " + code.ID() + " " + loc.String() + " " + strings.Join(strings.Fields(msg), " ")
}
