package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"viewspec/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>: <sev> <CODE>: <Message> [<node>]
// затем Notes с отступом.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	for _, d := range bag.Items() {
		loc := location(d.Primary, opts.PathMode, opts.BaseDir)
		sev := paint(severityColor(d.Severity), d.Severity.Lower())
		code := paint(color.New(color.Bold), d.Code.ID())
		fmt.Fprintf(w, "%s: %s %s: %s", loc, sev, code, d.Message)
		if d.Primary.Node != "" {
			fmt.Fprintf(w, " [%s]", d.Primary.Node)
		}
		fmt.Fprintln(w)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", paint(color.New(color.Faint), "note:"), n.Msg)
		}
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

func location(l diag.Location, mode PathMode, base string) string {
	s := formatPath(l.Origin, mode, base)
	if s == "" {
		s = "<spec>"
	}
	if l.Line > 0 {
		s += ":" + strconv.Itoa(l.Line)
	}
	return s
}
