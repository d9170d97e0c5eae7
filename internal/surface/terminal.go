package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"viewspec/internal/model"
	"viewspec/internal/style"
)

// TerminalOptions configures a Terminal surface.
type TerminalOptions struct {
	Width int  // wrap column; 0 disables wrapping
	Color bool // apply lipgloss styling
	// MaxLazy caps how many items of a lazy collection are displayed;
	// 0 displays everything.
	MaxLazy int
}

type termFrame struct {
	kind  style.RegionKind
	props style.Props
	cells int
}

// Terminal is a Rendering Surface that prints text. Block regions start on a
// new line, cells of a row are joined with " | ".
type Terminal struct {
	opts     TerminalOptions
	renderer *lipgloss.Renderer
	out      strings.Builder
	stack    []termFrame
	root     style.Props
	col      int
	pending  string
	deps     map[Dep]struct{}
	elided   int
}

// NewTerminal creates a terminal surface; output is buffered until Flush.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	t := &Terminal{opts: opts, deps: make(map[Dep]struct{})}
	if opts.Color {
		t.renderer = lipgloss.NewRenderer(w)
	}
	return t
}

func (t *Terminal) OpenRegion(kind style.RegionKind) {
	if kind == style.RegionCell && len(t.stack) > 0 {
		top := &t.stack[len(t.stack)-1]
		if top.kind == style.RegionRow {
			if top.cells > 0 {
				t.write(" | ", nil)
			}
			top.cells++
		}
	}
	if kind.IsBlock() {
		t.newline()
	}
	t.stack = append(t.stack, termFrame{kind: kind})
}

func (t *Terminal) CloseRegion(kind style.RegionKind) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].kind == kind {
			t.stack = t.stack[:i]
			break
		}
	}
	if kind.IsBlock() {
		t.newline()
	}
}

func (t *Terminal) SetProperty(p style.Prop, v style.Value) {
	s := style.Setting{Prop: p, Value: v}
	if n := len(t.stack); n > 0 {
		t.stack[n-1].props = append(t.stack[n-1].props, s)
		return
	}
	t.root = append(t.root, s)
}

func (t *Terminal) AppendText(run model.Run) {
	if run.Text == "" {
		return
	}
	props := t.root
	for _, f := range t.stack {
		props = props.Merge(f.props)
	}
	props = props.Merge(run.Props)
	for i, line := range strings.Split(run.Text, "\n") {
		if i > 0 {
			t.newline()
		}
		t.write(line, props)
	}
}

func (t *Terminal) RecurseInto(obj model.Handle, frag model.FragID, d model.Displayer) error {
	return d.Display(t, obj, frag)
}

func (t *Terminal) RecurseIntoSeq(owner model.Handle, field model.FieldID, items []model.Handle, frag model.FragID, d model.Displayer, lazy bool) error {
	shown := items
	if lazy && t.opts.MaxLazy > 0 && len(items) > t.opts.MaxLazy {
		shown = items[:t.opts.MaxLazy]
	}
	for _, it := range shown {
		if err := d.Display(t, it, frag); err != nil {
			return err
		}
	}
	if rest := len(items) - len(shown); rest > 0 {
		t.elided += rest
		t.newline()
		t.write(fmt.Sprintf("... %d more", rest), nil)
		t.newline()
	}
	return nil
}

func (t *Terminal) NoteDependency(obj model.Handle, field model.FieldID, loc model.Locale) {
	t.deps[Dep{Obj: obj, Field: field, Locale: loc}] = struct{}{}
}

// Dependencies is the number of distinct dependencies noted so far.
func (t *Terminal) Dependencies() int { return len(t.deps) }

// Elided counts lazy items that were not displayed.
func (t *Terminal) Elided() int { return t.elided }

// String returns everything written so far.
func (t *Terminal) String() string { return t.out.String() }

// Flush terminates the last line and writes the buffer to w.
func (t *Terminal) Flush(w io.Writer) error {
	t.newline()
	_, err := io.WriteString(w, t.out.String())
	t.out.Reset()
	return err
}

func (t *Terminal) newline() {
	t.pending = ""
	if t.col == 0 {
		return
	}
	t.out.WriteByte('\n')
	t.col = 0
}

// write appends text word by word. Trailing blanks are held back so that a
// line break never leaves them at the end of a line.
func (t *Terminal) write(text string, props style.Props) {
	for _, tok := range strings.SplitAfter(text, " ") {
		word := strings.TrimRight(tok, " ")
		blanks := tok[len(word):]
		if word != "" {
			w := runewidth.StringWidth(word)
			gap := runewidth.StringWidth(t.pending)
			if t.opts.Width > 0 && t.col > 0 && t.col+gap+w > t.opts.Width {
				t.newline()
			}
			if t.col > 0 {
				t.out.WriteString(t.pending)
				t.col += runewidth.StringWidth(t.pending)
			}
			t.pending = ""
			t.emit(word, props)
		}
		t.pending += blanks
	}
}

func (t *Terminal) emit(s string, props style.Props) {
	t.col += runewidth.StringWidth(s)
	if t.renderer == nil || len(props) == 0 {
		t.out.WriteString(s)
		return
	}
	t.out.WriteString(t.styleFor(props).Render(s))
}

func (t *Terminal) styleFor(props style.Props) lipgloss.Style {
	st := t.renderer.NewStyle()
	if v, ok := props.Get(style.PropBold); ok {
		st = st.Bold(v.Bool())
	}
	if v, ok := props.Get(style.PropItalic); ok {
		st = st.Italic(v.Bool())
	}
	if v, ok := props.Get(style.PropUnderline); ok {
		switch v.Int {
		case style.UnderlineNone:
		case style.UnderlineStrikethrough:
			st = st.Strikethrough(true)
		default:
			st = st.Underline(true)
		}
	}
	if v, ok := props.Get(style.PropForeColor); ok && v.Kind == style.ValColor {
		st = st.Foreground(lipgloss.Color(v.Color.Hex()))
	}
	if v, ok := props.Get(style.PropBackColor); ok && v.Kind == style.ValColor {
		st = st.Background(lipgloss.Color(v.Color.Hex()))
	}
	return st
}
