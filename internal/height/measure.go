package height

import (
	"github.com/mattn/go-runewidth"

	"viewspec/internal/model"
	"viewspec/internal/style"
)

// MeasureSurface is a surrogate surface that only tracks the display width
// of each paragraph. Every block region starts a new paragraph.
type MeasureSurface struct {
	paras []int
	open  bool
}

func (m *MeasureSurface) OpenRegion(kind style.RegionKind) {
	if kind.IsBlock() {
		m.open = false
	}
}

func (m *MeasureSurface) CloseRegion(kind style.RegionKind) {
	if kind.IsBlock() {
		m.open = false
	}
}

func (m *MeasureSurface) AppendText(r model.Run) {
	if r.Text == "" {
		return
	}
	if !m.open {
		m.paras = append(m.paras, 0)
		m.open = true
	}
	m.paras[len(m.paras)-1] += runewidth.StringWidth(r.Text)
}

func (m *MeasureSurface) SetProperty(style.Prop, style.Value) {}

func (m *MeasureSurface) RecurseInto(obj model.Handle, frag model.FragID, d model.Displayer) error {
	return d.Display(m, obj, frag)
}

func (m *MeasureSurface) RecurseIntoSeq(_ model.Handle, _ model.FieldID, items []model.Handle, frag model.FragID, d model.Displayer, _ bool) error {
	for _, it := range items {
		if err := d.Display(m, it, frag); err != nil {
			return err
		}
	}
	return nil
}

func (m *MeasureSurface) NoteDependency(model.Handle, model.FieldID, model.Locale) {}

// Lines estimates wrapped lines at width: each paragraph takes
// width/avail + 1 lines.
func (m *MeasureSurface) Lines(avail int) int {
	if avail <= 0 {
		avail = 1
	}
	n := 0
	for _, w := range m.paras {
		n += w/avail + 1
	}
	return n
}

// Interpreted measures by displaying the fragment into a MeasureSurface.
type Interpreted struct {
	D          model.Displayer
	LineHeight int
}

func (in Interpreted) Measure(obj model.Handle, frag model.FragID, width int) (int, error) {
	var s MeasureSurface
	if err := in.D.Display(&s, obj, frag); err != nil {
		return 0, err
	}
	lh := in.LineHeight
	if lh <= 0 {
		lh = 1
	}
	return s.Lines(width) * lh, nil
}
