package height

import (
	"errors"
	"testing"

	"viewspec/internal/model"
	"viewspec/internal/style"
)

func TestEstimatorSamplesPowersOfTwo(t *testing.T) {
	var measured []int
	call := 0
	m := MeasurerFunc(func(model.Handle, model.FragID, int) (int, error) {
		measured = append(measured, call)
		return 10 * len(measured), nil
	})
	e := NewEstimator(m)

	var got []int
	for call = 1; call <= 8; call++ {
		h, err := e.EstimateHeight(1, 1, 80)
		if err != nil {
			t.Fatalf("call %d: %v", call, err)
		}
		got = append(got, h)
	}
	want := []int{1, 2, 4, 8}
	if len(measured) != len(want) {
		t.Fatalf("measured on %v, want %v", measured, want)
	}
	for i := range want {
		if measured[i] != want[i] {
			t.Fatalf("measured on %v, want %v", measured, want)
		}
	}
	// samples 10, 20, 30, 40 -> running means 10, 15, 20, 25
	wantEst := []int{10, 15, 15, 20, 20, 20, 20, 25}
	for i := range wantEst {
		if got[i] != wantEst[i] {
			t.Fatalf("estimates = %v, want %v", got, wantEst)
		}
	}
}

func TestEstimatorResetsOnWidthChange(t *testing.T) {
	n := 0
	e := NewEstimator(MeasurerFunc(func(_ model.Handle, _ model.FragID, width int) (int, error) {
		n++
		return width, nil
	}))
	for i := 0; i < 3; i++ {
		if _, err := e.EstimateHeight(1, 1, 40); err != nil {
			t.Fatal(err)
		}
	}
	h, err := e.EstimateHeight(1, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if h != 100 || n != 3 {
		t.Fatalf("after width change: h=%d measurements=%d, want 100 and 3", h, n)
	}
}

func TestEstimatorKeepsEstimateOnError(t *testing.T) {
	fail := false
	e := NewEstimator(MeasurerFunc(func(model.Handle, model.FragID, int) (int, error) {
		if fail {
			return 0, errors.New("boom")
		}
		return 7, nil
	}))
	if h, _ := e.EstimateHeight(1, 1, 10); h != 7 {
		t.Fatalf("first estimate = %d, want 7", h)
	}
	fail = true
	h, err := e.EstimateHeight(1, 1, 10)
	if err == nil || h != 7 {
		t.Fatalf("got (%d, %v), want (7, error)", h, err)
	}
}

type paraDisplayer []string

func (d paraDisplayer) Display(s model.Surface, _ model.Handle, _ model.FragID) error {
	for _, p := range d {
		s.OpenRegion(style.RegionPara)
		s.AppendText(model.Run{Text: p})
		s.CloseRegion(style.RegionPara)
	}
	return nil
}

func TestInterpretedCountsWrappedLines(t *testing.T) {
	// 25 cells at width 10 -> 3 lines; 4 cells -> 1 line; wide runes count twice
	in := Interpreted{D: paraDisplayer{"aaaaaaaaaaaaaaaaaaaaaaaaa", "bbbb", "語語語語語語"}, LineHeight: 2}
	h, err := in.Measure(1, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if want := (3 + 1 + 2) * 2; h != want {
		t.Fatalf("height = %d, want %d", h, want)
	}
}
