package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "")
	render := tm.Begin("render")
	tm.EndItems(render, 4, "2 jobs")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].DurationMS != 2 || r.Phases[1].DurationMS != 2 {
		t.Fatalf("durations = %v, %v", r.Phases[0].DurationMS, r.Phases[1].DurationMS)
	}
	if r.TotalMS != 4 {
		t.Fatalf("total = %v, want 4", r.TotalMS)
	}
	if r.Phases[1].Items != 4 || r.Phases[1].Note != "2 jobs" {
		t.Fatalf("render phase = %+v", r.Phases[1])
	}

	s := tm.Summary()
	for _, want := range []string{"load", "render", "4 items, 0.500 ms/item", "// 2 jobs", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	boom := errors.New("boom")

	if err := tm.Measure("ok", func() error { return nil }); err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if err := tm.Measure("bad", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure err = %v, want boom", err)
	}
	r := tm.Report()
	if r.Phases[1].Note != "failed: boom" {
		t.Fatalf("note = %q", r.Phases[1].Note)
	}
}

func TestTimerEmpty(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
}
