package diag

import (
	"errors"
	"fmt"
	"testing"
)

type codedErr struct {
	loc   Location
	cause error
}

func (e *codedErr) Error() string          { return "seq: missing attribute \"field\"" }
func (e *codedErr) Unwrap() error          { return e.cause }
func (e *codedErr) DiagCode() Code         { return CfgMissingAttr }
func (e *codedErr) DiagLocation() Location { return e.loc }

func TestFromErrorUsesCodeAndLocation(t *testing.T) {
	err := fmt.Errorf("display root: %w", &codedErr{
		loc:   Location{Origin: "layouts.xml", Line: 12, Node: "seq"},
		cause: errors.New("boom"),
	})
	d := FromError(err)
	if d.Code != CfgMissingAttr {
		t.Fatalf("code = %v, want %v", d.Code, CfgMissingAttr)
	}
	if d.Primary.String() != "layouts.xml:12" {
		t.Fatalf("location = %q", d.Primary.String())
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "caused by: boom" {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
	if FromError(errors.New("plain")).Code != UnknownCode {
		t.Fatalf("plain errors must map to UnknownCode")
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	b.Add(NewError(CfgBadNesting, Location{Origin: "b.xml", Line: 2}, "row outside table"))
	b.Add(NewError(CfgMissingAttr, Location{Origin: "a.xml", Line: 9}, "missing"))
	b.Add(NewError(CfgMissingAttr, Location{Origin: "a.xml", Line: 9}, "missing"))
	if b.Add(NewError(CfgMissingAttr, Location{}, "over")) {
		t.Fatalf("bag must respect its limit")
	}
	b.Sort()
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if b.Items()[0].Primary.Origin != "a.xml" {
		t.Fatalf("sort order: %+v", b.Items())
	}
	if !b.HasErrors() {
		t.Fatalf("HasErrors = false")
	}
}

func TestFormatShort(t *testing.T) {
	diags := []Diagnostic{
		NewError(CfgMissingAttr, Location{Origin: "layouts.xml", Line: 12}, "first line\nsecond").
			WithNote(Location{Origin: "layouts.xml", Line: 3}, "note line"),
		New(SevWarning, DataDanglingRef, Location{Origin: "objects.yaml"}, "another"),
	}
	expected := "error CFG2001 layouts.xml:12 first line second\n" +
		"note CFG2001 layouts.xml:3 note line\n" +
		"warning DAT3004 objects.yaml another"
	if got := FormatShort(diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, CfgUnknownLayout, Location{Origin: "x.xml", Line: 1}, "no layout").Emit()
	}
	if bag.Len() != 1 || r.Suppressed() != 2 {
		t.Fatalf("len=%d suppressed=%d", bag.Len(), r.Suppressed())
	}
}
