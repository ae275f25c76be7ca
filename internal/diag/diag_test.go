package diag

import (
	"testing"

	"loom/internal/source"
)

func TestBagLimitAndCounts(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	r.Report(PluginArity, SevError, source.Span{}, "a", nil)
	r.Report(LinkDanglingEdge, SevWarning, source.Span{}, "b", nil)
	r.Report(PluginShape, SevError, source.Span{}, "c", nil)

	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d, want 2/1", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings")
	}
	if got := bag.Count(SevError); got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
}

func TestBagUnlimited(t *testing.T) {
	bag := NewBag(0)
	for range 100 {
		bag.Add(New(SevInfo, LinkMainSynthesize, source.Span{}, "x"))
	}
	if bag.Len() != 100 {
		t.Fatalf("len = %d, want 100", bag.Len())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevWarning, LinkDanglingEdge, source.At(2, 1, 1), "late file"))
	bag.Add(New(SevInfo, LinkMainSynthesize, source.At(1, 3, 1), "line 3"))
	bag.Add(New(SevWarning, PluginShape, source.At(1, 1, 5), "same pos warn"))
	bag.Add(New(SevError, PluginArity, source.At(1, 1, 5), "same pos err"))
	bag.Sort()

	want := []string{"same pos err", "same pos warn", "line 3", "late file"}
	for i, d := range bag.Items() {
		if d.Message != want[i] {
			t.Fatalf("item %d = %q, want %q", i, d.Message, want[i])
		}
	}
}

func TestBagMergeAndDedup(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(PluginArity, source.At(1, 1, 1), "x"))
	b := NewBag(0)
	b.Add(NewError(PluginArity, source.At(1, 1, 1), "x again"))
	b.Add(NewError(PluginShape, source.At(1, 1, 1), "y"))

	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("merged len = %d, want 3", a.Len())
	}
	a.Dedup()
	if a.Len() != 2 {
		t.Fatalf("dedup len = %d, want 2", a.Len())
	}
	a.Filter(func(d *Diagnostic) bool { return d.Code == PluginShape })
	if a.Len() != 1 || a.Items()[0].Message != "y" {
		t.Fatalf("filter kept %+v", a.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.At(1, 2, 3)
	r.Report(PluginArity, SevError, sp, "same", nil)
	r.Report(PluginArity, SevError, sp, "same", nil)
	r.Report(PluginArity, SevError, sp, "other", nil)
	r.Report(PluginArity, SevWarning, sp, "same", nil)
	if bag.Len() != 3 || r.Suppressed() != 1 {
		t.Fatalf("len = %d, suppressed = %d, want 3 and 1", bag.Len(), r.Suppressed())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	counter := &CountingReporter{Next: BagReporter{Bag: bag}}
	b := ReportError(counter, PluginResolution, source.At(1, 4, 2), "cannot resolve").
		WithNote(source.At(1, 1, 1), "declared here")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 || counter.Errors != 1 || counter.Total != 1 {
		t.Fatalf("len=%d errors=%d total=%d", bag.Len(), counter.Errors, counter.Total)
	}
	if notes := bag.Items()[0].Notes; len(notes) != 1 || notes[0].Msg != "declared here" {
		t.Fatalf("notes = %+v", notes)
	}
	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(source.Span{}, "x").Emit()
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		FeedBadNode:         "FED1001",
		LinkDanglingEdge:    "LNK2001",
		PluginUnknownAction: "PLG3004",
		IOLoadFileError:     "IO4001",
		UnknownCode:         "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
	if Code(9999).Title() != UnknownCode.Title() {
		t.Errorf("unknown codes should fall back to the generic title")
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	main := fs.Register("src/main.c", source.FileMain)
	hdr := fs.Register("include/util.h", 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     PluginArity,
			Message:  "first line\nsecond",
			Primary:  source.At(main, 3, 7),
			Notes:    []Note{{Span: source.At(hdr, 1, 1), Msg: "note line"}},
		},
		{
			Severity: SevWarning,
			Code:     LinkDanglingEdge,
			Message:  "another",
			Primary:  source.At(main, 1, 1),
		},
	}

	expected := "note PLG3001 include/util.h:1:1 note line\n" +
		"warning LNK2001 src/main.c:1:1 another\n" +
		"error PLG3001 src/main.c:3:7 first line second"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
