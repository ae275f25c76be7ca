package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"loom/internal/diag"
	"loom/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Register("src/main.c", source.FileMain)
	fs.SetContent(id, []byte("int x;\nint héllo = 1;\n"))
	hdr := fs.Register("include/util.h", 0)

	bag := diag.NewBag(0)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.PluginArity, source.Span{
		File:  id,
		Start: source.Pos{Line: 2, Col: 5},
		End:   source.Pos{Line: 2, Col: 10},
	}, "bad arity").WithNote(source.At(hdr, 3, 1), "declared here").Emit()
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})

	want := "src/main.c:2:5: error PLG3001: bad arity\n" +
		" 2 | int héllo = 1;\n" +
		"   |     ^~~~~\n" +
		"  note: include/util.h:3:1: declared here\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyContextAndBasename(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 3})
	out := buf.String()
	if !strings.HasPrefix(out, "main.c:2:5:") {
		t.Fatalf("basename path mode not applied:\n%s", out)
	}
	if !strings.Contains(out, " 1 | int x;\n") {
		t.Fatalf("context line missing:\n%s", out)
	}
	if strings.Contains(out, "note:") {
		t.Fatalf("notes printed although ShowNotes is off:\n%s", out)
	}
}

func TestPrettyColorWrapsSeverity(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in colored output")
	}
}

func TestCaretRangeWideRunes(t *testing.T) {
	text := `s = "你好";`
	pad, width := caretRange(text, source.Span{
		Start: source.Pos{Line: 1, Col: 6},
		End:   source.Pos{Line: 1, Col: 8},
	})
	if pad != 5 || width != 4 {
		t.Fatalf("pad=%d width=%d, want 5/4", pad, width)
	}
	// колонка за концом строки
	pad, width = caretRange("ab", source.Span{Start: source.Pos{Line: 1, Col: 9}})
	if pad != 2 || width != 1 {
		t.Fatalf("pad=%d width=%d, want 2/1", pad, width)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.New(diag.SevWarning, diag.LinkDanglingEdge, source.Span{}, "dangling"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d, want 1/1", out.Count, out.Dropped)
	}
	d := out.Diagnostics[0]
	if d.Code != "PLG3001" || d.Severity != "ERROR" || d.Location.File != "src/main.c" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.EndCol != 10 {
		t.Fatalf("positions not included: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.File != "include/util.h" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}
