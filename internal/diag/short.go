package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"loom/internal/source"
)

type shortLine struct {
	sev  string
	code string
	path string
	pos  source.Pos
	msg  string
}

// FormatShortDiagnostics renders one line per diagnostic, ordered by path,
// position, severity and code:
//
//	error PLG3004 main.c:3:5 no plugin action named "nope"
//
// Notes become "note" lines under the same code when includeNotes is set.
// The result has no trailing newline.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		code := d.Code.ID()
		lines = append(lines, shortLine{SeverityLabel(d.Severity), code, spanPath(fs, d.Primary), d.Primary.Start, oneLine(d.Message)})
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, shortLine{"note", code, spanPath(fs, n.Span), n.Span.Start, oneLine(n.Msg)})
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
	return strings.Join(out, "\n")
}

func spanPath(fs *source.FileSet, sp source.Span) string {
	if fs != nil && sp.File != source.NoFileID {
		if p := fs.Path(sp.File); p != "" {
			return p
		}
	}
	return "<unknown>"
}

// oneLine folds line breaks so a message cannot split its entry.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(strings.ReplaceAll(msg, "\r", "\n")), " "))
}
