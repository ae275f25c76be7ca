package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"loom/internal/diag"
	"loom/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, d.Primary, opts.PathMode),
			pal.severity(d.Severity).Sprint(diag.SeverityLabel(d.Severity)),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, opts.Context, pal)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostic(s) not shown\n", dropped)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	p := formatPath(fs, sp.File, mode)
	if !sp.Start.Known() {
		return p
	}
	if sp.Start.Col == 0 {
		return fmt.Sprintf("%s:%d", p, sp.Start.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p, sp.Start.Line, sp.Start.Col)
}

// writeSnippet печатает строку исходника и каретки; без содержимого файла
// ничего не выводится.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, pal palette) {
	if fs == nil || !sp.Known() {
		return
	}
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	line := sp.Start.Line
	first := line
	for context > 0 && first > 1 {
		first--
		context--
	}
	gutterWidth := len(fmt.Sprint(line))
	for n := first; n <= line; n++ {
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), f.Line(n))
	}
	if sp.Start.Col == 0 {
		return
	}
	text := f.Line(line)
	pad, width := caretRange(text, sp)
	marker := "^" + strings.Repeat("~", max(width-1, 0))
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

// caretRange переводит колонки (в рунах, с 1) в экранные ячейки.
func caretRange(text string, sp source.Span) (pad, width int) {
	runes := []rune(text)
	start := min(int(sp.Start.Col)-1, len(runes))
	end := start + 1
	if sp.End.Line == sp.Start.Line && int(sp.End.Col)-1 > start {
		end = int(sp.End.Col) - 1
	} else if sp.End.Line > sp.Start.Line {
		end = len(runes)
	}
	end = min(end, len(runes))
	pad = runewidth.StringWidth(string(runes[:start]))
	width = max(runewidth.StringWidth(string(runes[start:end])), 1)
	return pad, width
}
