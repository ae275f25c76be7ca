package source

import (
	"fmt"
)

// Pos is a 1-based line/column pair. The zero Pos means "unknown"; foreign
// declarations sometimes arrive without columns.
type Pos struct {
	Line uint32
	Col  uint32
}

func (p Pos) Known() bool {
	return p.Line != 0
}

// Before reports whether p is strictly earlier than other.
func (p Pos) Before(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

type Span struct {
	File  FileID
	Start Pos // включительно
	End   Pos // не включительно
}

// At builds a zero-width span at line:col.
func At(file FileID, line, col uint32) Span {
	p := Pos{Line: line, Col: col}
	return Span{File: file, Start: p, End: p}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Known() bool {
	return s.File != NoFileID && s.Start.Known()
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d:%d-%d:%d", s.File, s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Cover widens s so that it also spans other. Spans from different files are
// never merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if !s.Start.Known() {
		return other
	}
	if !other.Start.Known() {
		return s
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	if s.File != other.File {
		return false
	}
	return !other.Start.Before(s.Start) && !s.End.Before(other.End)
}
