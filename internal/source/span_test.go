package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: Pos{Line: 2, Col: 5}, End: Pos{Line: 2, Col: 9}}
	b := Span{File: 1, Start: Pos{Line: 1, Col: 3}, End: Pos{Line: 2, Col: 7}}
	got := a.Cover(b)
	want := Span{File: 1, Start: Pos{Line: 1, Col: 3}, End: Pos{Line: 2, Col: 9}}
	if got != want {
		t.Fatalf("Cover = %v, want %v", got, want)
	}
	if !got.Contains(a) || !got.Contains(b) {
		t.Fatalf("cover must contain both operands")
	}
	other := Span{File: 2, Start: Pos{Line: 1, Col: 1}}
	if a.Cover(other) != a {
		t.Fatalf("spans of different files must not merge")
	}
}

func TestSpanUnknownStart(t *testing.T) {
	var unknown Span
	known := At(3, 10, 1)
	if unknown.Known() {
		t.Fatalf("zero span must be unknown")
	}
	if got := (Span{File: 3}).Cover(known); got != known {
		t.Fatalf("cover of an unknown span = %v, want %v", got, known)
	}
}
