package source

import "testing"

func TestResolveAndOffsetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.yaml", []byte("first\nsecond line\nthird"))
	f := fs.Get(id)
	if f == nil {
		t.Fatalf("file not stored")
	}
	cases := []struct{ line, col uint32 }{{1, 1}, {1, 4}, {2, 1}, {2, 8}, {3, 3}}
	for _, tc := range cases {
		off := f.Offset(tc.line, tc.col)
		start, _ := fs.Resolve(Span{File: id, Start: off, End: off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Fatalf("round trip %d:%d gave %d:%d", tc.line, tc.col, start.Line, start.Col)
		}
	}
	if got := f.GetLine(2); got != "second line" {
		t.Fatalf("GetLine(2) = %q", got)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("got %q changed=%v", out, changed)
	}
}

func TestZeroFileIsReserved(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(0) != nil {
		t.Fatalf("file 0 must not resolve")
	}
	if got := fs.AddVirtual("x", nil); got != 1 {
		t.Fatalf("first file id = %d, want 1", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Fatalf("cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("cross-file cover changed span")
	}
}
