package diag

import (
	"strings"
	"testing"

	"ripple/internal/source"
)

func TestMessageSubstitutesArgs(t *testing.T) {
	d := NewError(VerifyMissingMethod, source.Span{}, Args{"name": "m", "interface": "I"})
	if got, want := d.Message(), "missing method 'm' required by 'I'"; got != want {
		t.Fatalf("Message() = %q, want %q", got, want)
	}
	d = NewError(VerifyTooManyTupleElements, source.Span{}, Args{"type": "[Int, String]", "limit": 2})
	if got := d.Message(); !strings.Contains(got, "only 2 elements") {
		t.Fatalf("numeric arg not rendered: %q", got)
	}
}

func TestMessageKeepsMissingPlaceholder(t *testing.T) {
	d := NewError(VerifyUnresolvedReference, source.Span{}, nil)
	if got := d.Message(); got != "unresolved reference '{name}'" {
		t.Fatalf("Message() = %q", got)
	}
}

func TestUnitValidity(t *testing.T) {
	u := NewUnit("main.yaml", 1, 0)
	u.Collect(New(SevWarning, WarnMissingTypeAnnotation, source.Span{}, Args{"name": "x"}))
	if !u.Valid() {
		t.Fatalf("warnings must not invalidate a unit")
	}
	inc := u.Include("part.yaml", 2)
	inc.Collect(NewError(VerifyUnresolvedReference, source.Span{}, Args{"name": "y"}))
	if u.Valid() {
		t.Fatalf("an invalid include must invalidate its parent")
	}
	if got := len(u.All()); got != 2 {
		t.Fatalf("All() = %d diagnostics, want 2", got)
	}
}

func TestUnitInvalidEvenWhenBagIsFull(t *testing.T) {
	u := NewUnit("main.yaml", 1, 1)
	u.Collect(New(SevWarning, WarnUnnecessaryNonNull, source.Span{}, nil))
	u.Collect(NewError(VerifyIncompatibleTypes, source.Span{}, nil))
	if u.Valid() {
		t.Fatalf("dropped error must still invalidate")
	}
	if u.Bag().Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", u.Bag().Dropped())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 3, End: 4}
	r.Report(VerifyUnresolvedReference, SevVerifyError, sp, Args{"name": "a"}, nil)
	r.Report(VerifyUnresolvedReference, SevVerifyError, sp, Args{"name": "a"}, nil)
	r.Report(VerifyUnresolvedReference, SevVerifyError, sp, Args{"name": "b"}, nil)
	if bag.Len() != 2 {
		t.Fatalf("bag has %d items, want 2", bag.Len())
	}
}

func TestBagSortAndShortFormat(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.yaml", []byte("line one\nline two\n"))
	bag := NewBag(10)
	bag.Add(NewError(VerifyUnresolvedReference, source.Span{File: id, Start: 9, End: 13}, Args{"name": "b"}))
	bag.Add(New(SevWarning, WarnMissingTypeAnnotation, source.Span{File: id, Start: 0, End: 4}, Args{"name": "a"}))
	bag.Sort()
	if bag.Items()[0].Code != WarnMissingTypeAnnotation {
		t.Fatalf("Sort did not order by position")
	}
	want := "warning WRN3900 a.yaml:1:1 'a' has no type annotation\n" +
		"error VER3001 a.yaml:2:1 unresolved reference 'b'"
	if got := FormatShort(bag.Items(), fs, false); got != want {
		t.Fatalf("FormatShort:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseCodeRoundTrip(t *testing.T) {
	for _, c := range []Code{SynIllegalFixtureShape, VerifyMissingMethod, WarnUnnecessaryNonNull} {
		got, ok := ParseCode(c.ID())
		if !ok || got != c {
			t.Fatalf("ParseCode(%q) = %v, %v", c.ID(), got, ok)
		}
	}
	if _, ok := ParseCode("VER9999"); ok {
		t.Fatalf("unknown id must not parse")
	}
}
