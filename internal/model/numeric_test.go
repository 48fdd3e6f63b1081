package model

import (
	"math/big"
	"testing"
)

func TestWideningIsOneDirectional(t *testing.T) {
	m := New()
	b := m.Builtins
	chain := []TypeID{b.Byte, b.Short, b.Int, b.Long, b.BigInt}
	for i := range chain {
		for j := range chain {
			got := m.Widens(chain[i], chain[j])
			if got != (i < j) {
				t.Fatalf("%s -> %s: widens=%v", m.TypeLabel(chain[i]), m.TypeLabel(chain[j]), got)
			}
		}
		if !m.Widens(chain[i], b.Number) || !m.Widens(chain[i], b.Decimal) {
			t.Fatalf("%s should widen to Number and Decimal", m.TypeLabel(chain[i]))
		}
	}
	if !m.Widens(b.Number, b.Decimal) || m.Widens(b.Decimal, b.Number) || m.Widens(b.Number, b.Long) {
		t.Fatalf("Number/Decimal widening wrong")
	}
}

func TestConstKindWidensTo(t *testing.T) {
	cases := []struct {
		from, to ConstKind
		want     bool
	}{
		{ConstByte, ConstBigInt, true},
		{ConstLong, ConstShort, false},
		{ConstInt, ConstInt, false},
		{ConstShort, ConstNumber, true},
		{ConstNumber, ConstDecimal, true},
		{ConstDecimal, ConstNumber, false},
		{ConstString, ConstNumber, false},
		{0, ConstInt, false},
	}
	for _, tc := range cases {
		if got := tc.from.WidensTo(tc.to); got != tc.want {
			t.Fatalf("%d -> %d: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIntegerRanges(t *testing.T) {
	cases := []struct {
		kind ConstKind
		n    int64
		fits bool
		wrap int64
	}{
		{ConstByte, 255, true, 255},
		{ConstByte, 256, false, 0},
		{ConstByte, -1, false, 255},
		{ConstShort, 40000, false, 40000 - 65536},
		{ConstInt, -5, true, -5},
	}
	for _, tc := range cases {
		n := big.NewInt(tc.n)
		if got := FitsInteger(tc.kind, n); got != tc.fits {
			t.Fatalf("FitsInteger(%d, %d) = %v", tc.kind, tc.n, got)
		}
		if got := WrapInteger(tc.kind, n); got.Int64() != tc.wrap {
			t.Fatalf("WrapInteger(%d, %d) = %s", tc.kind, tc.n, got)
		}
	}
}
