package convert

import (
	"math/big"
	"testing"

	"ripple/internal/model"
)

func sameResult(a, b model.Symbol) bool {
	ca, okA := a.(*model.Conversion)
	cb, okB := b.(*model.Conversion)
	if okA && okB {
		return ca.Kind == cb.Kind && ca.Type == cb.Type && ca.Base == cb.Base
	}
	return a == b
}

func sampleTypes(m *model.Model) []model.TypeID {
	b := m.Builtins
	in := m.Types
	return []model.TypeID{
		b.Any, b.Object, b.String, b.Boolean,
		b.Byte, b.Short, b.Int, b.Long, b.BigInt, b.Number, b.Decimal,
		b.Null, b.Undefined,
		m.ArrayOf(b.Int), m.ArrayOf(b.Object),
		m.ToNullableType(b.Int), m.ToNullableType(b.Long),
		in.InternUnion([]model.TypeID{b.Int, b.String}),
		in.InternRecord([]model.RecordField{{Name: "x", Type: b.Int}}),
		in.InternRecord([]model.RecordField{{Name: "x", Type: b.Int}, {Name: "y", Type: b.String}}),
		in.InternTuple([]model.TypeID{b.Int, b.String}),
	}
}

func TestImplicitIsSubsetOfExplicit(t *testing.T) {
	m := model.New()
	types := sampleTypes(m)
	for _, from := range types {
		for _, to := range types {
			v := &model.Plain{Type: from}
			imp := Implicit(m, v, to)
			if imp == nil {
				continue
			}
			exp := Explicit(m, v, to, false)
			if exp == nil || !sameResult(imp, exp) {
				t.Fatalf("%s -> %s: implicit succeeded but explicit gave %#v", m.TypeLabel(from), m.TypeLabel(to), exp)
			}
		}
	}
}

func TestNumericWideningIsOneDirectional(t *testing.T) {
	m := model.New()
	b := m.Builtins
	if Implicit(m, &model.Plain{Type: b.Long}, b.Short) != nil {
		t.Fatalf("Long must not convert implicitly to Short")
	}
	got := Implicit(m, &model.Plain{Type: b.Short}, b.Long)
	if c, ok := got.(*model.Conversion); !ok || c.Kind != model.ConvNumericWidening {
		t.Fatalf("Short -> Long should widen, got %#v", got)
	}
	numerics := []model.TypeID{b.Byte, b.Short, b.Int, b.Long, b.BigInt, b.Number, b.Decimal}
	for _, from := range numerics {
		for _, to := range numerics {
			if Explicit(m, &model.Plain{Type: from}, to, false) == nil {
				t.Fatalf("explicit %s -> %s must succeed", m.TypeLabel(from), m.TypeLabel(to))
			}
		}
	}
}

func TestConstantConversion(t *testing.T) {
	m := model.New()
	b := m.Builtins
	cases := []struct {
		name string
		c    *model.Constant
		to   model.TypeID
		want model.ConstKind
	}{
		{"literal fits byte", m.NumberConst(10), b.Byte, model.ConstByte},
		{"literal overflows byte", m.NumberConst(300), b.Byte, 0},
		{"fraction to int", m.NumberConst(1.5), b.Int, 0},
		{"int widens to long", m.IntConst(model.ConstInt, big.NewInt(7)), b.Long, model.ConstLong},
		{"long does not narrow", m.IntConst(model.ConstLong, big.NewInt(7)), b.Short, 0},
		{"int to decimal", m.IntConst(model.ConstInt, big.NewInt(7)), b.Decimal, model.ConstDecimal},
		{"null to nullable", m.NullConst(), m.ToNullableType(b.Int), model.ConstNull},
		{"null to int", m.NullConst(), b.Int, 0},
	}
	for _, tc := range cases {
		got := Constant(m, tc.c, tc.to)
		switch {
		case tc.want == 0 && got != nil:
			t.Fatalf("%s: expected failure, got %s", tc.name, got)
		case tc.want != 0 && (got == nil || got.Kind != tc.want || got.Type != tc.to):
			t.Fatalf("%s: expected kind %d of %s, got %#v", tc.name, tc.want, m.TypeLabel(tc.to), got)
		}
	}
}

func TestImplicitRules(t *testing.T) {
	m := model.New()
	b := m.Builtins
	in := m.Types
	wide := in.InternRecord([]model.RecordField{{Name: "x", Type: b.Int}, {Name: "y", Type: b.String}})
	narrow := in.InternRecord([]model.RecordField{{Name: "x", Type: b.Int}})
	optional := in.InternRecord([]model.RecordField{{Name: "x", Type: b.Int}, {Name: "z", Type: in.InternUnion([]model.TypeID{b.Int, b.Undefined})}})

	cases := []struct {
		from, to model.TypeID
		want     model.ConversionKind
	}{
		{b.Any, b.Int, model.ConvFromAny},
		{b.Int, b.Any, model.ConvToAny},
		{b.Int, m.ToNullableType(b.Int), model.ConvNonUnionToUnion},
		{m.ToNullableType(b.Int), m.ToNullableType(b.Long), model.ConvUnionToUnion},
		{wide, narrow, model.ConvRecordToRecord},
		{narrow, optional, model.ConvRecordToRecord},
		{b.String, b.Object, model.ConvToCovariant},
		{narrow, wide, 0},
		{m.ToNullableType(b.Int), b.Int, 0},
		{b.Object, b.String, 0},
	}
	for _, tc := range cases {
		got := Implicit(m, &model.Plain{Type: tc.from}, tc.to)
		if tc.want == 0 {
			if got != nil {
				t.Fatalf("%s -> %s: expected failure, got %#v", m.TypeLabel(tc.from), m.TypeLabel(tc.to), got)
			}
			continue
		}
		c, ok := got.(*model.Conversion)
		if !ok || c.Kind != tc.want {
			t.Fatalf("%s -> %s: expected %s, got %#v", m.TypeLabel(tc.from), m.TypeLabel(tc.to), tc.want, got)
		}
	}
}

func TestExplicitRules(t *testing.T) {
	m := model.New()
	b := m.Builtins
	enum := m.Types.NewEnum(model.EnumInfo{Name: "Color", Parent: m.Global, Repr: b.Number})
	cases := []struct {
		from, to model.TypeID
		want     model.ConversionKind
	}{
		{b.Object, b.String, model.ConvToContravariant},
		{m.ToNullableType(b.Int), b.Int, model.ConvUnionMemberNarrowing},
		{m.ArrayOf(b.Object), m.ArrayOf(b.String), model.ConvArrayContravariant},
		{m.ArrayOf(b.String), m.ArrayOf(b.Object), model.ConvArrayCovariant},
		{b.Decimal, b.Byte, model.ConvNumericNarrowing},
		{b.String, enum, model.ConvStringToEnum},
		{b.Int, enum, model.ConvNumberToEnum},
	}
	for _, tc := range cases {
		got := Explicit(m, &model.Plain{Type: tc.from}, tc.to, false)
		c, ok := got.(*model.Conversion)
		if !ok || c.Kind != tc.want {
			t.Fatalf("%s -> %s: expected %s, got %#v", m.TypeLabel(tc.from), m.TypeLabel(tc.to), tc.want, got)
		}
	}
	opt := Explicit(m, &model.Plain{Type: b.Object}, b.String, true)
	if c, ok := opt.(*model.Conversion); !ok || !m.IncludesNull(c.Type) {
		t.Fatalf("as? should produce a nullable result, got %#v", opt)
	}
}

func TestImplicitProxy(t *testing.T) {
	m := model.New()
	b := m.Builtins
	c := m.Types.NewClass(model.ClassInfo{Name: "Celsius", Parent: m.Global, Super: b.Object})
	info := m.Types.Class(c)
	info.Proxies = map[model.ProxyKind]*model.MethodSlot{
		model.ProxyConvertImplicit: {
			Name:      "convertImplicit",
			Owner:     c,
			Flags:     model.MethodProxy | model.MethodStatic,
			Proxy:     model.ProxyConvertImplicit,
			Signature: model.Resolved(m.Fn([]model.TypeID{b.Number}, c)),
		},
	}
	got := Implicit(m, &model.Plain{Type: b.Number}, c)
	if conv, ok := got.(*model.Conversion); !ok || conv.Kind != model.ConvImplicitProxy || conv.Proxy == nil {
		t.Fatalf("expected implicit proxy conversion, got %#v", got)
	}
	if Implicit(m, &model.Plain{Type: b.String}, c) != nil {
		t.Fatalf("proxy parameter does not accept String")
	}
}
