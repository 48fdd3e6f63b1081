package conformance

import (
	"errors"
	"testing"

	"ripple/internal/model"
)

type fixture struct {
	m    *model.Model
	base model.TypeID
	sub  model.TypeID
}

func newFixture() *fixture {
	m := model.New()
	base := m.Types.NewClass(model.ClassInfo{Name: "Base", Parent: m.Global, Super: m.Builtins.Object, Heritage: true})
	sub := m.Types.NewClass(model.ClassInfo{Name: "Sub", Parent: m.Global, Super: base, Heritage: true})
	return &fixture{m: m, base: base, sub: sub}
}

func (f *fixture) method(owner model.TypeID, name string, sig model.FnInfo, flags model.MethodFlags) *model.MethodSlot {
	ms := &model.MethodSlot{
		Name:      name,
		Owner:     owner,
		Flags:     flags,
		Signature: model.Resolved(f.m.Types.InternFunction(sig)),
	}
	f.m.Types.Class(owner).Instance.Set(name, ms)
	return ms
}

func TestOverrideSingle(t *testing.T) {
	intT := func(m *model.Model) model.TypeID { return m.Builtins.Int }
	cases := []struct {
		name    string
		base    func(m *model.Model) (model.FnInfo, model.MethodFlags)
		sub     func(m *model.Model) model.FnInfo
		wantErr error
	}{
		{
			name: "same signature",
			base: func(m *model.Model) (model.FnInfo, model.MethodFlags) {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: intT(m)}, 0
			},
			sub: func(m *model.Model) model.FnInfo {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: intT(m)}
			},
		},
		{
			name: "extra required parameter",
			base: func(m *model.Model) (model.FnInfo, model.MethodFlags) {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: intT(m)}, 0
			},
			sub: func(m *model.Model) model.FnInfo {
				return model.FnInfo{Params: []model.TypeID{intT(m), intT(m)}, Result: intT(m)}
			},
			wantErr: ErrIncompatibleOverrideSignature,
		},
		{
			name: "result widened to Any",
			base: func(m *model.Model) (model.FnInfo, model.MethodFlags) {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: intT(m)}, 0
			},
			sub: func(m *model.Model) model.FnInfo {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: m.Builtins.Any}
			},
		},
		{
			name: "extra optional parameter",
			base: func(m *model.Model) (model.FnInfo, model.MethodFlags) {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: intT(m)}, 0
			},
			sub: func(m *model.Model) model.FnInfo {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Optional: []model.TypeID{intT(m)}, Result: intT(m)}
			},
		},
		{
			name: "final method",
			base: func(m *model.Model) (model.FnInfo, model.MethodFlags) {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: intT(m)}, model.MethodFinal
			},
			sub: func(m *model.Model) model.FnInfo {
				return model.FnInfo{Params: []model.TypeID{intT(m)}, Result: intT(m)}
			},
			wantErr: ErrCannotOverrideFinalMethod,
		},
		{
			name: "rest parameter dropped",
			base: func(m *model.Model) (model.FnInfo, model.MethodFlags) {
				return model.FnInfo{Rest: m.ArrayOf(intT(m)), Result: m.Builtins.Void}, 0
			},
			sub: func(m *model.Model) model.FnInfo {
				return model.FnInfo{Result: m.Builtins.Void}
			},
			wantErr: ErrIncompatibleOverrideSignature,
		},
	}
	for _, tc := range cases {
		f := newFixture()
		sig, flags := tc.base(f.m)
		baseM := f.method(f.base, "f", sig, flags)
		subM := f.method(f.sub, "f", tc.sub(f.m), 0)
		err := OverrideSingle(f.m, f.sub, subM)
		if !errors.Is(err, tc.wantErr) || (tc.wantErr == nil && err != nil) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
		if err == nil {
			if subM.Overridden != baseM || len(baseM.Overriders) != 1 || !subM.Flags.Has(model.MethodOverride) {
				t.Fatalf("%s: override links not recorded", tc.name)
			}
		}
	}
}

func TestOverrideWithoutBaseMember(t *testing.T) {
	f := newFixture()
	subM := f.method(f.sub, "g", model.FnInfo{Result: f.m.Builtins.Void}, 0)
	if err := OverrideSingle(f.m, f.sub, subM); !errors.Is(err, ErrMustOverrideAMethod) {
		t.Fatalf("expected must-override error, got %v", err)
	}
}

func TestOverrideGenericMethod(t *testing.T) {
	f := newFixture()
	baseM := f.method(f.base, "g", model.FnInfo{Result: f.m.Builtins.Void}, 0)
	baseM.TypeParams = []model.TypeID{f.m.Types.NewTypeParam(model.TypeParamInfo{Name: "T", Owner: baseM})}
	subM := f.method(f.sub, "g", model.FnInfo{Result: f.m.Builtins.Void}, 0)
	if err := OverrideSingle(f.m, f.sub, subM); !errors.Is(err, ErrCannotOverrideGenericMethod) {
		t.Fatalf("expected generic override error, got %v", err)
	}
}

func TestVerifyImplReportsMissingMethod(t *testing.T) {
	m := model.New()
	iface := m.Types.NewInterface(model.InterfaceInfo{Name: "I", Parent: m.Global, Heritage: true})
	m.Types.Interface(iface).Instance.Set("m", &model.MethodSlot{
		Name:      "m",
		Owner:     iface,
		Signature: model.Resolved(m.Fn(nil, m.Builtins.Int)),
	})
	c := m.Types.NewClass(model.ClassInfo{Name: "C", Parent: m.Global, Super: m.Builtins.Object, Implements: []model.TypeID{iface}})

	var missing []string
	VerifyImpl(m, c, iface, ImplHandlers{
		MissingMethod: func(name string, _ model.TypeID) { missing = append(missing, name) },
		WrongMethodSignature: func(name string, _ model.TypeID) {
			t.Fatalf("unexpected signature mismatch for %s", name)
		},
	})
	if len(missing) != 1 || missing[0] != "m" {
		t.Fatalf("expected missing method m, got %v", missing)
	}
}

func TestVerifyImplSignaturesAndKinds(t *testing.T) {
	m := model.New()
	b := m.Builtins
	parent := m.Types.NewInterface(model.InterfaceInfo{Name: "P", Parent: m.Global})
	m.Types.Interface(parent).Instance.Set("p", &model.MethodSlot{Name: "p", Owner: parent, Signature: model.Resolved(m.Fn(nil, b.Int))})
	iface := m.Types.NewInterface(model.InterfaceInfo{Name: "I", Parent: m.Global, Extends: []model.TypeID{parent}})
	m.Types.Interface(iface).Instance.Set("q", &model.MethodSlot{Name: "q", Owner: iface, Signature: model.Resolved(m.Fn(nil, b.Int))})
	m.Types.Interface(iface).Instance.Set("opt", &model.MethodSlot{
		Name:      "opt",
		Owner:     iface,
		Flags:     model.MethodOptionalInterface,
		Signature: model.Resolved(m.Fn(nil, b.Int)),
	})

	c := m.Types.NewClass(model.ClassInfo{Name: "C", Parent: m.Global, Super: b.Object, Implements: []model.TypeID{iface}})
	m.Types.Class(c).Instance.Set("p", &model.MethodSlot{Name: "p", Owner: c, Signature: model.Resolved(m.Fn(nil, b.String))})
	m.Types.Class(c).Instance.Set("q", &model.VariableSlot{Name: "q", Owner: c, Type: model.Resolved(b.Int)})

	var got []string
	VerifyImpl(m, c, iface, ImplHandlers{
		MissingMethod:        func(name string, _ model.TypeID) { got = append(got, "missing:"+name) },
		KindMismatch:         func(name, want string, _ model.TypeID) { got = append(got, "kind:"+name+":"+want) },
		WrongMethodSignature: func(name string, _ model.TypeID) { got = append(got, "sig:"+name) },
	})
	want := []string{"kind:q:method", "sig:p"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
