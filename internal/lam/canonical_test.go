package lam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ffi"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

func TestMarshalCanonicalKeyOrder(t *testing.T) {
	got, err := MarshalCanonical(x())
	require.NoError(t, err)
	assert.Equal(t, `{"id":{"name":"x","stamp":1},"k":"var"}`, string(got))

	got, err = MarshalCanonical(Seq(call(), intc(2)))
	require.NoError(t, err)
	assert.Equal(t,
		`{"first":{"args":[{"id":{"name":"x","stamp":1},"k":"var"}],"fn":{"id":{"name":"f","stamp":3},"k":"var"},`+
			`"inline":"default","k":"apply","status":"na"},`+
			`"k":"seq","second":{"c":{"t":"int","v":2},"k":"const"}}`,
		string(got))
}

func TestMarshalCanonicalStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"control escaped", "a\nb\x01", `"a\nb\u0001"`},
		{"quote and backslash", `"\`, `"\"\\"`},
		{"combining mark kept", "e\u0301", "\"e\u0301\""},
		{"invalid utf-8 as bytes", "a\xffb", `{"bytes":"61ff62"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(Const(constant.Str(tt.in)))
			require.NoError(t, err)
			assert.Equal(t, `{"c":{"t":"string","unicode":false,"v":`+tt.want+`},"k":"const"}`, string(got))
		})
	}
}

func TestHashDistinguishesLookalikes(t *testing.T) {
	jsCall := func(ext ffi.External) Node {
		p := primitive.JsCall{Name: "max", Params: ffi.Params{{Kind: ffi.ArgNothing}}, External: ext}
		return Prim(p, []Node{x()}, ident.None)
	}
	pairs := []struct {
		name string
		a, b Node
	}{
		{"composed and decomposed", Const(constant.Str("e\u0301")), Const(constant.Str("\u00e9"))},
		{"invalid bytes", Const(constant.Str("\xff")), Const(constant.Str("\xfe"))},
		{"invalid byte and replacement char", Const(constant.Str("\xff")), Const(constant.Str("\ufffd"))},
		{"slash in name", Var(ident.Ident{Name: "a/1"}), Var(ident.Ident{Name: "a", Stamp: 1})},
		{"string case values", StringSwitch(x(), []StringCase{{Value: "\xff", Body: y()}}, intc(0)),
			StringSwitch(x(), []StringCase{{Value: "\xfe", Body: y()}}, intc(0))},
		{"foreign scopes", jsCall(ffi.External{Kind: ffi.ExtCall, Name: "max", Scopes: []string{"Math"}}),
			jsCall(ffi.External{Kind: ffi.ExtCall, Name: "Math.max"})},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, EqApprox(tt.a, tt.b))
			assert.NotEqual(t, MustHash(tt.a), MustHash(tt.b))
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	seen := map[string]string{}
	for _, s := range samples() {
		h1, err := Hash(s.build())
		require.NoError(t, err)
		h2 := MustHash(s.build())

		assert.Equal(t, h1, h2, s.name)
		assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")

		if prev, dup := seen[h1]; dup {
			t.Errorf("%s and %s hash equal", prev, s.name)
		}
		seen[h1] = s.name
	}
}

func TestHashIgnoresLocationsAndNames(t *testing.T) {
	loc := ident.Loc{File: "a.res", Line: 10, Col: 4}
	a := Prim(primitive.Typeof, []Node{x()}, loc)
	b := Prim(primitive.Typeof, []Node{x()}, ident.None)
	assert.Equal(t, MustHash(a), MustHash(b))

	table := func(names *SwitchNames) SwitchTable {
		return SwitchTable{Consts: []Case{{Tag: 0, Body: y()}, {Tag: 1, Body: call()}}, Names: names}
	}
	assert.Equal(t,
		MustHash(Switch(x(), table(nil))),
		MustHash(Switch(x(), table(&SwitchNames{Consts: []string{"A", "B"}}))))
}

func TestHashSeesEveryField(t *testing.T) {
	pairs := []struct {
		name string
		a, b Node
	}{
		{"apply status", call(), call().(*ApplyNode).WithStatus(AppInferFull)},
		{"let kind", Let(Strict, idX, y(), x()), Let(Alias, idX, y(), x())},
		{"for direction", For(idI, intc(0), intc(3), Upto, call()), For(idI, intc(0), intc(3), Downto, call())},
		{"function inline", Function(FunctionAttr{}, 0, nil, call()), Function(FunctionAttr{Inline: NeverInline}, 0, nil, call())},
		{"unicode string", Const(constant.Str("a")), Const(constant.String{Value: "a", Unicode: true})},
		{"float spelling", Const(constant.Float("1.0")), Const(constant.Float("1."))},
		{"catch label", StaticCatch(call(), 1, nil, y()), StaticCatch(call(), 2, nil, y())},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, MustHash(tt.a), MustHash(tt.b))
		})
	}
}
