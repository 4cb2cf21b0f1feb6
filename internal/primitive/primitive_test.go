package primitive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/lamir/internal/ffi"
)

func TestParseOpRoundTrip(t *testing.T) {
	for o := Not; o <= ArrayLength; o++ {
		got, ok := ParseOp(o.String())
		assert.True(t, ok, o.String())
		assert.Equal(t, o, got)
	}
	_, ok := ParseOp("field")
	assert.False(t, ok)
}

func TestComparisonNegate(t *testing.T) {
	pairs := [][2]int64{{1, 2}, {2, 2}, {3, 2}, {-5, 0}}
	for c := Eq; c <= Ge; c++ {
		for _, p := range pairs {
			assert.Equal(t, !c.Holds(p[0], p[1]), c.Negate().Holds(p[0], p[1]),
				"%s on %v", c, p)
		}
		assert.Equal(t, c, c.Negate().Negate())
	}
}

func TestParseComparison(t *testing.T) {
	c, ok := ParseComparison("le")
	assert.True(t, ok)
	assert.Equal(t, Le, c)

	_, ok = ParseComparison("lte")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "not", Not.String())
	assert.Equal(t, "lt", IntComp{Cmp: Lt}.String())
	assert.Equal(t, "makeblock 2", MakeBlock{Tag: 2}.String())
	assert.Equal(t, "makemutable 0", MakeBlock{Mutable: true}.String())
	assert.Equal(t, "field 1", Field{Index: 1}.String())
	assert.Equal(t, "fn_make 2", FnMake{Arity: 2}.String())
	assert.Equal(t, "js_call max call Math.max (nothing nothing)", JsCall{
		Name:     "max",
		Params:   ffi.Params{{}, {}},
		External: ffi.External{Name: "max", Scopes: []string{"Math"}},
	}.String())
}

func TestIsPure(t *testing.T) {
	pure := []Primitive{Not, Add, Box, Typeof, NullToOpt, MakeArray, IntComp{Cmp: Eq}, MakeBlock{Tag: 0}, FnMake{Arity: 1}}
	impure := []Primitive{Div, Mod, Unbox, Raise, StringLength, Field{}, SetField{}, JsCall{Name: "f"}, ArrayLength}

	for _, p := range pure {
		assert.True(t, IsPure(p), p.String())
	}
	for _, p := range impure {
		assert.False(t, IsPure(p), p.String())
	}
}

func TestEqApprox(t *testing.T) {
	call := func(n string) JsCall {
		return JsCall{Name: n, Params: ffi.Params{{Kind: ffi.ArgUnbox}}, External: ffi.External{Name: n}}
	}

	assert.True(t, EqApprox(Add, Add))
	assert.False(t, EqApprox(Add, Sub))
	assert.True(t, EqApprox(Field{Index: 1}, Field{Index: 1}))
	assert.False(t, EqApprox(Field{Index: 1}, SetField{Index: 1}))
	assert.False(t, EqApprox(MakeBlock{Tag: 0}, MakeBlock{Tag: 0, Mutable: true}))
	assert.True(t, EqApprox(call("f"), call("f")))
	assert.False(t, EqApprox(call("f"), call("g")))
}

func TestArity(t *testing.T) {
	tests := []struct {
		p    Primitive
		want int
	}{
		{Not, 1},
		{Add, 2},
		{Mod, 2},
		{StringLength, 1},
		{MakeArray, -1},
		{IntComp{Cmp: Lt}, 2},
		{MakeBlock{Tag: 1}, -1},
		{Field{Index: 3}, 1},
		{SetField{Index: 0}, 2},
		{FnMake{Arity: 3}, 1},
		{JsCall{Params: ffi.Params{{}, {}, {}}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Arity(tt.p))
		})
	}
}

func TestParse(t *testing.T) {
	prims := []Primitive{
		Add, Typeof, IntComp{Cmp: Ge},
		MakeBlock{Tag: 3}, MakeBlock{Tag: 0, Mutable: true},
		Field{Index: 2}, SetField{Index: 1}, FnMake{Arity: 4},
	}
	for _, p := range prims {
		got, ok := Parse(p.String())
		assert.True(t, ok, p.String())
		assert.Equal(t, p, got)
	}

	for _, bad := range []string{"", "frobnicate", "field", "field x", "js_call f"} {
		_, ok := Parse(bad)
		assert.False(t, ok, bad)
	}
}
