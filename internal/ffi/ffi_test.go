package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/lamir/internal/constant"
)

func TestArgKindParseRoundTrip(t *testing.T) {
	for k := ArgNothing; k <= ArgSpread; k++ {
		got, ok := ParseArgKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseArgKind("box")
	assert.False(t, ok)
}

func TestReturnWrapperParseRoundTrip(t *testing.T) {
	for r := ReturnUnset; r <= ReturnNullUndefinedToOpt; r++ {
		got, ok := ParseReturnWrapper(r.String())
		assert.True(t, ok, r.String())
		assert.Equal(t, r, got)
	}
}

func TestExternalKindParseRoundTrip(t *testing.T) {
	for k := ExtCall; k <= ExtModuleAsFn; k++ {
		got, ok := ParseExternalKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
}

func TestPassed(t *testing.T) {
	assert.True(t, ArgNothing.Passed())
	assert.True(t, ArgConst.Passed())
	assert.True(t, ArgSpread.Passed())
	assert.False(t, ArgIgnore.Passed())
	assert.False(t, ArgUnit.Passed())
}

func TestNoAutoUncurried(t *testing.T) {
	assert.True(t, Params{}.NoAutoUncurried())
	assert.True(t, Params{{Kind: ArgUnbox}, {Kind: ArgSpread}}.NoAutoUncurried())
	assert.False(t, Params{{Kind: ArgNothing}, {Kind: ArgUncurry, Arity: 2}}.NoAutoUncurried())
}

func TestParamsEqual(t *testing.T) {
	p := Params{{Kind: ArgConst, Const: constant.Int(1)}, {Label: "x", Kind: ArgNothing}}
	q := Params{{Kind: ArgConst, Const: constant.Int(1)}, {Label: "x", Kind: ArgNothing}}
	r := Params{{Kind: ArgConst, Const: constant.Int(2)}, {Label: "x", Kind: ArgNothing}}

	assert.True(t, p.Equal(q))
	assert.False(t, p.Equal(r))
	assert.False(t, p.Equal(p[:1]))
}

func TestParamsString(t *testing.T) {
	p := Params{
		{Kind: ArgUnbox},
		{Label: "cb", Kind: ArgUncurry, Arity: 2},
		{Kind: ArgConst, Const: constant.Str("utf8")},
	}
	assert.Equal(t, `(unbox cb:uncurry(2) const("utf8"))`, p.String())
}

func TestExternalPath(t *testing.T) {
	tests := []struct {
		ext  External
		want string
	}{
		{External{Name: "max", Scopes: []string{"Math"}}, "Math.max"},
		{External{Name: "readFile", Module: "fs"}, "fs.readFile"},
		{External{Kind: ExtModuleAsFn, Module: "left-pad"}, "left-pad"},
		{External{Name: "parseInt"}, "parseInt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ext.Path())
	}
}

func TestExternalEqual(t *testing.T) {
	a := External{Name: "max", Scopes: []string{"Math"}}
	assert.True(t, a.Equal(External{Name: "max", Scopes: []string{"Math"}}))
	assert.False(t, a.Equal(External{Kind: ExtNew, Name: "max", Scopes: []string{"Math"}}))
	assert.False(t, a.Equal(External{Name: "max"}))
	assert.Equal(t, "call Math.max", a.String())
}
