package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruth(t *testing.T) {
	tests := []struct {
		name  string
		c     Const
		value bool
		known bool
	}{
		{"true", JsTrue, true, true},
		{"false", JsFalse, false, true},
		{"null", JsNull, false, true},
		{"undefined", JsUndefined, false, true},
		{"zero", Int(0), false, true},
		{"one", Int(1), true, true},
		{"negative", Int(-3), true, true},
		{"string", Str(""), false, false},
		{"block", Block{Tag: 0}, false, false},
		{"float", Float("0."), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, k := Truth(tt.c)
			assert.Equal(t, tt.known, k)
			if tt.known {
				assert.Equal(t, tt.value, v)
			}
		})
	}
}

func TestBool(t *testing.T) {
	assert.Equal(t, JsTrue, Bool(true))
	assert.Equal(t, JsFalse, Bool(false))
}

func TestEqApprox(t *testing.T) {
	tests := []struct {
		name string
		a, b Const
		want bool
	}{
		{"same int", Int(3), Int(3), true},
		{"different int", Int(3), Int(4), false},
		{"int vs char", Int(97), Char('a'), false},
		{"true", JsTrue, JsTrue, true},
		{"true vs false", JsTrue, JsFalse, false},
		{"null vs undefined", JsNull, JsUndefined, false},
		{"string", Str("a"), Str("a"), true},
		{"string unicode flag", Str("a"), String{Value: "a", Unicode: true}, false},
		{"float spelling", Float("1.0"), Float("1."), false},
		{"bigint", BigInt("10"), BigInt("10"), true},
		{"block", Block{Tag: 1, Fields: []Const{Int(1), Str("x")}}, Block{Tag: 1, Fields: []Const{Int(1), Str("x")}}, true},
		{"block tag", Block{Tag: 1}, Block{Tag: 2}, false},
		{"block arity", Block{Tag: 0, Fields: []Const{Int(1)}}, Block{Tag: 0}, false},
		{"block field", Block{Tag: 0, Fields: []Const{Int(1)}}, Block{Tag: 0, Fields: []Const{Int(2)}}, false},
		{"some", Some{Value: Int(1)}, Some{Value: Int(1)}, true},
		{"some vs value", Some{Value: Int(1)}, Int(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EqApprox(tt.a, tt.b))
			assert.Equal(t, tt.want, EqApprox(tt.b, tt.a))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "true", JsTrue.String())
	assert.Equal(t, "undefined", JsUndefined.String())
	assert.Equal(t, "-2", Int(-2).String())
	assert.Equal(t, "'a'", Char('a').String())
	assert.Equal(t, "10n", BigInt("10").String())
	assert.Equal(t, `"hi\n"`, Str("hi\n").String())
	assert.Equal(t, `[0: 1 "a"]`, Block{Fields: []Const{Int(1), Str("a")}}.String())
	assert.Equal(t, "[3:]", Block{Tag: 3}.String())
	assert.Equal(t, "(some null)", Some{Value: JsNull}.String())
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 0, Str("").UTF16Len())
	assert.Equal(t, 3, Str("abc").UTF16Len())
	assert.Equal(t, 1, Str("é").UTF16Len())
	assert.Equal(t, 2, Str("😀").UTF16Len())
}
