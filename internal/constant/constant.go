// Package constant provides the literal values carried by Lam-IR constant nodes.
//
// Const is a sealed interface: only the types in this package implement it.
// Constants are immutable; Block and Some hold other constants by value.
package constant

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Const is a sealed interface over literal values.
type Const interface {
	constant() // Sealed - only these types implement it
	String() string
}

type jsTrue struct{}
type jsFalse struct{}
type jsNull struct{}
type jsUndefined struct{}

func (jsTrue) constant()      {}
func (jsFalse) constant()     {}
func (jsNull) constant()      {}
func (jsUndefined) constant() {}

func (jsTrue) String() string      { return "true" }
func (jsFalse) String() string     { return "false" }
func (jsNull) String() string      { return "null" }
func (jsUndefined) String() string { return "undefined" }

// The JS singleton constants.
var (
	JsTrue      Const = jsTrue{}
	JsFalse     Const = jsFalse{}
	JsNull      Const = jsNull{}
	JsUndefined Const = jsUndefined{}
)

// Bool returns JsTrue or JsFalse.
func Bool(b bool) Const {
	if b {
		return JsTrue
	}
	return JsFalse
}

// Int is an integer literal.
type Int int64

func (Int) constant() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Char is a character literal.
type Char rune

func (Char) constant() {}

func (c Char) String() string { return strconv.QuoteRune(rune(c)) }

// Float is a float literal kept in its source spelling so that
// equality never depends on float rounding.
type Float string

func (Float) constant() {}

func (f Float) String() string { return string(f) }

// BigInt is an arbitrary-precision integer literal in decimal spelling.
type BigInt string

func (BigInt) constant() {}

func (b BigInt) String() string { return string(b) + "n" }

// String is a string literal.
// Unicode marks strings written with the unicode delimiter in source.
type String struct {
	Value   string
	Unicode bool
}

func (String) constant() {}

func (s String) String() string { return strconv.Quote(s.Value) }

// UTF16Len is the JS length of the string: its count of UTF-16 code units.
func (s String) UTF16Len() int {
	n := 0
	for _, r := range s.Value {
		n += utf16.RuneLen(r)
	}
	return n
}

// Str returns a plain string constant.
func Str(s string) String {
	return String{Value: s}
}

// Block is an immutable tagged block literal.
type Block struct {
	Tag    int
	Fields []Const
}

func (Block) constant() {}

func (b Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d:", b.Tag)
	for _, f := range b.Fields {
		sb.WriteByte(' ')
		sb.WriteString(f.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Some is a present optional value.
type Some struct {
	Value Const
}

func (Some) constant() {}

func (s Some) String() string { return "(some " + s.Value.String() + ")" }

// Truth returns the boolean a constant denotes when used as a condition.
// known is false when the constant's truthiness is not decided statically.
func Truth(c Const) (value bool, known bool) {
	switch v := c.(type) {
	case jsTrue:
		return true, true
	case jsFalse, jsNull, jsUndefined:
		return false, true
	case Int:
		return v != 0, true
	default:
		return false, false
	}
}

// EqApprox reports whether two constants are certainly the same value.
// Floats and big integers compare by spelling, so "1.0" and "1." differ;
// that only ever under-reports equality.
func EqApprox(a, b Const) bool {
	switch x := a.(type) {
	case jsTrue, jsFalse, jsNull, jsUndefined:
		return a == b
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case BigInt:
		y, ok := b.(BigInt)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x.Value == y.Value && x.Unicode == y.Unicode
	case Block:
		y, ok := b.(Block)
		if !ok || x.Tag != y.Tag || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !EqApprox(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	case Some:
		y, ok := b.(Some)
		return ok && EqApprox(x.Value, y.Value)
	default:
		return false
	}
}
