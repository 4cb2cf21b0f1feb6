package eval

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
)

// Value is a runtime value, modelled on the JS values the backend emits.
// Options are unboxed: None is Undefined and Some(v) is v.
type Value interface {
	value() // Sealed - only these types implement it
	String() string
}

// Int is a JS integer.
type Int int64

// Float is a JS number that is not an integer literal.
type Float float64

// Bool is a JS boolean.
type Bool bool

// Str is a JS string.
type Str string

// BigInt is a JS bigint.
type BigInt struct {
	V *big.Int
}

// Null is JS null.
type Null struct{}

// Undefined is JS undefined; it also represents unit and None.
type Undefined struct{}

// Block is a tagged block. Only mutable blocks accept SetField.
type Block struct {
	Tag     int
	Fields  []Value
	Mutable bool
}

// Array is a JS array.
type Array struct {
	Elems []Value
}

// Closure is a function value.
type Closure struct {
	params []ident.Ident
	body   lam.Node
	env    *env
}

// Partial is a closure applied to fewer arguments than its arity.
type Partial struct {
	fn   Value
	args []Value
}

// ForeignFunc is a host function bound to an external symbol.
type ForeignFunc func(args []Value) (Value, error)

func (Int) value()         {}
func (Float) value()       {}
func (Bool) value()        {}
func (Str) value()         {}
func (BigInt) value()      {}
func (Null) value()        {}
func (Undefined) value()   {}
func (*Block) value()      {}
func (*Array) value()      {}
func (*Closure) value()    {}
func (*Partial) value()    {}
func (ForeignFunc) value() {}

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

func (v Str) String() string { return strconv.Quote(string(v)) }

func (v BigInt) String() string { return v.V.String() + "n" }

func (Null) String() string { return "null" }

func (Undefined) String() string { return "undefined" }

func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d:", b.Tag)
	for _, f := range b.Fields {
		sb.WriteByte(' ')
		sb.WriteString(f.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[|" + strings.Join(parts, " ") + "|]"
}

func (c *Closure) String() string { return fmt.Sprintf("<function/%d>", len(c.params)) }

func (p *Partial) String() string { return fmt.Sprintf("<partial/%d>", len(p.args)) }

func (ForeignFunc) String() string { return "<foreign>" }

// Truthy implements JS truthiness.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Int:
		return v != 0
	case Float:
		return v != 0 && !math.IsNaN(float64(v))
	case Str:
		return v != ""
	case BigInt:
		return v.V.Sign() != 0
	case Null, Undefined:
		return false
	default:
		return true
	}
}

// Typeof returns the JS typeof of v.
func Typeof(v Value) string {
	switch v.(type) {
	case Int, Float:
		return "number"
	case Bool:
		return "boolean"
	case Str:
		return "string"
	case BigInt:
		return "bigint"
	case Undefined:
		return "undefined"
	case *Closure, *Partial, ForeignFunc:
		return "function"
	default:
		return "object"
	}
}

// Equal reports structural equality. Functions are never equal.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Int, Float, Bool, Str, Null, Undefined:
		return a == b
	case BigInt:
		y, ok := b.(BigInt)
		return ok && x.V.Cmp(y.V) == 0
	case *Block:
		y, ok := b.(*Block)
		return ok && x.Tag == y.Tag && equalAll(x.Fields, y.Fields)
	case *Array:
		y, ok := b.(*Array)
		return ok && equalAll(x.Elems, y.Elems)
	default:
		return false
	}
}

func equalAll(xs, ys []Value) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

// FromConst converts a literal to its runtime value.
func FromConst(c constant.Const) (Value, error) {
	switch v := c.(type) {
	case constant.Int:
		return Int(v), nil
	case constant.Char:
		return Int(v), nil
	case constant.Float:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return nil, fmt.Errorf("float literal %q: %w", string(v), err)
		}
		return Float(f), nil
	case constant.BigInt:
		n, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("bigint literal %q is not decimal", string(v))
		}
		return BigInt{V: n}, nil
	case constant.String:
		return Str(v.Value), nil
	case constant.Block:
		fields := make([]Value, len(v.Fields))
		for i, f := range v.Fields {
			fv, err := FromConst(f)
			if err != nil {
				return nil, err
			}
			fields[i] = fv
		}
		return &Block{Tag: v.Tag, Fields: fields}, nil
	case constant.Some:
		return FromConst(v.Value)
	}
	switch c {
	case constant.JsTrue:
		return Bool(true), nil
	case constant.JsFalse:
		return Bool(false), nil
	case constant.JsNull:
		return Null{}, nil
	case constant.JsUndefined:
		return Undefined{}, nil
	}
	return nil, fmt.Errorf("unsupported constant %T", c)
}
