// Package primitive defines the builtin operations a Lam-IR primitive call can name.
//
// Primitive is a sealed interface. Nullary-parameter operations are values
// of Op; operations with parameters (comparison kind, block tag, field index,
// arity, foreign call description) are small struct types.
package primitive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/lamir/internal/ffi"
)

// Primitive is a sealed interface over builtin operations.
type Primitive interface {
	primitive() // Sealed - only these types implement it
	String() string
}

// Op is a builtin operation without parameters.
type Op int

const (
	Not Op = iota
	Neg
	Add
	Sub
	Mul
	Div
	Mod
	StringLength
	Box
	Unbox
	Raise
	IsNull
	IsUndefined
	IsNullUndefined
	Typeof
	NullToOpt
	UndefinedToOpt
	NullUndefinedToOpt
	UnwrapPolyVar
	MakeArray
	ArrayLength
)

var opNames = map[Op]string{
	Not:                "not",
	Neg:                "neg",
	Add:                "add",
	Sub:                "sub",
	Mul:                "mul",
	Div:                "div",
	Mod:                "mod",
	StringLength:       "strlen",
	Box:                "box",
	Unbox:              "unbox",
	Raise:              "raise",
	IsNull:             "is_null",
	IsUndefined:        "is_undefined",
	IsNullUndefined:    "is_null_undefined",
	Typeof:             "typeof",
	NullToOpt:          "null_to_opt",
	UndefinedToOpt:     "undefined_to_opt",
	NullUndefinedToOpt: "null_undefined_to_opt",
	UnwrapPolyVar:      "unwrap_polyvar",
	MakeArray:          "makearray",
	ArrayLength:        "arraylength",
}

func (Op) primitive() {}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp looks an Op up by its String form.
func ParseOp(s string) (Op, bool) {
	for o, name := range opNames {
		if name == s {
			return o, true
		}
	}
	return 0, false
}

// Comparison is an integer comparison operator.
type Comparison int

const (
	Eq Comparison = iota
	Neq
	Lt
	Le
	Gt
	Ge
)

var comparisonNames = [...]string{"eq", "neq", "lt", "le", "gt", "ge"}

func (c Comparison) String() string {
	if c >= 0 && int(c) < len(comparisonNames) {
		return comparisonNames[c]
	}
	return fmt.Sprintf("Comparison(%d)", int(c))
}

// ParseComparison looks a Comparison up by its String form.
func ParseComparison(s string) (Comparison, bool) {
	for i, name := range comparisonNames {
		if name == s {
			return Comparison(i), true
		}
	}
	return 0, false
}

// Negate returns the comparison that holds exactly when c does not.
// Valid for integers, which are totally ordered.
func (c Comparison) Negate() Comparison {
	switch c {
	case Eq:
		return Neq
	case Neq:
		return Eq
	case Lt:
		return Ge
	case Le:
		return Gt
	case Gt:
		return Le
	default:
		return Lt
	}
}

// Holds evaluates the comparison on two integers.
func (c Comparison) Holds(a, b int64) bool {
	switch c {
	case Eq:
		return a == b
	case Neq:
		return a != b
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	default:
		return a >= b
	}
}

// IntComp compares two integers.
type IntComp struct {
	Cmp Comparison
}

func (IntComp) primitive() {}

func (p IntComp) String() string { return p.Cmp.String() }

// MakeBlock allocates a tagged block of its arguments.
type MakeBlock struct {
	Tag     int
	Mutable bool
}

func (MakeBlock) primitive() {}

func (p MakeBlock) String() string {
	if p.Mutable {
		return fmt.Sprintf("makemutable %d", p.Tag)
	}
	return fmt.Sprintf("makeblock %d", p.Tag)
}

// Field reads a block field.
type Field struct {
	Index int
}

func (Field) primitive() {}

func (p Field) String() string { return fmt.Sprintf("field %d", p.Index) }

// SetField writes a mutable block field and returns unit.
type SetField struct {
	Index int
}

func (SetField) primitive() {}

func (p SetField) String() string { return fmt.Sprintf("setfield %d", p.Index) }

// FnMake converts a curried function to an uncurried one of the given arity.
type FnMake struct {
	Arity int
}

func (FnMake) primitive() {}

func (p FnMake) String() string { return fmt.Sprintf("fn_make %d", p.Arity) }

// JsCall invokes a foreign symbol. Params has one rule per argument of the call.
type JsCall struct {
	Name     string
	Params   ffi.Params
	External ffi.External
}

func (JsCall) primitive() {}

func (p JsCall) String() string {
	return fmt.Sprintf("js_call %s %s %s", p.Name, p.External.String(), p.Params.String())
}

// IsPure reports whether calling p can neither raise nor have an observable
// effect, assuming well-typed arguments. A pure call whose result is unused
// may be replaced by the evaluation of its arguments.
func IsPure(p Primitive) bool {
	switch p := p.(type) {
	case Op:
		switch p {
		case Not, Neg, Add, Sub, Mul, Box, IsNull, IsUndefined, IsNullUndefined, Typeof,
			NullToOpt, UndefinedToOpt, NullUndefinedToOpt, MakeArray:
			return true
		}
		return false
	case IntComp, MakeBlock, FnMake:
		return true
	default:
		return false
	}
}

// EqApprox reports whether two primitives certainly denote the same operation.
func EqApprox(a, b Primitive) bool {
	switch x := a.(type) {
	case Op:
		y, ok := b.(Op)
		return ok && x == y
	case IntComp:
		y, ok := b.(IntComp)
		return ok && x == y
	case MakeBlock:
		y, ok := b.(MakeBlock)
		return ok && x == y
	case Field:
		y, ok := b.(Field)
		return ok && x == y
	case SetField:
		y, ok := b.(SetField)
		return ok && x == y
	case FnMake:
		y, ok := b.(FnMake)
		return ok && x == y
	case JsCall:
		y, ok := b.(JsCall)
		return ok && x.Name == y.Name && x.External.Equal(y.External) && x.Params.Equal(y.Params)
	default:
		return false
	}
}

// Arity returns the number of arguments p takes, or -1 when it is variadic.
func Arity(p Primitive) int {
	switch p := p.(type) {
	case Op:
		switch p {
		case Add, Sub, Mul, Div, Mod:
			return 2
		case MakeArray:
			return -1
		}
		return 1
	case IntComp, SetField:
		return 2
	case MakeBlock:
		return -1
	case Field, FnMake:
		return 1
	case JsCall:
		return len(p.Params)
	default:
		return -1
	}
}

// Parse is the inverse of String for every primitive except JsCall,
// which only foreign call lowering produces.
func Parse(s string) (Primitive, bool) {
	if op, ok := ParseOp(s); ok {
		return op, true
	}
	if c, ok := ParseComparison(s); ok {
		return IntComp{Cmp: c}, true
	}
	name, arg, found := strings.Cut(s, " ")
	if !found {
		return nil, false
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, false
	}
	switch name {
	case "makeblock":
		return MakeBlock{Tag: n}, true
	case "makemutable":
		return MakeBlock{Tag: n, Mutable: true}, true
	case "field":
		return Field{Index: n}, true
	case "setfield":
		return SetField{Index: n}, true
	case "fn_make":
		return FnMake{Arity: n}, true
	}
	return nil, false
}
