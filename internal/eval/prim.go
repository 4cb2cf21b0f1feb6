package eval

import (
	"context"
	"math"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ffi"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

func (in *Interpreter) prim(ctx context.Context, p primitive.Primitive, args []Value, loc ident.Loc) (Value, error) {
	switch p := p.(type) {
	case primitive.Op:
		return in.op(p, args, loc)

	case primitive.IntComp:
		// Integers compare exactly; going through float64 would equate
		// neighbours above 2^53.
		if x, ok := args[0].(Int); ok {
			if y, ok := args[1].(Int); ok {
				return Bool(p.Cmp.Holds(int64(x), int64(y))), nil
			}
		}
		a, b, err := numbers(p, args, loc)
		if err != nil {
			return nil, err
		}
		return Bool(compare(p.Cmp, a, b)), nil

	case primitive.MakeBlock:
		fields := make([]Value, len(args))
		copy(fields, args)
		return &Block{Tag: p.Tag, Fields: fields, Mutable: p.Mutable}, nil

	case primitive.Field:
		b, ok := args[0].(*Block)
		if !ok || p.Index < 0 || p.Index >= len(b.Fields) {
			return nil, runtimeErr(ErrCodeTypeMismatch, loc, "%s of %s", p, args[0])
		}
		return b.Fields[p.Index], nil

	case primitive.SetField:
		b, ok := args[0].(*Block)
		if !ok || !b.Mutable || p.Index < 0 || p.Index >= len(b.Fields) {
			return nil, runtimeErr(ErrCodeTypeMismatch, loc, "%s of %s", p, args[0])
		}
		b.Fields[p.Index] = args[1]
		return Undefined{}, nil

	case primitive.FnMake:
		// Application already accepts both calling conventions.
		switch args[0].(type) {
		case *Closure, *Partial, ForeignFunc:
			return args[0], nil
		}
		return nil, runtimeErr(ErrCodeNotCallable, loc, "%s of %s", p, args[0])

	case primitive.JsCall:
		return in.jsCall(ctx, p, args, loc)

	default:
		return nil, runtimeErr(ErrCodeTypeMismatch, loc, "unsupported primitive %s", p)
	}
}

func (in *Interpreter) op(op primitive.Op, args []Value, loc ident.Loc) (Value, error) {
	switch op {
	case primitive.Not:
		return Bool(!Truthy(args[0])), nil

	case primitive.Neg:
		switch v := args[0].(type) {
		case Int:
			return -v, nil
		case Float:
			return -v, nil
		}
		return nil, runtimeErr(ErrCodeTypeMismatch, loc, "neg of %s", args[0])

	case primitive.Add, primitive.Sub, primitive.Mul, primitive.Div, primitive.Mod:
		return arith(op, args[0], args[1], loc)

	case primitive.StringLength:
		s, ok := args[0].(Str)
		if !ok {
			return nil, runtimeErr(ErrCodeTypeMismatch, loc, "strlen of %s", args[0])
		}
		return Int(constant.Str(string(s)).UTF16Len()), nil

	case primitive.Box:
		return &Block{Tag: 0, Fields: []Value{args[0]}}, nil

	case primitive.Unbox:
		b, ok := args[0].(*Block)
		if !ok || len(b.Fields) == 0 {
			return nil, runtimeErr(ErrCodeTypeMismatch, loc, "unbox of %s", args[0])
		}
		return b.Fields[0], nil

	case primitive.Raise:
		return nil, &Exception{Value: args[0]}

	case primitive.IsNull:
		_, ok := args[0].(Null)
		return Bool(ok), nil

	case primitive.IsUndefined:
		_, ok := args[0].(Undefined)
		return Bool(ok), nil

	case primitive.IsNullUndefined:
		return Bool(isNullish(args[0])), nil

	case primitive.Typeof:
		return Str(Typeof(args[0])), nil

	case primitive.NullToOpt, primitive.NullUndefinedToOpt:
		if isNullish(args[0]) {
			return Undefined{}, nil
		}
		return args[0], nil

	case primitive.UndefinedToOpt:
		return args[0], nil

	case primitive.UnwrapPolyVar:
		// A polymorphic variant with payload is [hash: name payload].
		if b, ok := args[0].(*Block); ok && len(b.Fields) == 2 {
			return b.Fields[1], nil
		}
		return args[0], nil

	case primitive.MakeArray:
		elems := make([]Value, len(args))
		copy(elems, args)
		return &Array{Elems: elems}, nil

	case primitive.ArrayLength:
		a, ok := args[0].(*Array)
		if !ok {
			return nil, runtimeErr(ErrCodeTypeMismatch, loc, "arraylength of %s", args[0])
		}
		return Int(len(a.Elems)), nil

	default:
		return nil, runtimeErr(ErrCodeTypeMismatch, loc, "unsupported primitive %s", op)
	}
}

func isNullish(v Value) bool {
	switch v.(type) {
	case Null, Undefined:
		return true
	}
	return false
}

func arith(op primitive.Op, a, b Value, loc ident.Loc) (Value, error) {
	x, xok := a.(Int)
	y, yok := b.(Int)
	if xok && yok {
		switch op {
		case primitive.Add:
			return x + y, nil
		case primitive.Sub:
			return x - y, nil
		case primitive.Mul:
			return x * y, nil
		}
		if y == 0 {
			return nil, runtimeErr(ErrCodeDivisionByZero, loc, "%s %s by zero", op, a)
		}
		if op == primitive.Div {
			return x / y, nil
		}
		return x % y, nil
	}

	fx, ok1 := toFloat(a)
	fy, ok2 := toFloat(b)
	if !ok1 || !ok2 {
		return nil, runtimeErr(ErrCodeTypeMismatch, loc, "%s of %s and %s", op, a, b)
	}
	switch op {
	case primitive.Add:
		return Float(fx + fy), nil
	case primitive.Sub:
		return Float(fx - fy), nil
	case primitive.Mul:
		return Float(fx * fy), nil
	case primitive.Div:
		return Float(fx / fy), nil
	default:
		return Float(math.Mod(fx, fy)), nil
	}
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

func numbers(p primitive.Primitive, args []Value, loc ident.Loc) (float64, float64, error) {
	a, ok1 := toFloat(args[0])
	b, ok2 := toFloat(args[1])
	if !ok1 || !ok2 {
		return 0, 0, runtimeErr(ErrCodeTypeMismatch, loc, "%s of %s and %s", p, args[0], args[1])
	}
	return a, b, nil
}

func compare(c primitive.Comparison, a, b float64) bool {
	switch c {
	case primitive.Eq:
		return a == b
	case primitive.Neq:
		return a != b
	case primitive.Lt:
		return a < b
	case primitive.Le:
		return a <= b
	case primitive.Gt:
		return a > b
	default:
		return a >= b
	}
}

// jsCall marshals the evaluated arguments per their rules and calls the host
// binding. Every argument has already been evaluated, in order, so ignored
// arguments keep their effects.
func (in *Interpreter) jsCall(ctx context.Context, p primitive.JsCall, args []Value, loc ident.Loc) (Value, error) {
	var actual []Value
	for i, spec := range p.Params {
		switch spec.Kind {
		case ffi.ArgIgnore, ffi.ArgUnit:
		case ffi.ArgConst:
			v, err := FromConst(spec.Const)
			if err != nil {
				return nil, runtimeErr(ErrCodeTypeMismatch, loc, "%v", err)
			}
			actual = append(actual, v)
		case ffi.ArgSpread:
			arr, ok := args[i].(*Array)
			if !ok {
				return nil, runtimeErr(ErrCodeTypeMismatch, loc, "spread of %s", args[i])
			}
			actual = append(actual, arr.Elems...)
		default:
			actual = append(actual, args[i])
		}
	}

	var key string
	switch p.External.Kind {
	case ffi.ExtNew:
		key = "new " + p.External.Path()
	case ffi.ExtSend:
		key = "." + p.External.Name
	default:
		key = p.External.Path()
	}
	fn, ok := in.opts.Foreign[key]
	if !ok {
		return nil, runtimeErr(ErrCodeUnknownForeign, loc, "no binding for %q", key)
	}
	in.logger.Debug("foreign call", "symbol", key, "args", len(actual))
	return in.apply(ctx, fn, actual, loc)
}
