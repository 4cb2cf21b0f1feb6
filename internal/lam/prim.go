package lam

import (
	"slices"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

// Prim builds a primitive call. It is the only place primitive calls are
// created, so every fold on builtin operations lives here. Folds fire only
// when all inputs are constants, so nothing effectful is ever dropped.
func Prim(p primitive.Primitive, args []Node, loc ident.Loc) Node {
	if p == nil {
		violate("prim", "nil primitive")
	}
	mustNodes("prim", args...)
	if n := primitive.Arity(p); n >= 0 && len(args) != n {
		violate("prim", "%s takes %d argument(s), got %d", p, n, len(args))
	}
	if folded := foldPrim(p, args); folded != nil {
		return folded
	}
	return &PrimNode{prim: p, args: slices.Clone(args), loc: loc}
}

func foldPrim(p primitive.Primitive, args []Node) Node {
	switch p := p.(type) {
	case primitive.Op:
		return foldOp(p, args)
	case primitive.IntComp:
		a, aok := intArg(args[0])
		b, bok := intArg(args[1])
		if aok && bok {
			return Const(constant.Bool(p.Cmp.Holds(a, b)))
		}
	case primitive.Field:
		if blk, ok := constArg(args[0]).(constant.Block); ok && p.Index >= 0 && p.Index < len(blk.Fields) {
			return Const(blk.Fields[p.Index])
		}
	}
	return nil
}

func foldOp(op primitive.Op, args []Node) Node {
	switch op {
	case primitive.Not:
		return foldNot(args[0])
	case primitive.Neg:
		if a, ok := intArg(args[0]); ok {
			return Const(constant.Int(-a))
		}
	case primitive.Add, primitive.Sub, primitive.Mul, primitive.Div, primitive.Mod:
		a, aok := intArg(args[0])
		b, bok := intArg(args[1])
		if !aok || !bok {
			return nil
		}
		switch op {
		case primitive.Add:
			return Const(constant.Int(a + b))
		case primitive.Sub:
			return Const(constant.Int(a - b))
		case primitive.Mul:
			return Const(constant.Int(a * b))
		case primitive.Div:
			if b != 0 {
				return Const(constant.Int(a / b))
			}
		case primitive.Mod:
			if b != 0 {
				return Const(constant.Int(a % b))
			}
		}
	case primitive.StringLength:
		if s, ok := constArg(args[0]).(constant.String); ok {
			return Const(constant.Int(s.UTF16Len()))
		}
	case primitive.Unbox:
		if blk, ok := constArg(args[0]).(constant.Block); ok && len(blk.Fields) > 0 {
			return Const(blk.Fields[0])
		}
	case primitive.IsNull, primitive.IsUndefined, primitive.IsNullUndefined:
		c := constArg(args[0])
		if c == nil {
			return nil
		}
		isNull := c == constant.JsNull
		isUndef := c == constant.JsUndefined
		switch op {
		case primitive.IsNull:
			return Const(constant.Bool(isNull))
		case primitive.IsUndefined:
			return Const(constant.Bool(isUndef))
		default:
			return Const(constant.Bool(isNull || isUndef))
		}
	}
	return nil
}

// foldNot handles constant truth, double negation and negated comparisons.
func foldNot(x Node) Node {
	if c := constArg(x); c != nil {
		if v, known := constant.Truth(c); known {
			return Const(constant.Bool(!v))
		}
	}
	p, ok := x.(*PrimNode)
	if !ok {
		return nil
	}
	switch q := p.prim.(type) {
	case primitive.Op:
		if q == primitive.Not {
			return p.args[0]
		}
	case primitive.IntComp:
		return &PrimNode{prim: primitive.IntComp{Cmp: q.Cmp.Negate()}, args: p.args, loc: p.loc}
	}
	return nil
}

func constArg(n Node) constant.Const {
	if c, ok := n.(*ConstNode); ok {
		return c.c
	}
	return nil
}

func intArg(n Node) (int64, bool) {
	if i, ok := constArg(n).(constant.Int); ok {
		return int64(i), true
	}
	return 0, false
}
