package lam

import (
	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/primitive"
)

// EqApprox reports whether a and b certainly evaluate identically wherever
// one is substituted for the other. It may answer false for equal trees.
//
// Shapes that bind names or capture their context (functions, lets, loops
// with a loop variable, handlers) and integer switches are never equal;
// comparing them soundly would need scoping analysis.
func EqApprox(a, b Node) bool {
	mustBuilt("eqapprox", a)
	mustBuilt("eqapprox", b)
	switch x := a.(type) {
	case *GlobalModuleNode:
		y, ok := b.(*GlobalModuleNode)
		return ok && x.id == y.id
	case *VarNode:
		y, ok := b.(*VarNode)
		return ok && x.id == y.id
	case *ConstNode:
		y, ok := b.(*ConstNode)
		return ok && constant.EqApprox(x.c, y.c)
	case *ApplyNode:
		y, ok := b.(*ApplyNode)
		return ok && EqApprox(x.fn, y.fn) && eqApproxList(x.args, y.args)
	case *IfNode:
		y, ok := b.(*IfNode)
		return ok && EqApprox(x.cond, y.cond) && EqApprox(x.then, y.then) && EqApprox(x.els, y.els)
	case *SeqNode:
		y, ok := b.(*SeqNode)
		return ok && EqApprox(x.first, y.first) && EqApprox(x.second, y.second)
	case *WhileNode:
		y, ok := b.(*WhileNode)
		return ok && EqApprox(x.cond, y.cond) && EqApprox(x.body, y.body)
	case *AssignNode:
		y, ok := b.(*AssignNode)
		return ok && x.id == y.id && EqApprox(x.value, y.value)
	case *StaticRaiseNode:
		y, ok := b.(*StaticRaiseNode)
		return ok && x.label == y.label && eqApproxList(x.args, y.args)
	case *PrimNode:
		y, ok := b.(*PrimNode)
		return ok && primitive.EqApprox(x.prim, y.prim) && eqApproxList(x.args, y.args)
	case *StringSwitchNode:
		y, ok := b.(*StringSwitchNode)
		if !ok || !EqApprox(x.scrutinee, y.scrutinee) || len(x.cases) != len(y.cases) {
			return false
		}
		if (x.def == nil) != (y.def == nil) || (x.def != nil && !EqApprox(x.def, y.def)) {
			return false
		}
		for i := range x.cases {
			if x.cases[i].Value != y.cases[i].Value || !EqApprox(x.cases[i].Body, y.cases[i].Body) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func eqApproxList(xs, ys []Node) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !EqApprox(xs[i], ys[i]) {
			return false
		}
	}
	return true
}
