package lam

import (
	"slices"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

var (
	trueNode  = &ConstNode{c: constant.JsTrue}
	falseNode = &ConstNode{c: constant.JsFalse}
	unitNode  = &ConstNode{c: constant.JsUndefined}
)

// True returns the canonical true constant.
func True() Node { return trueNode }

// False returns the canonical false constant.
func False() Node { return falseNode }

// Unit returns the canonical unit constant.
func Unit() Node { return unitNode }

// Var references id.
func Var(id ident.Ident) Node {
	return &VarNode{id: id}
}

// GlobalModule references the external module id.
func GlobalModule(id ident.Ident) Node {
	return &GlobalModuleNode{id: id}
}

// Const wraps a literal. The boolean and unit literals share the singletons.
func Const(c constant.Const) Node {
	if c == nil {
		violate("const", "nil constant")
	}
	switch c {
	case constant.JsTrue:
		return trueNode
	case constant.JsFalse:
		return falseNode
	case constant.JsUndefined:
		return unitNode
	}
	return &ConstNode{c: c}
}

// Apply builds a call. No arity checking is done here; later passes refine
// info.Status.
func Apply(fn Node, args []Node, info ApInfo) Node {
	mustNodes("apply", fn)
	mustNodes("apply", args...)
	return &ApplyNode{fn: fn, args: slices.Clone(args), info: info}
}

// WithStatus returns the application with its status refined to s.
// Moving a decided status anywhere else is a contract violation.
func (n *ApplyNode) WithStatus(s ApStatus) Node {
	if !s.Refines(n.info.Status) {
		violate("apply", "status %s cannot regress to %s", n.info.Status, s)
	}
	info := n.info
	info.Status = s
	return Apply(n.fn, n.args, info)
}

// Function builds a function literal. arity must equal len(params).
func Function(attr FunctionAttr, arity int, params []ident.Ident, body Node) Node {
	mustNodes("function", body)
	if arity != len(params) {
		violate("function", "arity %d does not match %d parameter(s)", arity, len(params))
	}
	return &FunctionNode{arity: arity, params: slices.Clone(params), body: body, attr: attr}
}

// Let binds id to value in body.
func Let(kind LetKind, id ident.Ident, value, body Node) Node {
	mustNodes("let", value, body)
	return &LetNode{kind: kind, id: id, value: value, body: body}
}

// LetRec binds a group of mutually recursive definitions in body.
// An empty group is just body.
func LetRec(bindings []Binding, body Node) Node {
	mustNodes("letrec", body)
	for _, b := range bindings {
		mustNodes("letrec", b.Value)
	}
	if len(bindings) == 0 {
		return body
	}
	return &LetRecNode{bindings: slices.Clone(bindings), body: body}
}

// If builds a conditional, folding it when the outcome is decided locally:
//   - a constant condition selects its branch;
//   - If(c, true, false) is c and If(c, false, true) is Not(c);
//   - If(Not(c), a, b) is If(c, b, a);
//   - approximately equal branches give Seq(c, then), keeping c's effects.
func If(cond, then, els Node) Node {
	mustNodes("if", cond, then, els)
	if c, ok := cond.(*ConstNode); ok {
		if v, known := constant.Truth(c.c); known {
			if v {
				return then
			}
			return els
		}
	}
	if p, ok := cond.(*PrimNode); ok && p.prim == primitive.Not {
		return If(p.args[0], els, then)
	}
	switch {
	case then == trueNode && els == falseNode:
		return cond
	case then == falseNode && els == trueNode:
		return Not(ident.None, cond)
	}
	if EqApprox(then, els) {
		return Seq(cond, then)
	}
	return &IfNode{cond: cond, then: then, els: els}
}

// SeqOr is the short-circuit "l || r".
func SeqOr(l, r Node) Node {
	return If(l, True(), r)
}

// SeqAnd is the short-circuit "l && r".
func SeqAnd(l, r Node) Node {
	return If(l, r, False())
}

// Not negates x. Folding happens in Prim.
func Not(loc ident.Loc, x Node) Node {
	return Prim(primitive.Not, []Node{x}, loc)
}

// Seq evaluates a for its effects, then b.
// An a with no observable effect is dropped: variables, constants, global
// module references, and pure primitive calls (whose arguments are kept).
// Calls, mutations and raises are never dropped.
func Seq(a, b Node) Node {
	mustNodes("seq", a, b)
	switch a := a.(type) {
	case *VarNode, *ConstNode, *GlobalModuleNode:
		return b
	case *PrimNode:
		if primitive.IsPure(a.prim) {
			r := b
			for i := len(a.args) - 1; i >= 0; i-- {
				r = Seq(a.args[i], r)
			}
			return r
		}
	}
	return &SeqNode{first: a, second: b}
}

// While builds a loop.
func While(cond, body Node) Node {
	mustNodes("while", cond, body)
	return &WhileNode{cond: cond, body: body}
}

// For builds a counted loop over the inclusive range [from, to].
func For(id ident.Ident, from, to Node, dir Direction, body Node) Node {
	mustNodes("for", from, to, body)
	return &ForNode{id: id, from: from, to: to, dir: dir, body: body}
}

// Try runs body, binding a raised exception to id in handler.
func Try(body Node, id ident.Ident, handler Node) Node {
	mustNodes("try", body, handler)
	return &TryNode{body: body, id: id, handler: handler}
}

// Assign mutates the Variable binding id.
func Assign(id ident.Ident, value Node) Node {
	mustNodes("assign", value)
	return &AssignNode{id: id, value: value}
}

// StaticRaise exits to the nearest enclosing StaticCatch with the same label.
// Labels are not checked here.
func StaticRaise(label int, args []Node) Node {
	mustNodes("staticraise", args...)
	return &StaticRaiseNode{label: label, args: slices.Clone(args)}
}

// StaticCatch runs body; a StaticRaise of label inside it binds params and
// continues with handler.
func StaticCatch(body Node, label int, params []ident.Ident, handler Node) Node {
	mustNodes("staticcatch", body, handler)
	return &StaticCatchNode{body: body, label: label, params: slices.Clone(params), handler: handler}
}
