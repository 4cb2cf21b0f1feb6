package lam

// InnerMap returns a node of the same shape as n with f applied to every
// direct child, in evaluation order. Non-node payload (identifiers,
// locations, flags, tags, names) is carried over unchanged.
//
// InnerMap does not descend further and does not fold: the result is
// rebuilt as-is. A pass that wants the constructors' folds to fire again
// passes the rebuilt node to Refold. f must not return nil.
func InnerMap(n Node, f func(Node) Node) Node {
	mustBuilt("innermap", n)
	apply := func(c Node) Node {
		r := f(c)
		if r == nil {
			violate("innermap", "transform returned nil for %s child of %s", c.Kind(), n.Kind())
		}
		return r
	}
	mapAll := func(ns []Node) []Node {
		out := make([]Node, len(ns))
		for i, c := range ns {
			out[i] = apply(c)
		}
		return out
	}

	switch n := n.(type) {
	case *VarNode, *GlobalModuleNode, *ConstNode:
		return n
	case *ApplyNode:
		fn := apply(n.fn)
		return &ApplyNode{fn: fn, args: mapAll(n.args), info: n.info}
	case *FunctionNode:
		return &FunctionNode{arity: n.arity, params: n.params, body: apply(n.body), attr: n.attr}
	case *LetNode:
		value := apply(n.value)
		return &LetNode{kind: n.kind, id: n.id, value: value, body: apply(n.body)}
	case *LetRecNode:
		bindings := make([]Binding, len(n.bindings))
		for i, b := range n.bindings {
			bindings[i] = Binding{Ident: b.Ident, Value: apply(b.Value)}
		}
		return &LetRecNode{bindings: bindings, body: apply(n.body)}
	case *PrimNode:
		return &PrimNode{prim: n.prim, args: mapAll(n.args), loc: n.loc}
	case *SwitchNode:
		scrutinee := apply(n.scrutinee)
		t := n.table
		t.Consts = mapCases(t.Consts, apply)
		t.Blocks = mapCases(t.Blocks, apply)
		if t.FailAction != nil {
			t.FailAction = apply(t.FailAction)
		}
		return &SwitchNode{scrutinee: scrutinee, table: t}
	case *StringSwitchNode:
		scrutinee := apply(n.scrutinee)
		cases := make([]StringCase, len(n.cases))
		for i, c := range n.cases {
			cases[i] = StringCase{Value: c.Value, Body: apply(c.Body)}
		}
		var def Node
		if n.def != nil {
			def = apply(n.def)
		}
		return &StringSwitchNode{scrutinee: scrutinee, cases: cases, def: def}
	case *StaticRaiseNode:
		return &StaticRaiseNode{label: n.label, args: mapAll(n.args)}
	case *StaticCatchNode:
		body := apply(n.body)
		return &StaticCatchNode{body: body, label: n.label, params: n.params, handler: apply(n.handler)}
	case *TryNode:
		body := apply(n.body)
		return &TryNode{body: body, id: n.id, handler: apply(n.handler)}
	case *IfNode:
		cond := apply(n.cond)
		then := apply(n.then)
		return &IfNode{cond: cond, then: then, els: apply(n.els)}
	case *SeqNode:
		first := apply(n.first)
		return &SeqNode{first: first, second: apply(n.second)}
	case *WhileNode:
		cond := apply(n.cond)
		return &WhileNode{cond: cond, body: apply(n.body)}
	case *ForNode:
		from := apply(n.from)
		to := apply(n.to)
		return &ForNode{id: n.id, from: from, to: to, dir: n.dir, body: apply(n.body)}
	case *AssignNode:
		return &AssignNode{id: n.id, value: apply(n.value)}
	default:
		violate("innermap", "unknown node %T", n)
		return nil
	}
}

func mapCases(cases []Case, f func(Node) Node) []Case {
	if cases == nil {
		return nil
	}
	out := make([]Case, len(cases))
	for i, c := range cases {
		out[i] = Case{Tag: c.Tag, Body: f(c.Body)}
	}
	return out
}

// InnerIter calls f on every direct child of n, in the order InnerMap visits them.
func InnerIter(n Node, f func(Node)) {
	mustBuilt("inneriter", n)
	switch n := n.(type) {
	case *VarNode, *GlobalModuleNode, *ConstNode:
	case *ApplyNode:
		f(n.fn)
		for _, a := range n.args {
			f(a)
		}
	case *FunctionNode:
		f(n.body)
	case *LetNode:
		f(n.value)
		f(n.body)
	case *LetRecNode:
		for _, b := range n.bindings {
			f(b.Value)
		}
		f(n.body)
	case *PrimNode:
		for _, a := range n.args {
			f(a)
		}
	case *SwitchNode:
		f(n.scrutinee)
		for _, c := range n.table.Consts {
			f(c.Body)
		}
		for _, c := range n.table.Blocks {
			f(c.Body)
		}
		if n.table.FailAction != nil {
			f(n.table.FailAction)
		}
	case *StringSwitchNode:
		f(n.scrutinee)
		for _, c := range n.cases {
			f(c.Body)
		}
		if n.def != nil {
			f(n.def)
		}
	case *StaticRaiseNode:
		for _, a := range n.args {
			f(a)
		}
	case *StaticCatchNode:
		f(n.body)
		f(n.handler)
	case *TryNode:
		f(n.body)
		f(n.handler)
	case *IfNode:
		f(n.cond)
		f(n.then)
		f(n.els)
	case *SeqNode:
		f(n.first)
		f(n.second)
	case *WhileNode:
		f(n.cond)
		f(n.body)
	case *ForNode:
		f(n.from)
		f(n.to)
		f(n.body)
	case *AssignNode:
		f(n.value)
	default:
		violate("inneriter", "unknown node %T", n)
	}
}

// Refold routes the top node of n back through its smart constructor so
// that folds enabled by rewritten children fire. Children are not revisited.
func Refold(n Node) Node {
	mustBuilt("refold", n)
	switch n := n.(type) {
	case *VarNode, *GlobalModuleNode:
		return n
	case *ConstNode:
		return Const(n.c)
	case *ApplyNode:
		return Apply(n.fn, n.args, n.info)
	case *FunctionNode:
		return Function(n.attr, n.arity, n.params, n.body)
	case *LetNode:
		return Let(n.kind, n.id, n.value, n.body)
	case *LetRecNode:
		return LetRec(n.bindings, n.body)
	case *PrimNode:
		return Prim(n.prim, n.args, n.loc)
	case *SwitchNode:
		return Switch(n.scrutinee, n.table)
	case *StringSwitchNode:
		return StringSwitch(n.scrutinee, n.cases, n.def)
	case *StaticRaiseNode:
		return StaticRaise(n.label, n.args)
	case *StaticCatchNode:
		return StaticCatch(n.body, n.label, n.params, n.handler)
	case *TryNode:
		return Try(n.body, n.id, n.handler)
	case *IfNode:
		return If(n.cond, n.then, n.els)
	case *SeqNode:
		return Seq(n.first, n.second)
	case *WhileNode:
		return While(n.cond, n.body)
	case *ForNode:
		return For(n.id, n.from, n.to, n.dir, n.body)
	case *AssignNode:
		return Assign(n.id, n.value)
	default:
		violate("refold", "unknown node %T", n)
		return nil
	}
}
