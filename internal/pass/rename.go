package pass

import (
	"maps"
	"slices"

	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
)

// Rename replaces free occurrences of each key of m by its value.
//
// Occurrences bound inside n are left alone. A binder that would capture a
// replacement is itself renamed to a fresh identifier, numbered after the
// largest stamp in n and m. Non-binding nodes keep their shape: nothing is
// refolded.
func Rename(n lam.Node, m map[ident.Ident]ident.Ident) lam.Node {
	if len(m) == 0 {
		return n
	}
	r := &renamer{gen: ident.NewGeneratorAt(maxStamp(n, m))}
	return r.rename(n, m)
}

type renamer struct {
	gen *ident.Generator
}

func (r *renamer) rename(n lam.Node, m map[ident.Ident]ident.Ident) lam.Node {
	if len(m) == 0 {
		return n
	}
	switch n := n.(type) {
	case *lam.VarNode:
		if to, ok := m[n.Ident()]; ok {
			return lam.Var(to)
		}
		return n
	case *lam.AssignNode:
		id := n.Ident()
		if to, ok := m[id]; ok {
			id = to
		}
		return lam.Assign(id, r.rename(n.Value(), m))
	case *lam.FunctionNode:
		params, inner := r.enter(m, n.Params()...)
		return lam.Function(n.Attr(), n.Arity(), params, r.rename(n.Body(), inner))
	case *lam.LetNode:
		ids, inner := r.enter(m, n.Ident())
		return lam.Let(n.LetKind(), ids[0], r.rename(n.Value(), m), r.rename(n.Body(), inner))
	case *lam.LetRecNode:
		bindings := n.Bindings()
		ids := make([]ident.Ident, len(bindings))
		for i, b := range bindings {
			ids[i] = b.Ident
		}
		ids, inner := r.enter(m, ids...)
		for i := range bindings {
			bindings[i] = lam.Binding{Ident: ids[i], Value: r.rename(bindings[i].Value, inner)}
		}
		return lam.LetRec(bindings, r.rename(n.Body(), inner))
	case *lam.StaticCatchNode:
		params, inner := r.enter(m, n.Params()...)
		return lam.StaticCatch(r.rename(n.Body(), m), n.Label(), params, r.rename(n.Handler(), inner))
	case *lam.TryNode:
		ids, inner := r.enter(m, n.Ident())
		return lam.Try(r.rename(n.Body(), m), ids[0], r.rename(n.Handler(), inner))
	case *lam.ForNode:
		ids, inner := r.enter(m, n.Ident())
		return lam.For(ids[0], r.rename(n.From(), m), r.rename(n.To(), m), n.Direction(), r.rename(n.Body(), inner))
	default:
		return lam.InnerMap(n, func(c lam.Node) lam.Node { return r.rename(c, m) })
	}
}

// enter returns the binder identifiers to use for a scope and the mapping
// that applies inside it. A binder shadows its own key; a binder that is the
// target of a replacement is freshened.
func (r *renamer) enter(m map[ident.Ident]ident.Ident, ids ...ident.Ident) ([]ident.Ident, map[ident.Ident]ident.Ident) {
	inner := maps.Clone(m)
	for _, id := range ids {
		delete(inner, id)
	}
	out := slices.Clone(ids)
	for i, id := range ids {
		if targets(inner, id) {
			out[i] = r.gen.Fresh(id.Name)
			inner[id] = out[i]
		}
	}
	return out, inner
}

func targets(m map[ident.Ident]ident.Ident, id ident.Ident) bool {
	for from, to := range m {
		if to == id && from != id {
			return true
		}
	}
	return false
}

func maxStamp(n lam.Node, m map[ident.Ident]ident.Ident) int64 {
	var hi int64
	for from, to := range m {
		hi = max(hi, from.Stamp, to.Stamp)
	}
	Subterms(n, func(_ []int, c lam.Node) bool {
		for _, id := range binders(c) {
			hi = max(hi, id.Stamp)
		}
		switch c := c.(type) {
		case *lam.VarNode:
			hi = max(hi, c.Ident().Stamp)
		case *lam.AssignNode:
			hi = max(hi, c.Ident().Stamp)
		}
		return true
	})
	return hi
}

// binders lists the identifiers n itself binds.
func binders(n lam.Node) []ident.Ident {
	switch n := n.(type) {
	case *lam.FunctionNode:
		return n.Params()
	case *lam.LetNode:
		return []ident.Ident{n.Ident()}
	case *lam.LetRecNode:
		var ids []ident.Ident
		for _, b := range n.Bindings() {
			ids = append(ids, b.Ident)
		}
		return ids
	case *lam.StaticCatchNode:
		return n.Params()
	case *lam.TryNode:
		return []ident.Ident{n.Ident()}
	case *lam.ForNode:
		return []ident.Ident{n.Ident()}
	}
	return nil
}
