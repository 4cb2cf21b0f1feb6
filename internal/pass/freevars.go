package pass

import (
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
)

// FreeVars returns the identifiers n references without binding them.
// Assignment targets count as references. Global module references do not.
func FreeVars(n lam.Node) *ident.Set {
	free := ident.NewSet()
	freeVars(n, ident.NewSet(), free)
	return free
}

func freeVars(n lam.Node, bound, free *ident.Set) {
	switch n := n.(type) {
	case *lam.VarNode:
		if !bound.Contains(n.Ident()) {
			free.Insert(n.Ident())
		}
	case *lam.AssignNode:
		if !bound.Contains(n.Ident()) {
			free.Insert(n.Ident())
		}
		freeVars(n.Value(), bound, free)
	case *lam.FunctionNode:
		freeVars(n.Body(), with(bound, n.Params()...), free)
	case *lam.LetNode:
		freeVars(n.Value(), bound, free)
		freeVars(n.Body(), with(bound, n.Ident()), free)
	case *lam.LetRecNode:
		bindings := n.Bindings()
		ids := make([]ident.Ident, len(bindings))
		for i, b := range bindings {
			ids[i] = b.Ident
		}
		inner := with(bound, ids...)
		for _, b := range bindings {
			freeVars(b.Value, inner, free)
		}
		freeVars(n.Body(), inner, free)
	case *lam.StaticCatchNode:
		freeVars(n.Body(), bound, free)
		freeVars(n.Handler(), with(bound, n.Params()...), free)
	case *lam.TryNode:
		freeVars(n.Body(), bound, free)
		freeVars(n.Handler(), with(bound, n.Ident()), free)
	case *lam.ForNode:
		freeVars(n.From(), bound, free)
		freeVars(n.To(), bound, free)
		freeVars(n.Body(), with(bound, n.Ident()), free)
	default:
		lam.InnerIter(n, func(c lam.Node) { freeVars(c, bound, free) })
	}
}

func with(bound *ident.Set, ids ...ident.Ident) *ident.Set {
	if len(ids) == 0 {
		return bound
	}
	s := bound.Copy()
	s.InsertSlice(ids)
	return s
}
