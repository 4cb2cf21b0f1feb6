package pass

import (
	"slices"

	"github.com/roach88/lamir/internal/lam"
)

// Size counts the nodes of n.
func Size(n lam.Node) int {
	size := 1
	lam.InnerIter(n, func(c lam.Node) { size += Size(c) })
	return size
}

// Subterms walks n in pre-order. path holds the child indices leading from n
// to the visited node, in InnerIter order; the root has an empty path.
// Returning false from visit skips the node's children.
func Subterms(n lam.Node, visit func(path []int, n lam.Node) bool) {
	subterms(n, nil, visit)
}

func subterms(n lam.Node, path []int, visit func([]int, lam.Node) bool) {
	if !visit(slices.Clip(path), n) {
		return
	}
	i := 0
	lam.InnerIter(n, func(c lam.Node) {
		subterms(c, append(slices.Clip(path), i), visit)
		i++
	})
}
