package pass

import "github.com/roach88/lamir/internal/lam"

// Canonicalize rebuilds n bottom-up through the smart constructors, so every
// fold enabled by a folded child fires. The result is a fixed point:
// Canonicalize(Canonicalize(n)) prints and hashes like Canonicalize(n).
func Canonicalize(n lam.Node) lam.Node {
	return lam.Refold(lam.InnerMap(n, Canonicalize))
}
