// Package pass holds whole-tree transformations and queries built on
// lam.InnerMap and lam.InnerIter.
//
// Each pass recurses explicitly and lets InnerMap rebuild one level at a
// time, so adding a node kind to lam never requires touching a pass that
// does not care about it.
package pass
