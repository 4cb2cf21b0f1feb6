// Package decode reads Lam-IR trees from YAML, JSON and CUE documents.
//
// A document is a mapping with a required "tree" node and an optional "env"
// mapping free identifiers ("x/1") to runtime values:
//
//	tree:
//	  if:
//	    cond: {var: x/1}
//	    then: 1
//	    else: {prim: {name: add, args: [{var: x/1}, 2]}}
//	env:
//	  x/1: 41
//
// Every node is built through the smart constructors, so a decoded tree is
// already folded. Scalars stand for constants. Input that the constructors
// reject is reported as a *DecodeError, never a panic.
package decode
