// Package harness runs Lam-IR conformance scenarios.
//
// A scenario names a tree, the bindings for its free variables and a list
// of assertions about the tree after construction.
//
// # Scenario Format
//
//	name: not_of_comparison
//	description: "if c false true is a negation, and a negated comparison flips"
//	tree:
//	  if:
//	    cond: {prim: {name: lt, args: [{var: x/1}, 3]}}
//	    then: false
//	    else: true
//	env:
//	  x/1: 5
//	assertions:
//	  - type: prints
//	    expect: "(%ge x/1 3)"
//	  - type: evaluates
//	    expect: "true"
//
// Trees use the node forms of package decode and are built through the
// smart constructors, so every assertion sees the folded form.
//
// # Assertion Types
//
//   - prints: the printed tree equals expect
//   - evaluates: the value prints as expect, or evaluation fails with error code error
//   - idempotent: re-folding the tree changes nothing
//   - equal_to: EqApprox(tree, other) equals equal (default true)
//   - free_vars: the free variables are exactly vars
//   - hash_stable: the hash survives re-folding, and matches other's hash when given
//
// # Golden Files
//
// RunWithGolden snapshots the printed tree and its value under
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
