// Package lam provides the Lambda intermediate representation (Lam-IR) of the
// compiler middle end.
//
// This package is the foundational layer between elaboration and JS emission.
// It imports only the collaborator packages (ident, constant, primitive, ffi).
//
// Key design constraints:
//   - Node is sealed. Every node is built by a smart constructor in this
//     package, so every node observed outside it is already canonical.
//   - Nodes are immutable. Accessors that return slices return copies;
//     "modifying" a node means constructing a new one.
//   - Constructors are total over well-formed input and never drop a
//     subterm that could have an effect. Ill-formed input is a caller
//     bug and panics with *ContractError.
//   - InnerMap rebuilds one level only and does not fold; full-tree passes
//     compose it with themselves (see internal/pass).
package lam
