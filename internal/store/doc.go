// Package store records Lam-IR compilation units in SQLite and finds
// subtrees they share.
//
// A unit is stored with every shareable subtree (one that EqApprox accepts
// against itself, so never a binder or a try) keyed by its content hash.
// Two occurrences with the same hash are the same tree, which is what makes
// duplicate detection a GROUP BY.
//
// # Ordering
//
//   - Units carry a logical seq assigned at insert, never a timestamp
//   - Every query orders by seq or size first and breaks ties on the id
//     or hash with COLLATE BINARY, so results are identical across runs
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Hashes are lam.Hash values: SHA-256 over the canonical JSON encoding with
// domain separation.
package store
