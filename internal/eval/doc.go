// Package eval is a reference interpreter for Lam-IR.
//
// It gives trees a concrete meaning so that folds can be checked against
// evaluation: a smart constructor's output must evaluate exactly like the
// unfolded tree it replaces. Values follow the JS representation the
// backend targets (JS truthiness, options unboxed to value-or-undefined).
//
// Evaluation is bounded by a step quota (StepsExceededError) and honours
// context cancellation. Foreign calls go through host functions supplied
// with WithForeign; GlobalModule references resolve through WithModules.
package eval
