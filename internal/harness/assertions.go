package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/lamir/internal/decode"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
	"github.com/roach88/lamir/internal/pass"
)

// AssertionError is a failed assertion with enough context to debug it.
type AssertionError struct {
	Type     string // assertion type for categorization
	Expected string
	Actual   string
	Tree     string // printed tree under test
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "  Tree: %s\n", e.Tree)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, prefixed with the assertion index.
func EvaluateAssertions(x *execution, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(x, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d (%s): %s", i, a.Type, err.Error()))
		}
	}
	return failures
}

func evaluateAssertion(x *execution, a Assertion) error {
	switch a.Type {
	case AssertPrints:
		return assertPrints(x, a)
	case AssertEvaluates:
		return assertEvaluates(x, a)
	case AssertIdempotent:
		return assertIdempotent(x)
	case AssertEqualTo:
		return assertEqualTo(x, a)
	case AssertFreeVars:
		return assertFreeVars(x, a)
	case AssertHashStable:
		return assertHashStable(x, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func fail(x *execution, typ, expected, actual string) error {
	return &AssertionError{Type: typ, Expected: expected, Actual: actual, Tree: lam.Print(x.tree)}
}

func assertPrints(x *execution, a Assertion) error {
	if got := lam.Print(x.tree); got != a.Expect {
		return fail(x, AssertPrints, a.Expect, got)
	}
	return nil
}

func assertEvaluates(x *execution, a Assertion) error {
	if a.Error != "" {
		if x.err == nil {
			return fail(x, AssertEvaluates, "error "+a.Error, "value "+x.value.String())
		}
		if code := errorCode(x.err); code != a.Error {
			return fail(x, AssertEvaluates, "error "+a.Error, "error "+code)
		}
		return nil
	}
	if x.err != nil {
		return fail(x, AssertEvaluates, a.Expect, "error "+x.err.Error())
	}
	if got := x.value.String(); got != a.Expect {
		return fail(x, AssertEvaluates, a.Expect, got)
	}
	return nil
}

func assertIdempotent(x *execution) error {
	once := pass.Canonicalize(x.tree)
	if once != x.tree && lam.Print(once) != lam.Print(x.tree) {
		return fail(x, AssertIdempotent, lam.Print(x.tree), lam.Print(once))
	}
	return nil
}

func assertEqualTo(x *execution, a Assertion) error {
	other, err := decode.Node("other", a.Other)
	if err != nil {
		return err
	}
	want := a.Equal == nil || *a.Equal
	if got := lam.EqApprox(x.tree, other); got != want {
		return fail(x, AssertEqualTo,
			fmt.Sprintf("EqApprox with %s = %t", lam.Print(other), want),
			fmt.Sprintf("%t", got))
	}
	return nil
}

func assertFreeVars(x *execution, a Assertion) error {
	got := make([]string, 0)
	for _, id := range ident.Sorted(pass.FreeVars(x.tree)) {
		got = append(got, id.String())
	}
	want := slices.Clone(a.Vars)
	slices.Sort(want)
	slices.Sort(got)
	if !slices.Equal(got, want) {
		return fail(x, AssertFreeVars, fmt.Sprint(want), fmt.Sprint(got))
	}
	return nil
}

func assertHashStable(x *execution, a Assertion) error {
	h1, err := lam.Hash(x.tree)
	if err != nil {
		return err
	}
	h2, err := lam.Hash(pass.Canonicalize(x.tree))
	if err != nil {
		return err
	}
	if h1 != h2 {
		return fail(x, AssertHashStable, h1, h2)
	}
	if a.Other == nil {
		return nil
	}
	other, err := decode.Node("other", a.Other)
	if err != nil {
		return err
	}
	h3, err := lam.Hash(other)
	if err != nil {
		return err
	}
	if h1 != h3 {
		return fail(x, AssertHashStable, "hash of "+lam.Print(other)+" "+h3, h1)
	}
	return nil
}
