package testutil

import (
	"testing"

	"github.com/roach88/lamir/internal/ident"
)

// Ident parses "name/stamp" and fails the test on error.
func Ident(t testing.TB, s string) ident.Ident {
	t.Helper()
	id, err := ident.Parse(s)
	if err != nil {
		t.Fatalf("ident.Parse(%q): %v", s, err)
	}
	return id
}

// Idents parses each string with Ident.
func Idents(t testing.TB, ss ...string) []ident.Ident {
	t.Helper()
	ids := make([]ident.Ident, len(ss))
	for i, s := range ss {
		ids[i] = Ident(t, s)
	}
	return ids
}
