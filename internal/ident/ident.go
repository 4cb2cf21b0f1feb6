// Package ident provides identifiers and source locations for Lam-IR.
//
// Both types are plain comparable values so they can be used directly as
// map keys and set members. Neither carries any behavior the IR relies on
// beyond equality.
package ident

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-set/v3"
)

// Ident names a bound variable.
// Two identifiers are the same binding only if both Name and Stamp match.
// Stamp 0 is reserved for persistent (global) identifiers such as modules.
type Ident struct {
	Name  string
	Stamp int64
}

// Global returns the persistent identifier for an external module.
func Global(name string) Ident {
	return Ident{Name: name}
}

// IsGlobal reports whether id is a persistent identifier.
func (id Ident) IsGlobal() bool {
	return id.Stamp == 0
}

// String formats as "name" for globals and "name/stamp" otherwise.
func (id Ident) String() string {
	if id.Stamp == 0 {
		return id.Name
	}
	return fmt.Sprintf("%s/%d", id.Name, id.Stamp)
}

// Parse is the inverse of String.
// A trailing "/N" with a positive integer N is read as the stamp.
func Parse(s string) (Ident, error) {
	if s == "" {
		return Ident{}, fmt.Errorf("empty identifier")
	}
	i := strings.LastIndexByte(s, '/')
	if i <= 0 || i == len(s)-1 {
		return Ident{Name: s}, nil
	}
	for _, r := range s[i+1:] {
		if r < '0' || r > '9' {
			return Ident{Name: s}, nil
		}
	}
	stamp, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return Ident{}, fmt.Errorf("identifier %q: %w", s, err)
	}
	if stamp == 0 {
		return Ident{}, fmt.Errorf("identifier %q: stamp must be positive", s)
	}
	return Ident{Name: s[:i], Stamp: stamp}, nil
}

// Compare orders identifiers by name, then stamp.
func Compare(a, b Ident) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	switch {
	case a.Stamp < b.Stamp:
		return -1
	case a.Stamp > b.Stamp:
		return 1
	}
	return 0
}

// Set is a set of identifiers.
type Set = set.Set[Ident]

// NewSet returns a set holding ids.
func NewSet(ids ...Ident) *Set {
	return set.From(ids)
}

// Sorted returns the members of s in Compare order.
func Sorted(s *Set) []Ident {
	ids := s.Slice()
	slices.SortFunc(ids, Compare)
	return ids
}

// Loc is a source location carried for diagnostics. It is never interpreted.
type Loc struct {
	File string
	Line int
	Col  int
}

// None is the absent location.
var None = Loc{}

// IsNone reports whether l is the absent location.
func (l Loc) IsNone() bool {
	return l == None
}

func (l Loc) String() string {
	if l.IsNone() {
		return "_none_"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Generator hands out fresh identifier stamps.
// Stamps are strictly increasing and start at 1.
//
// Thread-safety: Generator is safe for concurrent use (atomic operations).
type Generator struct {
	stamp atomic.Int64
}

// NewGenerator creates a generator whose first stamp is 1.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewGeneratorAt creates a generator that continues after start.
// Used when resuming numbering for a unit that already holds stamps up to start.
func NewGeneratorAt(start int64) *Generator {
	g := &Generator{}
	g.stamp.Store(start)
	return g
}

// Fresh returns a new identifier with the given name.
func (g *Generator) Fresh(name string) Ident {
	return Ident{Name: name, Stamp: g.stamp.Add(1)}
}

// Current returns the last stamp handed out, or the start value.
func (g *Generator) Current() int64 {
	return g.stamp.Load()
}
