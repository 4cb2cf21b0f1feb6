// Package ffi describes how calls to externally declared (JS) functions are marshalled.
//
// These descriptions are produced by upstream validation of external
// declarations and are consumed by lam.HandleNonObjFFI. Nothing here
// builds IR.
package ffi

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/lamir/internal/constant"
)

// ArgKind is the marshalling rule for one argument.
type ArgKind int

const (
	// ArgNothing passes the argument as-is.
	ArgNothing ArgKind = iota
	// ArgUnbox passes the payload of a boxed value.
	ArgUnbox
	// ArgUnwrap passes the payload of a polymorphic variant.
	ArgUnwrap
	// ArgIgnore evaluates the argument but does not pass it.
	ArgIgnore
	// ArgUnit evaluates a unit argument but does not pass it.
	ArgUnit
	// ArgConst evaluates the argument and passes Const in its place.
	ArgConst
	// ArgUncurry passes a curried function converted to an uncurried one of Arity.
	ArgUncurry
	// ArgSpread spreads an array argument as the variadic tail. Last position only.
	ArgSpread
)

var argKindNames = map[ArgKind]string{
	ArgNothing: "nothing",
	ArgUnbox:   "unbox",
	ArgUnwrap:  "unwrap",
	ArgIgnore:  "ignore",
	ArgUnit:    "unit",
	ArgConst:   "const",
	ArgUncurry: "uncurry",
	ArgSpread:  "spread",
}

func (k ArgKind) String() string {
	if s, ok := argKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ArgKind(%d)", int(k))
}

// ParseArgKind is the inverse of ArgKind.String.
func ParseArgKind(s string) (ArgKind, bool) {
	for k, name := range argKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Passed reports whether an argument with this rule appears in the call's actual arguments.
func (k ArgKind) Passed() bool {
	return k != ArgIgnore && k != ArgUnit
}

// ArgSpec is the rule for one declared parameter.
type ArgSpec struct {
	Label string // optional label, carried for diagnostics
	Kind  ArgKind
	Arity int            // ArgUncurry only
	Const constant.Const // ArgConst only
}

func (a ArgSpec) String() string {
	var s string
	switch a.Kind {
	case ArgUncurry:
		s = fmt.Sprintf("uncurry(%d)", a.Arity)
	case ArgConst:
		s = "const(" + a.Const.String() + ")"
	default:
		s = a.Kind.String()
	}
	if a.Label != "" {
		return a.Label + ":" + s
	}
	return s
}

// Equal reports whether two specs describe the same rule.
func (a ArgSpec) Equal(b ArgSpec) bool {
	if a.Label != b.Label || a.Kind != b.Kind || a.Arity != b.Arity {
		return false
	}
	if a.Const == nil || b.Const == nil {
		return a.Const == nil && b.Const == nil
	}
	return constant.EqApprox(a.Const, b.Const)
}

// Params lists the rules for every declared parameter, in order.
type Params []ArgSpec

// Equal reports element-wise equality.
func (p Params) Equal(q Params) bool {
	return slices.EqualFunc(p, q, ArgSpec.Equal)
}

// NoAutoUncurried reports whether no parameter needs curried-to-uncurried conversion.
func (p Params) NoAutoUncurried() bool {
	return !slices.ContainsFunc(p, func(a ArgSpec) bool { return a.Kind == ArgUncurry })
}

func (p Params) String() string {
	parts := make([]string, len(p))
	for i, a := range p {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// ReturnWrapper is the rule applied to the foreign call's result.
type ReturnWrapper int

const (
	ReturnUnset ReturnWrapper = iota
	ReturnIdentity
	ReturnReplacedWithUnit
	ReturnNullToOpt
	ReturnUndefinedToOpt
	ReturnNullUndefinedToOpt
)

var returnNames = map[ReturnWrapper]string{
	ReturnUnset:              "unset",
	ReturnIdentity:           "identity",
	ReturnReplacedWithUnit:   "unit",
	ReturnNullToOpt:          "null_to_opt",
	ReturnUndefinedToOpt:     "undefined_to_opt",
	ReturnNullUndefinedToOpt: "null_undefined_to_opt",
}

func (r ReturnWrapper) String() string {
	if s, ok := returnNames[r]; ok {
		return s
	}
	return fmt.Sprintf("ReturnWrapper(%d)", int(r))
}

// ParseReturnWrapper is the inverse of ReturnWrapper.String.
func ParseReturnWrapper(s string) (ReturnWrapper, bool) {
	for r, name := range returnNames {
		if name == s {
			return r, true
		}
	}
	return 0, false
}

// ExternalKind selects how the foreign symbol is invoked.
type ExternalKind int

const (
	// ExtCall calls a (possibly scoped, possibly module-qualified) function.
	ExtCall ExternalKind = iota
	// ExtNew invokes a constructor with new.
	ExtNew
	// ExtSend calls a method on the first argument.
	ExtSend
	// ExtModuleAsFn calls an imported module value directly.
	ExtModuleAsFn
)

var externalKindNames = map[ExternalKind]string{
	ExtCall:       "call",
	ExtNew:        "new",
	ExtSend:       "send",
	ExtModuleAsFn: "module",
}

func (k ExternalKind) String() string {
	if s, ok := externalKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ExternalKind(%d)", int(k))
}

// ParseExternalKind is the inverse of ExternalKind.String.
func ParseExternalKind(s string) (ExternalKind, bool) {
	for k, name := range externalKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// External describes the foreign symbol.
type External struct {
	Kind   ExternalKind
	Name   string   // symbol (method name for ExtSend)
	Module string   // imported module, empty for globals
	Scopes []string // e.g. ["Math"] for Math.max
}

// Path returns the dotted access path of the symbol, module first.
func (e External) Path() string {
	var parts []string
	if e.Module != "" {
		parts = append(parts, e.Module)
	}
	parts = append(parts, e.Scopes...)
	if e.Name != "" {
		parts = append(parts, e.Name)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether two descriptions name the same symbol the same way.
func (e External) Equal(f External) bool {
	return e.Kind == f.Kind && e.Name == f.Name && e.Module == f.Module && slices.Equal(e.Scopes, f.Scopes)
}

func (e External) String() string {
	return e.Kind.String() + " " + e.Path()
}
