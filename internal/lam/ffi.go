package lam

import (
	"github.com/roach88/lamir/internal/ffi"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

// HandleNonObjFFI lowers a call to a non-object external declaration.
//
// Argument rules that need a conversion (unbox, unwrap, uncurry) become a
// primitive call around the argument and the rule is rewritten to
// ArgNothing, so the resulting js_call only carries rules describing how
// the value is passed. ExtModuleAsFn calls the module itself through the
// uncurried application path. The return wrapper is applied last.
//
// params and ret are assumed validated upstream; an inconsistent
// combination panics with *ContractError.
func HandleNonObjFFI(params ffi.Params, ret ffi.ReturnWrapper, ext ffi.External, args []Node, loc ident.Loc, name string) Node {
	mustNodes("ffi", args...)
	if len(params) != len(args) {
		violate("ffi", "%s: %d rule(s) for %d argument(s)", name, len(params), len(args))
	}

	lowered := make(ffi.Params, len(params))
	largs := make([]Node, len(args))
	passed := 0
	for i, spec := range params {
		arg := args[i]
		switch spec.Kind {
		case ffi.ArgNothing, ffi.ArgIgnore, ffi.ArgUnit:
		case ffi.ArgUnbox:
			arg = Prim(primitive.Unbox, []Node{arg}, loc)
			spec.Kind = ffi.ArgNothing
		case ffi.ArgUnwrap:
			arg = Prim(primitive.UnwrapPolyVar, []Node{arg}, loc)
			spec.Kind = ffi.ArgNothing
		case ffi.ArgUncurry:
			if spec.Arity < 0 {
				violate("ffi", "%s: argument %d uncurries to negative arity %d", name, i, spec.Arity)
			}
			arg = Prim(primitive.FnMake{Arity: spec.Arity}, []Node{arg}, loc)
			spec.Kind, spec.Arity = ffi.ArgNothing, 0
		case ffi.ArgConst:
			if spec.Const == nil {
				violate("ffi", "%s: argument %d has a const rule without a constant", name, i)
			}
		case ffi.ArgSpread:
			if i != len(params)-1 {
				violate("ffi", "%s: spread argument %d is not last", name, i)
			}
		default:
			violate("ffi", "%s: unknown rule %s for argument %d", name, spec.Kind, i)
		}
		if spec.Kind.Passed() {
			passed++
		}
		lowered[i] = spec
		largs[i] = arg
	}

	var call Node
	switch ext.Kind {
	case ffi.ExtCall, ffi.ExtNew:
		call = Prim(primitive.JsCall{Name: name, Params: lowered, External: ext}, largs, loc)
	case ffi.ExtSend:
		if passed == 0 {
			violate("ffi", "%s: send has no receiver", name)
		}
		call = Prim(primitive.JsCall{Name: name, Params: lowered, External: ext}, largs, loc)
	case ffi.ExtModuleAsFn:
		if ext.Module == "" {
			violate("ffi", "%s: module-as-function without a module", name)
		}
		for i, spec := range lowered {
			if spec.Kind != ffi.ArgNothing {
				violate("ffi", "%s: module-as-function cannot apply rule %s to argument %d", name, spec.Kind, i)
			}
		}
		call = Apply(GlobalModule(ident.Global(ext.Module)), largs, ApInfo{Loc: loc, Status: AppUncurry})
	default:
		violate("ffi", "%s: unknown external kind %s", name, ext.Kind)
	}
	return ResultWrap(loc, ret, call)
}

// ResultWrap applies a return wrapper to the result of a foreign call.
func ResultWrap(loc ident.Loc, ret ffi.ReturnWrapper, call Node) Node {
	switch ret {
	case ffi.ReturnUnset, ffi.ReturnIdentity:
		return call
	case ffi.ReturnReplacedWithUnit:
		return Seq(call, Unit())
	case ffi.ReturnNullToOpt:
		return Prim(primitive.NullToOpt, []Node{call}, loc)
	case ffi.ReturnUndefinedToOpt:
		return Prim(primitive.UndefinedToOpt, []Node{call}, loc)
	case ffi.ReturnNullUndefinedToOpt:
		return Prim(primitive.NullUndefinedToOpt, []Node{call}, loc)
	default:
		violate("ffi", "unknown return wrapper %s", ret)
		return nil
	}
}
