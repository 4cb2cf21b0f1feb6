package decode

import (
	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ffi"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
	"github.com/roach88/lamir/internal/primitive"
)

// Node decodes a node from its generic form (the result of unmarshalling
// YAML or JSON into an any). path prefixes error locations.
func Node(path string, raw any) (lam.Node, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		if _, isList := raw.([]any); isList {
			return nil, errorf(path, "expected a node, got a list")
		}
		c, err := Const(path, raw)
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.Const(c) })
	}
	form, body, err := single(path, m)
	if err != nil {
		return nil, err
	}
	return decodeForm(join(path, form), form, body)
}

// build runs a constructor, turning a contract violation into a DecodeError.
func build(path string, f func() lam.Node) (n lam.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*lam.ContractError)
			if !ok {
				panic(r)
			}
			n, err = nil, errorf(path, "%s", ce.Message)
		}
	}()
	return f(), nil
}

func nodes(path string, raw []any) ([]lam.Node, error) {
	out := make([]lam.Node, len(raw))
	for i, r := range raw {
		n, err := Node(index(path, i), r)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (o object) node(key string) (lam.Node, error) {
	v, err := o.required(key)
	if err != nil {
		return nil, err
	}
	return Node(o.at(key), v)
}

func (o object) optNode(key string) (lam.Node, error) {
	if !o.has(key) {
		return nil, nil
	}
	return o.node(key)
}

func (o object) nodes(key string) ([]lam.Node, error) {
	l, err := o.list(key)
	if err != nil {
		return nil, err
	}
	return nodes(o.at(key), l)
}

func decodeForm(path, form string, body any) (lam.Node, error) {
	switch form {
	case "var":
		id, err := identOf(path, body)
		if err != nil {
			return nil, err
		}
		return lam.Var(id), nil

	case "global":
		s, ok := body.(string)
		if !ok || s == "" {
			return nil, errorf(path, "expected a module name, got %s", describe(body))
		}
		return lam.GlobalModule(ident.Global(s)), nil

	case "const":
		c, err := Const(path, body)
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.Const(c) })

	case "apply":
		return decodeApply(path, body)
	case "function":
		return decodeFunction(path, body)
	case "let":
		return decodeLet(path, body)
	case "letrec":
		return decodeLetRec(path, body)
	case "prim":
		return decodePrim(path, body)
	case "switch":
		return decodeSwitch(path, body)
	case "stringswitch":
		return decodeStringSwitch(path, body)

	case "exit":
		o, err := asObject(path, body, "label", "args")
		if err != nil {
			return nil, err
		}
		label, err := o.requiredInt("label")
		if err != nil {
			return nil, err
		}
		args, err := o.nodes("args")
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.StaticRaise(label, args) })

	case "catch":
		o, err := asObject(path, body, "body", "label", "params", "handler")
		if err != nil {
			return nil, err
		}
		b, err := o.node("body")
		if err != nil {
			return nil, err
		}
		label, err := o.requiredInt("label")
		if err != nil {
			return nil, err
		}
		params, err := o.idents("params")
		if err != nil {
			return nil, err
		}
		h, err := o.node("handler")
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.StaticCatch(b, label, params, h) })

	case "try":
		o, err := asObject(path, body, "body", "id", "handler")
		if err != nil {
			return nil, err
		}
		b, err := o.node("body")
		if err != nil {
			return nil, err
		}
		id, err := o.ident("id")
		if err != nil {
			return nil, err
		}
		h, err := o.node("handler")
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.Try(b, id, h) })

	case "if":
		o, err := asObject(path, body, "cond", "then", "else")
		if err != nil {
			return nil, err
		}
		c, err := o.node("cond")
		if err != nil {
			return nil, err
		}
		t, err := o.node("then")
		if err != nil {
			return nil, err
		}
		e, err := o.node("else")
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.If(c, t, e) })

	case "seq":
		l, ok := body.([]any)
		if !ok || len(l) < 2 {
			return nil, errorf(path, "expected a list of at least two nodes, got %s", describe(body))
		}
		ns, err := nodes(path, l)
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node {
			r := ns[len(ns)-1]
			for i := len(ns) - 2; i >= 0; i-- {
				r = lam.Seq(ns[i], r)
			}
			return r
		})

	case "while":
		o, err := asObject(path, body, "cond", "body")
		if err != nil {
			return nil, err
		}
		c, err := o.node("cond")
		if err != nil {
			return nil, err
		}
		b, err := o.node("body")
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.While(c, b) })

	case "for":
		return decodeFor(path, body)

	case "assign":
		o, err := asObject(path, body, "id", "value")
		if err != nil {
			return nil, err
		}
		id, err := o.ident("id")
		if err != nil {
			return nil, err
		}
		v, err := o.node("value")
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.Assign(id, v) })

	case "not":
		x, err := Node(path, body)
		if err != nil {
			return nil, err
		}
		return build(path, func() lam.Node { return lam.Not(ident.None, x) })

	case "and", "or":
		l, ok := body.([]any)
		if !ok || len(l) != 2 {
			return nil, errorf(path, "expected a list of two nodes, got %s", describe(body))
		}
		ns, err := nodes(path, l)
		if err != nil {
			return nil, err
		}
		if form == "and" {
			return build(path, func() lam.Node { return lam.SeqAnd(ns[0], ns[1]) })
		}
		return build(path, func() lam.Node { return lam.SeqOr(ns[0], ns[1]) })

	case "ffi":
		return decodeFFI(path, body)
	}
	return nil, errorf(path, "unknown node form %q", form)
}

func decodeApply(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "fn", "args", "status", "inline")
	if err != nil {
		return nil, err
	}
	fn, err := o.node("fn")
	if err != nil {
		return nil, err
	}
	args, err := o.nodes("args")
	if err != nil {
		return nil, err
	}
	var info lam.ApInfo
	s, err := o.str("status", lam.AppNA.String())
	if err != nil {
		return nil, err
	}
	if info.Status, err = parseEnum(o.at("status"), s, lam.ParseApStatus); err != nil {
		return nil, err
	}
	s, err = o.str("inline", lam.DefaultInline.String())
	if err != nil {
		return nil, err
	}
	if info.Inline, err = parseEnum(o.at("inline"), s, lam.ParseInlineAttr); err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.Apply(fn, args, info) })
}

func decodeFunction(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "params", "body", "inline", "functor")
	if err != nil {
		return nil, err
	}
	params, err := o.idents("params")
	if err != nil {
		return nil, err
	}
	b, err := o.node("body")
	if err != nil {
		return nil, err
	}
	var attr lam.FunctionAttr
	s, err := o.str("inline", lam.DefaultInline.String())
	if err != nil {
		return nil, err
	}
	if attr.Inline, err = parseEnum(o.at("inline"), s, lam.ParseInlineAttr); err != nil {
		return nil, err
	}
	s, err = o.str("functor", lam.FunctorNA.String())
	if err != nil {
		return nil, err
	}
	if attr.Functor, err = parseEnum(o.at("functor"), s, lam.ParseFunctorKind); err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.Function(attr, len(params), params, b) })
}

func decodeLet(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "kind", "id", "value", "body")
	if err != nil {
		return nil, err
	}
	s, err := o.str("kind", lam.Strict.String())
	if err != nil {
		return nil, err
	}
	kind, err := parseEnum(o.at("kind"), s, lam.ParseLetKind)
	if err != nil {
		return nil, err
	}
	id, err := o.ident("id")
	if err != nil {
		return nil, err
	}
	v, err := o.node("value")
	if err != nil {
		return nil, err
	}
	b, err := o.node("body")
	if err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.Let(kind, id, v, b) })
}

func decodeLetRec(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "bindings", "body")
	if err != nil {
		return nil, err
	}
	raw, err := o.list("bindings")
	if err != nil {
		return nil, err
	}
	bindings := make([]lam.Binding, len(raw))
	for i, r := range raw {
		bo, err := asObject(index(o.at("bindings"), i), r, "id", "value")
		if err != nil {
			return nil, err
		}
		if bindings[i].Ident, err = bo.ident("id"); err != nil {
			return nil, err
		}
		if bindings[i].Value, err = bo.node("value"); err != nil {
			return nil, err
		}
	}
	b, err := o.node("body")
	if err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.LetRec(bindings, b) })
}

func decodePrim(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "name", "args")
	if err != nil {
		return nil, err
	}
	name, err := o.str("name", "")
	if err != nil {
		return nil, err
	}
	p, ok := primitive.Parse(name)
	if !ok {
		return nil, errorf(o.at("name"), "unknown primitive %q", name)
	}
	args, err := o.nodes("args")
	if err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.Prim(p, args, ident.None) })
}

func decodeCases(o object, key string) ([]lam.Case, error) {
	raw, err := o.list(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	cases := make([]lam.Case, len(raw))
	for i, r := range raw {
		co, err := asObject(index(o.at(key), i), r, "tag", "body")
		if err != nil {
			return nil, err
		}
		if cases[i].Tag, err = co.requiredInt("tag"); err != nil {
			return nil, err
		}
		if cases[i].Body, err = co.node("body"); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

func decodeSwitch(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body,
		"scrutinee", "num_consts", "consts_full", "consts", "num_blocks", "blocks_full", "blocks", "fail")
	if err != nil {
		return nil, err
	}
	scrutinee, err := o.node("scrutinee")
	if err != nil {
		return nil, err
	}
	var t lam.SwitchTable
	if t.NumConsts, err = o.int("num_consts", 0); err != nil {
		return nil, err
	}
	if t.ConstsFull, err = o.bool("consts_full"); err != nil {
		return nil, err
	}
	if t.Consts, err = decodeCases(o, "consts"); err != nil {
		return nil, err
	}
	if t.NumBlocks, err = o.int("num_blocks", 0); err != nil {
		return nil, err
	}
	if t.BlocksFull, err = o.bool("blocks_full"); err != nil {
		return nil, err
	}
	if t.Blocks, err = decodeCases(o, "blocks"); err != nil {
		return nil, err
	}
	if t.FailAction, err = o.optNode("fail"); err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.Switch(scrutinee, t) })
}

func decodeStringSwitch(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "scrutinee", "cases", "default")
	if err != nil {
		return nil, err
	}
	scrutinee, err := o.node("scrutinee")
	if err != nil {
		return nil, err
	}
	raw, err := o.list("cases")
	if err != nil {
		return nil, err
	}
	cases := make([]lam.StringCase, len(raw))
	for i, r := range raw {
		co, err := asObject(index(o.at("cases"), i), r, "value", "body")
		if err != nil {
			return nil, err
		}
		v, err := co.required("value")
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, errorf(co.at("value"), "expected a string, got %s", describe(v))
		}
		cases[i].Value = s
		if cases[i].Body, err = co.node("body"); err != nil {
			return nil, err
		}
	}
	def, err := o.optNode("default")
	if err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.StringSwitch(scrutinee, cases, def) })
}

func decodeFor(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "id", "from", "to", "dir", "body")
	if err != nil {
		return nil, err
	}
	id, err := o.ident("id")
	if err != nil {
		return nil, err
	}
	from, err := o.node("from")
	if err != nil {
		return nil, err
	}
	to, err := o.node("to")
	if err != nil {
		return nil, err
	}
	dir := lam.Upto
	s, err := o.str("dir", lam.Upto.String())
	if err != nil {
		return nil, err
	}
	switch s {
	case lam.Upto.String():
	case lam.Downto.String():
		dir = lam.Downto
	default:
		return nil, errorf(o.at("dir"), "expected %q or %q, got %q", lam.Upto, lam.Downto, s)
	}
	b, err := o.node("body")
	if err != nil {
		return nil, err
	}
	return build(path, func() lam.Node { return lam.For(id, from, to, dir, b) })
}

// decodeFFI reads a foreign call and lowers it:
//
//	ffi:
//	  name: max
//	  kind: call             # call | new | send | module
//	  scopes: [Math]
//	  params: [nothing, spread]
//	  return: identity
//	  args: [...]
//
// A rule is a kind name or a mapping {kind, label, arity, value}.
func decodeFFI(path string, body any) (lam.Node, error) {
	o, err := asObject(path, body, "name", "kind", "symbol", "module", "scopes", "params", "return", "args")
	if err != nil {
		return nil, err
	}
	name, err := o.str("name", "")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errorf(path, "missing field %q", "name")
	}

	var ext ffi.External
	s, err := o.str("kind", ffi.ExtCall.String())
	if err != nil {
		return nil, err
	}
	if ext.Kind, err = parseEnum(o.at("kind"), s, ffi.ParseExternalKind); err != nil {
		return nil, err
	}
	defSymbol := name
	if ext.Kind == ffi.ExtModuleAsFn {
		defSymbol = ""
	}
	if ext.Name, err = o.str("symbol", defSymbol); err != nil {
		return nil, err
	}
	if ext.Module, err = o.str("module", ""); err != nil {
		return nil, err
	}
	scopes, err := o.list("scopes")
	if err != nil {
		return nil, err
	}
	for i, sc := range scopes {
		str, ok := sc.(string)
		if !ok {
			return nil, errorf(index(o.at("scopes"), i), "expected a string, got %s", describe(sc))
		}
		ext.Scopes = append(ext.Scopes, str)
	}

	rawParams, err := o.list("params")
	if err != nil {
		return nil, err
	}
	params := make(ffi.Params, len(rawParams))
	for i, r := range rawParams {
		if params[i], err = decodeArgSpec(index(o.at("params"), i), r); err != nil {
			return nil, err
		}
	}

	s, err = o.str("return", ffi.ReturnIdentity.String())
	if err != nil {
		return nil, err
	}
	ret, err := parseEnum(o.at("return"), s, ffi.ParseReturnWrapper)
	if err != nil {
		return nil, err
	}
	args, err := o.nodes("args")
	if err != nil {
		return nil, err
	}
	return build(path, func() lam.Node {
		return lam.HandleNonObjFFI(params, ret, ext, args, ident.None, name)
	})
}

func decodeArgSpec(path string, raw any) (ffi.ArgSpec, error) {
	if s, ok := raw.(string); ok {
		k, err := parseEnum(path, s, ffi.ParseArgKind)
		return ffi.ArgSpec{Kind: k}, err
	}
	o, err := asObject(path, raw, "kind", "label", "arity", "value")
	if err != nil {
		return ffi.ArgSpec{}, err
	}
	var spec ffi.ArgSpec
	s, err := o.str("kind", "")
	if err != nil {
		return spec, err
	}
	if spec.Kind, err = parseEnum(o.at("kind"), s, ffi.ParseArgKind); err != nil {
		return spec, err
	}
	if spec.Label, err = o.str("label", ""); err != nil {
		return spec, err
	}
	if spec.Arity, err = o.int("arity", 0); err != nil {
		return spec, err
	}
	if o.has("value") {
		var c constant.Const
		if c, err = Const(o.at("value"), o.m["value"]); err != nil {
			return spec, err
		}
		spec.Const = c
	}
	return spec, nil
}

func parseEnum[T any](path, s string, parse func(string) (T, bool)) (T, error) {
	v, ok := parse(s)
	if !ok {
		var zero T
		return zero, errorf(path, "unknown value %q", s)
	}
	return v, nil
}
