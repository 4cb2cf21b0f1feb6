package decode

import (
	"encoding/json"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/eval"
	"github.com/roach88/lamir/internal/ident"
)

// Const decodes a literal.
//
// Scalars map directly (null is JS null). Other literals are one-key
// mappings: {char: "a"}, {float: "1.50"}, {bigint: "123"},
// {unicode: "text"}, {undefined: true}, {some: <const>} and
// {block: {tag: 0, fields: [<const>...]}}.
func Const(path string, raw any) (constant.Const, error) {
	switch v := raw.(type) {
	case nil:
		return constant.JsNull, nil
	case bool:
		return constant.Bool(v), nil
	case string:
		return constant.Str(v), nil
	case float64:
		if n, ok := asInt(v); ok {
			return constant.Int(n), nil
		}
		return constant.Float(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return constant.Int(n), nil
		}
		if _, err := v.Float64(); err != nil {
			return nil, errorf(path, "invalid number %s", v)
		}
		return constant.Float(v.String()), nil
	case int, int64, uint64:
		n, ok := asInt(v)
		if !ok {
			return nil, errorf(path, "integer %v out of range", v)
		}
		return constant.Int(n), nil
	case map[string]any:
		return taggedConst(path, v)
	}
	return nil, errorf(path, "expected a constant, got %s", describe(raw))
}

func taggedConst(path string, m map[string]any) (constant.Const, error) {
	kind, body, err := single(path, m)
	if err != nil {
		return nil, err
	}
	path = join(path, kind)
	switch kind {
	case "char":
		s, ok := body.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return nil, errorf(path, "expected a one-character string, got %s", describe(body))
		}
		r, _ := utf8.DecodeRuneInString(s)
		return constant.Char(r), nil
	case "float":
		s, ok := body.(string)
		if !ok {
			if c, err := Const(path, body); err == nil {
				s = c.String()
				ok = true
			}
		}
		if !ok {
			return nil, errorf(path, "expected a float, got %s", describe(body))
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return nil, errorf(path, "invalid float %q", s)
		}
		return constant.Float(s), nil
	case "bigint":
		s, ok := body.(string)
		if !ok {
			return nil, errorf(path, "expected a decimal string, got %s", describe(body))
		}
		if _, ok := new(big.Int).SetString(s, 10); !ok {
			return nil, errorf(path, "invalid bigint %q", s)
		}
		return constant.BigInt(s), nil
	case "unicode":
		s, ok := body.(string)
		if !ok {
			return nil, errorf(path, "expected a string, got %s", describe(body))
		}
		return constant.String{Value: s, Unicode: true}, nil
	case "undefined":
		return constant.JsUndefined, nil
	case "some":
		c, err := Const(path, body)
		if err != nil {
			return nil, err
		}
		return constant.Some{Value: c}, nil
	case "block":
		o, err := asObject(path, body, "tag", "fields")
		if err != nil {
			return nil, err
		}
		tag, err := o.int("tag", 0)
		if err != nil {
			return nil, err
		}
		raw, err := o.list("fields")
		if err != nil {
			return nil, err
		}
		fields := make([]constant.Const, len(raw))
		for i, f := range raw {
			if fields[i], err = Const(index(o.at("fields"), i), f); err != nil {
				return nil, err
			}
		}
		return constant.Block{Tag: tag, Fields: fields}, nil
	}
	return nil, errorf(path, "unknown constant form %q", kind)
}

// Value decodes a runtime value for an environment binding.
//
// Scalars map directly, lists are arrays, and one-key mappings give
// {undefined: true}, {bigint: "123"} and {block: {tag, fields, mutable}}.
func Value(path string, raw any) (eval.Value, error) {
	switch v := raw.(type) {
	case nil:
		return eval.Null{}, nil
	case bool:
		return eval.Bool(v), nil
	case string:
		return eval.Str(v), nil
	case []any:
		elems := make([]eval.Value, len(v))
		for i, e := range v {
			ev, err := Value(index(path, i), e)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return &eval.Array{Elems: elems}, nil
	case map[string]any:
		return taggedValue(path, v)
	}
	c, err := Const(path, raw)
	if err != nil {
		return nil, err
	}
	return eval.FromConst(c)
}

func taggedValue(path string, m map[string]any) (eval.Value, error) {
	kind, body, err := single(path, m)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "undefined":
		return eval.Undefined{}, nil
	case "bigint":
		c, err := taggedConst(path, m)
		if err != nil {
			return nil, err
		}
		return eval.FromConst(c)
	case "block":
		path = join(path, kind)
		o, err := asObject(path, body, "tag", "fields", "mutable")
		if err != nil {
			return nil, err
		}
		tag, err := o.int("tag", 0)
		if err != nil {
			return nil, err
		}
		mutable, err := o.bool("mutable")
		if err != nil {
			return nil, err
		}
		raw, err := o.list("fields")
		if err != nil {
			return nil, err
		}
		fields := make([]eval.Value, len(raw))
		for i, f := range raw {
			if fields[i], err = Value(index(o.at("fields"), i), f); err != nil {
				return nil, err
			}
		}
		return &eval.Block{Tag: tag, Fields: fields, Mutable: mutable}, nil
	}
	return nil, errorf(join(path, kind), "unknown value form %q", kind)
}

// Env decodes a mapping of identifiers to values.
func Env(path string, raw any) (map[ident.Ident]eval.Value, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errorf(path, "expected a mapping, got %s", describe(raw))
	}
	env := make(map[ident.Ident]eval.Value, len(m))
	for name, rv := range m {
		id, err := identOf(join(path, name), name)
		if err != nil {
			return nil, err
		}
		v, err := Value(join(path, name), rv)
		if err != nil {
			return nil, err
		}
		env[id] = v
	}
	return env, nil
}
