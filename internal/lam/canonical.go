package lam

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

// MarshalCanonical encodes n as canonical JSON (RFC 8785 style): object
// keys in UTF-16 code unit order, no HTML escaping, no insignificant
// whitespace.
//
// Every field that distinguishes two trees is encoded, except source
// locations and switch diagnostic names, which never affect evaluation.
// Strings are encoded exactly: no Unicode normalization, and text that is
// not valid UTF-8 is written as hex bytes. This is the only encoding used
// for content-addressed identity.
func MarshalCanonical(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, encodeNode(n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type object map[string]any

func encodeNode(n Node) object {
	mustBuilt("canonical", n)
	switch n := n.(type) {
	case *VarNode:
		return object{"k": "var", "id": encodeIdent(n.id)}
	case *GlobalModuleNode:
		return object{"k": "global", "id": encodeIdent(n.id)}
	case *ConstNode:
		return object{"k": "const", "c": encodeConst(n.c)}
	case *ApplyNode:
		return object{
			"k":      "apply",
			"fn":     encodeNode(n.fn),
			"args":   encodeNodes(n.args),
			"inline": n.info.Inline.String(),
			"status": n.info.Status.String(),
		}
	case *FunctionNode:
		return object{
			"k":       "function",
			"params":  encodeIdents(n.params),
			"body":    encodeNode(n.body),
			"inline":  n.attr.Inline.String(),
			"functor": n.attr.Functor.String(),
		}
	case *LetNode:
		return object{
			"k":     "let",
			"kind":  n.kind.String(),
			"id":    encodeIdent(n.id),
			"value": encodeNode(n.value),
			"body":  encodeNode(n.body),
		}
	case *LetRecNode:
		bindings := make([]any, len(n.bindings))
		for i, b := range n.bindings {
			bindings[i] = object{"id": encodeIdent(b.Ident), "value": encodeNode(b.Value)}
		}
		return object{"k": "letrec", "bindings": bindings, "body": encodeNode(n.body)}
	case *PrimNode:
		return object{"k": "prim", "prim": encodePrim(n.prim), "args": encodeNodes(n.args)}
	case *SwitchNode:
		o := object{
			"k":           "switch",
			"scrutinee":   encodeNode(n.scrutinee),
			"num_consts":  int64(n.table.NumConsts),
			"consts_full": n.table.ConstsFull,
			"consts":      encodeCases(n.table.Consts),
			"num_blocks":  int64(n.table.NumBlocks),
			"blocks_full": n.table.BlocksFull,
			"blocks":      encodeCases(n.table.Blocks),
		}
		if n.table.FailAction != nil {
			o["fail"] = encodeNode(n.table.FailAction)
		}
		return o
	case *StringSwitchNode:
		cases := make([]any, len(n.cases))
		for i, c := range n.cases {
			cases[i] = object{"value": encodeText(c.Value), "body": encodeNode(c.Body)}
		}
		o := object{"k": "stringswitch", "scrutinee": encodeNode(n.scrutinee), "cases": cases}
		if n.def != nil {
			o["default"] = encodeNode(n.def)
		}
		return o
	case *StaticRaiseNode:
		return object{"k": "exit", "label": int64(n.label), "args": encodeNodes(n.args)}
	case *StaticCatchNode:
		return object{
			"k":       "catch",
			"body":    encodeNode(n.body),
			"label":   int64(n.label),
			"params":  encodeIdents(n.params),
			"handler": encodeNode(n.handler),
		}
	case *TryNode:
		return object{"k": "try", "body": encodeNode(n.body), "id": encodeIdent(n.id), "handler": encodeNode(n.handler)}
	case *IfNode:
		return object{"k": "if", "cond": encodeNode(n.cond), "then": encodeNode(n.then), "else": encodeNode(n.els)}
	case *SeqNode:
		return object{"k": "seq", "first": encodeNode(n.first), "second": encodeNode(n.second)}
	case *WhileNode:
		return object{"k": "while", "cond": encodeNode(n.cond), "body": encodeNode(n.body)}
	case *ForNode:
		return object{
			"k":    "for",
			"id":   encodeIdent(n.id),
			"from": encodeNode(n.from),
			"to":   encodeNode(n.to),
			"dir":  n.dir.String(),
			"body": encodeNode(n.body),
		}
	case *AssignNode:
		return object{"k": "assign", "id": encodeIdent(n.id), "value": encodeNode(n.value)}
	default:
		panic(fmt.Sprintf("lam: unknown node %T", n))
	}
}

func encodeNodes(ns []Node) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = encodeNode(n)
	}
	return out
}

func encodeIdents(ids []ident.Ident) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = encodeIdent(id)
	}
	return out
}

// encodeIdent keeps name and stamp apart: "a/1" with no stamp is not a/1.
func encodeIdent(id ident.Ident) object {
	return object{"name": encodeText(id.Name), "stamp": id.Stamp}
}

// encodeText returns s itself when it is valid UTF-8. Otherwise the bytes
// are hex encoded, since JSON strings cannot carry them.
func encodeText(s string) any {
	if utf8.ValidString(s) {
		return s
	}
	return object{"bytes": hex.EncodeToString([]byte(s))}
}

// encodePrim spells out foreign calls field by field; every other
// primitive prints unambiguously.
func encodePrim(p primitive.Primitive) any {
	call, ok := p.(primitive.JsCall)
	if !ok {
		return p.String()
	}
	params := make([]any, len(call.Params))
	for i, a := range call.Params {
		o := object{"label": encodeText(a.Label), "kind": a.Kind.String(), "arity": int64(a.Arity)}
		if a.Const != nil {
			o["const"] = encodeConst(a.Const)
		}
		params[i] = o
	}
	scopes := make([]any, len(call.External.Scopes))
	for i, sc := range call.External.Scopes {
		scopes[i] = encodeText(sc)
	}
	return object{
		"name":   encodeText(call.Name),
		"params": params,
		"external": object{
			"kind":   call.External.Kind.String(),
			"name":   encodeText(call.External.Name),
			"module": encodeText(call.External.Module),
			"scopes": scopes,
		},
	}
}

func encodeCases(cases []Case) []any {
	out := make([]any, len(cases))
	for i, c := range cases {
		out[i] = object{"tag": int64(c.Tag), "body": encodeNode(c.Body)}
	}
	return out
}

func encodeConst(c constant.Const) object {
	switch v := c.(type) {
	case constant.Int:
		return object{"t": "int", "v": int64(v)}
	case constant.Char:
		return object{"t": "char", "v": int64(v)}
	case constant.Float:
		// Spelling, not value: floats are not canonical JSON.
		return object{"t": "float", "v": string(v)}
	case constant.BigInt:
		return object{"t": "bigint", "v": string(v)}
	case constant.String:
		return object{"t": "string", "v": encodeText(v.Value), "unicode": v.Unicode}
	case constant.Block:
		fields := make([]any, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = encodeConst(f)
		}
		return object{"t": "block", "tag": int64(v.Tag), "fields": fields}
	case constant.Some:
		return object{"t": "some", "v": encodeConst(v.Value)}
	default:
		// true, false, null, undefined
		return object{"t": c.String()}
	}
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		if !utf8.ValidString(val) {
			return fmt.Errorf("invalid UTF-8 in %q", val)
		}
		writeString(buf, val)
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case object:
		buf.WriteByte('{')
		for i, k := range sortedKeys(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if !utf8.ValidString(k) {
				return fmt.Errorf("invalid UTF-8 in key %q", k)
			}
			writeString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeString escapes only what RFC 8785 requires: quote, backslash and
// control characters. U+2028, U+2029 and <>& are written literally.
// s must be valid UTF-8.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// sortedKeys orders keys by UTF-16 code units; Go's string order is by
// UTF-8 bytes, which differs above U+FFFF.
func sortedKeys(o object) []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
	return keys
}
