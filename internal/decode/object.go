package decode

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/roach88/lamir/internal/ident"
)

// object is a mapping being decoded, with the path used in error messages.
type object struct {
	path string
	m    map[string]any
}

func asObject(path string, raw any, allowed ...string) (object, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return object{}, errorf(path, "expected a mapping, got %s", describe(raw))
	}
	var unknown []string
	for k := range m {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return object{}, errorf(path, "unknown field(s) %v", unknown)
	}
	return object{path: path, m: m}, nil
}

func (o object) at(key string) string {
	return join(o.path, key)
}

func (o object) has(key string) bool {
	_, ok := o.m[key]
	return ok
}

func (o object) required(key string) (any, error) {
	v, ok := o.m[key]
	if !ok {
		return nil, errorf(o.path, "missing field %q", key)
	}
	return v, nil
}

func (o object) str(key, def string) (string, error) {
	v, ok := o.m[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errorf(o.at(key), "expected a string, got %s", describe(v))
	}
	return s, nil
}

func (o object) int(key string, def int) (int, error) {
	v, ok := o.m[key]
	if !ok {
		return def, nil
	}
	n, ok := asInt(v)
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, errorf(o.at(key), "expected a small integer, got %s", describe(v))
	}
	return int(n), nil
}

func (o object) requiredInt(key string) (int, error) {
	if !o.has(key) {
		return 0, errorf(o.path, "missing field %q", key)
	}
	return o.int(key, 0)
}

func (o object) bool(key string) (bool, error) {
	v, ok := o.m[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errorf(o.at(key), "expected a boolean, got %s", describe(v))
	}
	return b, nil
}

func (o object) list(key string) ([]any, error) {
	v, ok := o.m[key]
	if !ok || v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, errorf(o.at(key), "expected a list, got %s", describe(v))
	}
	return l, nil
}

func (o object) ident(key string) (ident.Ident, error) {
	v, err := o.required(key)
	if err != nil {
		return ident.Ident{}, err
	}
	return identOf(o.at(key), v)
}

func (o object) idents(key string) ([]ident.Ident, error) {
	l, err := o.list(key)
	if err != nil {
		return nil, err
	}
	ids := make([]ident.Ident, len(l))
	for i, v := range l {
		id, err := identOf(index(o.at(key), i), v)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func identOf(path string, raw any) (ident.Ident, error) {
	s, ok := raw.(string)
	if !ok {
		return ident.Ident{}, errorf(path, "expected an identifier, got %s", describe(raw))
	}
	id, err := ident.Parse(s)
	if err != nil {
		return ident.Ident{}, errorf(path, "%v", err)
	}
	return id, nil
}

// asInt accepts the integer representations the YAML and JSON decoders produce.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "a mapping"
	case []any:
		return "a list"
	case string:
		return fmt.Sprintf("string %q", v)
	default:
		return fmt.Sprintf("%T %v", v, v)
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// single unpacks a one-key mapping.
func single(path string, m map[string]any) (string, any, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", nil, errorf(path, "expected exactly one key, got %v", keys)
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}
