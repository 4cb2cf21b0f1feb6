package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lamir/internal/eval"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
)

// Document is a decoded tree with the bindings for its free variables.
type Document struct {
	Tree lam.Node
	Env  map[ident.Ident]eval.Value
}

// DecodeYAML decodes a YAML document.
func DecodeYAML(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errorf("", "parsing YAML: %v", err)
	}
	return document(raw)
}

// DecodeJSON decodes a JSON document. Numbers keep their spelling, so
// float literals survive unchanged.
func DecodeJSON(data []byte) (*Document, error) {
	raw, err := unmarshalJSON(data)
	if err != nil {
		return nil, err
	}
	return document(raw)
}

// DecodeCUE decodes the "tree" and "env" fields of a CUE file. Both must be
// concrete; everything else in the file (definitions, helper fields) is
// ignored.
func DecodeCUE(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, errorf("", "compiling CUE: %v", err)
	}

	root := make(map[string]any)
	for _, key := range []string{"tree", "env"} {
		field := v.LookupPath(cue.ParsePath(key))
		if !field.Exists() {
			continue
		}
		if err := field.Validate(cue.Concrete(true)); err != nil {
			return nil, errorf(key, "not concrete: %v", err)
		}
		data, err := field.MarshalJSON()
		if err != nil {
			return nil, errorf(key, "exporting CUE value: %v", err)
		}
		raw, err := unmarshalJSON(data)
		if err != nil {
			return nil, err
		}
		root[key] = raw
	}
	return document(root)
}

// LoadFile reads a document, choosing the decoder by file extension
// (.yaml, .yml, .json or .cue).
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		doc, err = DecodeYAML(data)
	case ".json":
		doc, err = DecodeJSON(data)
	case ".cue":
		doc, err = DecodeCUE(data, path)
	default:
		return nil, errorf("", "%s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseNode decodes a single node written in YAML (JSON is accepted too,
// being a subset). Used for interactive input such as
// `{prim: {name: add, args: [1, 2]}}`.
func ParseNode(src string) (lam.Node, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(src), &raw); err != nil {
		return nil, errorf("", "parsing YAML: %v", err)
	}
	if raw == nil {
		return nil, errorf("", "empty input")
	}
	return Node("", raw)
}

// ParseValue decodes a single runtime value written in YAML, in the form
// used for env bindings, e.g. `{block: {tag: 0, fields: [1, 2]}}`.
func ParseValue(src string) (eval.Value, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(src), &raw); err != nil {
		return nil, errorf("", "parsing YAML: %v", err)
	}
	return Value("", raw)
}

func document(raw any) (*Document, error) {
	o, err := asObject("", raw, "tree", "env")
	if err != nil {
		return nil, err
	}
	tree, err := o.node("tree")
	if err != nil {
		return nil, err
	}
	env, err := Env("env", o.m["env"])
	if err != nil {
		return nil, err
	}
	return &Document{Tree: tree, Env: env}, nil
}

func unmarshalJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errorf("", "parsing JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errorf("", "parsing JSON: trailing data after document")
	}
	return raw, nil
}
