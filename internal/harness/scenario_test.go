package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: add
description: "constant addition folds"
tree: {prim: {name: add, args: [1, 2]}}
max_steps: 10
assertions:
  - type: prints
    expect: "3"
  - type: evaluates
    expect: "3"
`))
	require.NoError(t, err)
	assert.Equal(t, "add", s.Name)
	assert.Equal(t, 10, s.MaxSteps)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, AssertPrints, s.Assertions[0].Type)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "tree: 1\nassertions: [{type: idempotent}]", "name is required"},
		{"missing tree", "name: a\nassertions: [{type: idempotent}]", "tree is required"},
		{"no assertions", "name: a\ntree: 1", "assertions list is required"},
		{"negative steps", "name: a\ntree: 1\nmax_steps: -1\nassertions: [{type: idempotent}]", "max_steps"},
		{"unknown field", "name: a\ntree: 1\nflow: []\nassertions: [{type: idempotent}]", "field flow not found"},
		{"unknown assertion field", "name: a\ntree: 1\nassertions: [{type: prints, expected: x}]", "field expected not found"},
		{"unknown type", "name: a\ntree: 1\nassertions: [{type: trace_contains}]", `unknown assertion type "trace_contains"`},
		{"missing type", "name: a\ntree: 1\nassertions: [{expect: x}]", "type is required"},
		{"prints without expect", "name: a\ntree: 1\nassertions: [{type: prints}]", "expect is required for prints"},
		{"evaluates with both", "name: a\ntree: 1\nassertions: [{type: evaluates, expect: '1', error: NO_MATCH}]", "exactly one of expect or error"},
		{"evaluates with neither", "name: a\ntree: 1\nassertions: [{type: evaluates}]", "exactly one of expect or error"},
		{"equal_to without other", "name: a\ntree: 1\nassertions: [{type: equal_to}]", "other is required"},
		{"free_vars without vars", "name: a\ntree: 1\nassertions: [{type: free_vars}]", "vars is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: s\ntree: 1\nassertions: [{type: idempotent}]\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "s", s.Name)

	_, err = LoadScenario(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: bad\n"), 0o644))
	_, err = LoadScenario(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}
