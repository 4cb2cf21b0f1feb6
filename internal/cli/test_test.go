package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addScenario = `name: add_folds
tree: {prim: {name: add, args: [2, 3]}}
assertions:
  - type: prints
    expect: "5"
  - type: evaluates
    expect: "5"
`

const failingScenario = `name: wrong_value
tree: {prim: {name: sub, args: [{var: x/1}, 1]}}
env: {x/1: 1}
assertions:
  - type: evaluates
    expect: "1"
`

func TestTestCommand_Update(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add.yaml", addScenario)

	out, err := execute(t, "test", "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ add_folds")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "add_folds.golden"))
	require.NoError(t, err)
	assert.Equal(t, "scenario: add_folds\ntree: 5\nvalue: 5\n", string(golden))

	out, err = execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add.yaml", addScenario)
	writeFile(t, dir, "golden/add_folds.golden", "scenario: add_folds\ntree: 6\nvalue: 6\n")

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ add_folds")
	assert.Contains(t, out, "--update")
}

func TestTestCommand_Failures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add.yaml", addScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	out, err := execute(t, "test", "--format", "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["passed"])
	assert.Equal(t, float64(1), data["failed"])
	assert.Equal(t, float64(2), data["total"])
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add.yaml", addScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	out, err := execute(t, "test", "--filter", "add_*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	out, err = execute(t, "test", "--filter", "nothing_*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")

	_, err = execute(t, "test", "--filter", "[", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeGeneric)
}

func TestTestCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "test", filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)

	writeFile(t, dir, "bad.yaml", "name: bad\nassertions: []\nunknown: 1\n")
	_, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeScenario)
}
