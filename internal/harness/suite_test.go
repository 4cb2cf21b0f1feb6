package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, file, name string) {
	t.Helper()
	src := "name: " + name + "\ntree: 1\nassertions: [{type: prints, expect: \"1\"}]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(src), 0o644))
}

func TestLoadSuite(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", "second")
	writeScenario(t, dir, "a.yml", "first")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	scenarios, err := LoadSuite(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadSuite_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "same")
	writeScenario(t, dir, "b.yaml", "same")

	_, err := LoadSuite(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate scenario name "same"`)
}

func TestLoadSuite_MissingDir(t *testing.T) {
	_, err := LoadSuite(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", "one")

	s, err := FindScenario(dir, "one")
	require.NoError(t, err)
	assert.Equal(t, "one", s.Name)

	_, err = FindScenario(dir, "two")
	var nf *ScenarioNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "two", nf.Name)
	assert.Equal(t, filepath.Join(dir, "two.yaml"), nf.ResolvedPath)
}
