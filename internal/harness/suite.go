package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScenarioNotFoundError is returned when a named scenario has no file.
type ScenarioNotFoundError struct {
	Name         string
	ResolvedPath string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q does not exist (resolved to: %s)", e.Name, e.ResolvedPath)
}

// LoadSuite loads every .yaml and .yml scenario in dir, sorted by file name.
// Scenario names must be unique within a suite since they name golden files.
func LoadSuite(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// FindScenario loads the scenario stored as dir/<name>.yaml.
func FindScenario(dir, name string) (*Scenario, error) {
	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &ScenarioNotFoundError{Name: name, ResolvedPath: path}
	}
	return LoadScenario(path)
}
