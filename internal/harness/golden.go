package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the parts of a result that golden files pin down.
//
//	scenario: not_of_comparison
//	tree: (%ge x/1 3)
//	value: true
func Snapshot(name string, result *Result) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scenario: %s\n", name)
	fmt.Fprintf(&sb, "tree: %s\n", result.Printed)
	if result.Value != "" {
		fmt.Fprintf(&sb, "value: %s\n", result.Value)
	}
	return []byte(sb.String())
}

// RunWithGolden executes a scenario, fails the test on any assertion
// failure, and compares the snapshot with testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}
