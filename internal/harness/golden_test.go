package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every fixture under testdata/scenarios against its
// golden snapshot. Regenerate with:
//
//	go test ./internal/harness -run TestScenarios -update
func TestScenarios(t *testing.T) {
	scenarios, err := LoadSuite("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestSnapshot(t *testing.T) {
	r := &Result{Pass: true, Printed: "(%add x/1 1)", Value: "3"}
	assert.Equal(t, "scenario: s\ntree: (%add x/1 1)\nvalue: 3\n", string(Snapshot("s", r)))

	r.Value = ""
	assert.Equal(t, "scenario: s\ntree: (%add x/1 1)\n", string(Snapshot("s", r)))
}
