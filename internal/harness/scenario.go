package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Tree is the node document, decoded with decode.Node.
	Tree any `yaml:"tree"`

	// Env binds the free variables of Tree for evaluation.
	Env map[string]any `yaml:"env,omitempty"`

	// MaxSteps overrides the evaluation step quota. Zero keeps the default.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Assertions are checked in order; all of them run even after a failure.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion types.
const (
	AssertPrints     = "prints"
	AssertEvaluates  = "evaluates"
	AssertIdempotent = "idempotent"
	AssertEqualTo    = "equal_to"
	AssertFreeVars   = "free_vars"
	AssertHashStable = "hash_stable"
)

// Assertion validates the constructed tree.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Expect is the printed tree (prints) or printed value (evaluates).
	Expect string `yaml:"expect,omitempty"`

	// Error is the expected runtime error code (evaluates), e.g. "NO_MATCH".
	Error string `yaml:"error,omitempty"`

	// Other is a second node document (equal_to, hash_stable).
	Other any `yaml:"other,omitempty"`

	// Equal is the expected EqApprox answer (equal_to). Nil means true.
	Equal *bool `yaml:"equal,omitempty"`

	// Vars lists the expected free variables, e.g. ["x/1", "y/2"] (free_vars).
	Vars []string `yaml:"vars,omitempty"`
}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so that typos in assertion names fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Validate checks required fields and per-type assertion fields.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Tree == nil {
		return fmt.Errorf("tree is required")
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPrints:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for prints", index)
		}
	case AssertEvaluates:
		if (a.Expect == "") == (a.Error == "") {
			return fmt.Errorf("assertions[%d]: exactly one of expect or error is required for evaluates", index)
		}
	case AssertIdempotent:
	case AssertEqualTo:
		if a.Other == nil {
			return fmt.Errorf("assertions[%d]: other is required for equal_to", index)
		}
	case AssertFreeVars:
		if a.Vars == nil {
			return fmt.Errorf("assertions[%d]: vars is required for free_vars (use [] for a closed tree)", index)
		}
	case AssertHashStable:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
