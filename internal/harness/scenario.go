package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/weekfn/internal/types"
)

// Scenario defines a conformance test scenario: a sequence of week
// function calls under one set of query settings, with expected results
// and assertions on the resulting trace and run log.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Settings are the query settings captured by every function the
	// scenario calls.
	Settings ScenarioSettings `yaml:"settings,omitempty"`

	// QueryID is an optional fixed query id for deterministic tests.
	// If empty, testutil.DefaultQueryID is used.
	QueryID string `yaml:"query_id,omitempty"`

	// Calls are executed in order. Each call is bound and run as one batch.
	Calls []CallStep `yaml:"calls"`

	// Assertions validate the final trace and run log.
	// Supported types: trace_contains, trace_order, trace_count, run_log
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ScenarioSettings mirrors the query settings a function captures.
type ScenarioSettings struct {
	EnableDate32Results bool   `yaml:"enable_date32_results"`
	SessionTimezone     string `yaml:"session_timezone"`
}

// CallStep is one function call.
type CallStep struct {
	// Function is the registered function name or alias.
	Function string `yaml:"function"`

	// Args are the positional arguments. May be empty to exercise arity
	// checking.
	Args []ArgSpec `yaml:"args"`

	// Expect specifies the expected outcome. If nil, the call must succeed
	// and its output is only recorded.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ArgSpec describes one argument column in textual form.
type ArgSpec struct {
	// Type is the declared type, e.g. "Date32" or "DateTime64(3, 'UTC')".
	Type string `yaml:"type"`

	// Values are the rows in their textual form. "NULL" is a null row.
	Values []string `yaml:"values"`

	// Const marks a constant column. It must hold exactly one value and is
	// expanded to the row count of the call.
	Const bool `yaml:"const,omitempty"`
}

// ExpectClause specifies the expected outcome of a call.
type ExpectClause struct {
	// ReturnType is the expected result type name.
	ReturnType string `yaml:"return_type,omitempty"`

	// Values are the expected result rows in textual form.
	Values []string `yaml:"values,omitempty"`

	// Error expects the call to fail. Mutually exclusive with ReturnType
	// and Values.
	Error *ExpectError `yaml:"error,omitempty"`
}

// ExpectError describes an expected call failure.
type ExpectError struct {
	// Kind is one of "arity", "type" or "unknown_function".
	Kind string `yaml:"kind"`

	// Position is the expected 1-based argument position for "type".
	// Zero skips the check.
	Position int `yaml:"position,omitempty"`
}

// Expected error kinds.
const (
	ErrorKindArity           = "arity"
	ErrorKindType            = "type"
	ErrorKindUnknownFunction = "unknown_function"
)

// Assertion validates the trace or run log.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a call of Function appears, optionally with Path
	// - "trace_order": Functions appear in order
	// - "trace_count": Function appears exactly Count times
	// - "run_log": the store logged exactly Count executed batches,
	//   restricted to Function when set
	Type string `yaml:"type"`

	// Function is the function name (trace_contains, trace_count, run_log).
	Function string `yaml:"function,omitempty"`

	// Path is the expected execution path (trace_contains), e.g.
	// "WideDay->Date32".
	Path string `yaml:"path,omitempty"`

	// Count is the expected number of occurrences (trace_count, run_log).
	Count int `yaml:"count,omitempty"`

	// Functions is the expected call order (trace_order).
	Functions []string `yaml:"functions,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertRunLog        = "run_log"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
// A non-empty filter is a glob matched against the file name without
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Calls) == 0 {
		return fmt.Errorf("calls list is required and must be non-empty")
	}

	for i, step := range s.Calls {
		if err := validateCall(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateCall(index int, c *CallStep) error {
	if c.Function == "" {
		return fmt.Errorf("calls[%d]: function is required", index)
	}

	for j, a := range c.Args {
		if a.Type == "" {
			return fmt.Errorf("calls[%d].args[%d]: type is required", index, j)
		}
		if _, err := types.Parse(a.Type); err != nil {
			return fmt.Errorf("calls[%d].args[%d]: %w", index, j, err)
		}
		if a.Const && len(a.Values) != 1 {
			return fmt.Errorf("calls[%d].args[%d]: a const argument needs exactly one value, got %d", index, j, len(a.Values))
		}
	}

	if c.Expect == nil {
		return nil
	}
	if e := c.Expect.Error; e != nil {
		if c.Expect.ReturnType != "" || c.Expect.Values != nil {
			return fmt.Errorf("calls[%d].expect: error cannot be combined with return_type or values", index)
		}
		switch e.Kind {
		case ErrorKindArity, ErrorKindType, ErrorKindUnknownFunction:
		default:
			return fmt.Errorf("calls[%d].expect.error: unknown kind %q", index, e.Kind)
		}
		if e.Position < 0 {
			return fmt.Errorf("calls[%d].expect.error: position must be non-negative", index)
		}
	}
	if c.Expect.ReturnType != "" {
		if _, err := types.Parse(c.Expect.ReturnType); err != nil {
			return fmt.Errorf("calls[%d].expect: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Functions) == 0 {
			return fmt.Errorf("assertions[%d]: functions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertRunLog:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for run_log", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
