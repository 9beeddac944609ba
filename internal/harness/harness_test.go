package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/function"
	"github.com/roach88/weekfn/internal/store"
	"github.com/roach88/weekfn/internal/testutil"
	"github.com/roach88/weekfn/internal/types"
)

func dateCall(fn string, values ...string) CallStep {
	return CallStep{
		Function: fn,
		Args:     []ArgSpec{{Type: "Date", Values: values}},
	}
}

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		QueryID:     "q-minimal",
		Calls:       []CallStep{dateCall("toWeek", "2024-01-03")},
		Assertions: []Assertion{
			{Type: AssertTraceContains, Function: "toWeek"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "q-minimal", result.QueryID)

	require.Len(t, result.Trace, 1)
	ev := result.Trace[0]
	assert.Equal(t, 1, ev.Step)
	assert.Equal(t, []string{"Date"}, ev.ArgTypes)
	assert.Equal(t, "UInt8", ev.ReturnType)
	assert.Equal(t, "NarrowDay->UInt8", ev.Path)
	assert.Equal(t, []string{"0"}, ev.Values)
	assert.Empty(t, ev.ErrorCode)
}

func TestRun_DefaultQueryID(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "default_id",
		Description: "No query id",
		Calls:       []CallStep{dateCall("toWeek", "2024-01-03")},
	})
	require.NoError(t, err)
	assert.Equal(t, testutil.DefaultQueryID, result.QueryID)
}

func TestRun_ExpectMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Wrong expectations are reported, not returned",
		Calls: []CallStep{
			{
				Function: "toStartOfWeek",
				Args:     []ArgSpec{{Type: "Date32", Values: []string{"2024-01-03"}}},
				Expect:   &ExpectClause{ReturnType: "Date32", Values: []string{"2024-01-01"}},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "return type Date, expected Date32")
	assert.Contains(t, result.Errors[1], "values [2023-12-31], expected [2024-01-01]")
}

func TestRun_SettingsReachFunctions(t *testing.T) {
	call := CallStep{
		Function: "toStartOfWeek",
		Args:     []ArgSpec{{Type: "Date32", Values: []string{"2024-01-03"}}},
	}

	narrow, err := Run(&Scenario{Name: "narrow", Description: "d", Calls: []CallStep{call}})
	require.NoError(t, err)
	assert.Equal(t, "Date", narrow.Trace[0].ReturnType)
	assert.Equal(t, "WideDay->Date (narrowing)", narrow.Trace[0].Path)

	wide, err := Run(&Scenario{
		Name:        "wide",
		Description: "d",
		Settings:    ScenarioSettings{EnableDate32Results: true},
		Calls:       []CallStep{call},
	})
	require.NoError(t, err)
	assert.Equal(t, "Date32", wide.Trace[0].ReturnType)
	assert.Equal(t, "WideDay->Date32", wide.Trace[0].Path)
}

func TestRun_SessionTimezone(t *testing.T) {
	// 2024-01-06 20:00:00 UTC is Sunday morning in Tokyo.
	scenario := &Scenario{
		Name:        "session_tz",
		Description: "Calendar text and week boundaries use the session timezone",
		Settings:    ScenarioSettings{SessionTimezone: "Asia/Tokyo"},
		Calls: []CallStep{
			{
				Function: "toStartOfWeek",
				Args:     []ArgSpec{{Type: "DateTime", Values: []string{"1704571200"}}},
				Expect:   &ExpectClause{ReturnType: "Date", Values: []string{"2024-01-07"}},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_InvalidSettings(t *testing.T) {
	_, err := Run(&Scenario{
		Name:        "bad_tz",
		Description: "d",
		Settings:    ScenarioSettings{SessionTimezone: "Mars/Olympus"},
		Calls:       []CallStep{dateCall("toWeek", "2024-01-03")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario settings")
}

func TestRun_ArgumentLengthMismatch(t *testing.T) {
	_, err := Run(&Scenario{
		Name:        "lengths",
		Description: "d",
		Calls: []CallStep{{
			Function: "toWeek",
			Args: []ArgSpec{
				{Type: "Date", Values: []string{"2024-01-03", "2024-01-04"}},
				{Type: "UInt8", Values: []string{"1"}},
			},
		}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differ in length")
}

func TestRun_UnexpectedError(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "unexpected",
		Description: "d",
		Calls:       []CallStep{{Function: "toWeek", Args: []ArgSpec{}}},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "calls[0] toWeek: unexpected error")
	assert.Equal(t, string(function.ErrCodeArity), result.Trace[0].ErrorCode)
}

func TestRun_ExpectedErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		call    CallStep
		want    ExpectError
		wantMsg string
	}{
		{
			name:    "wrong kind",
			call:    CallStep{Function: "toWeek", Args: []ArgSpec{}},
			want:    ExpectError{Kind: ErrorKindType},
			wantMsg: "expected type error",
		},
		{
			name:    "wrong position",
			call:    CallStep{Function: "toWeek", Args: []ArgSpec{{Type: "String", Values: []string{"x"}}}},
			want:    ExpectError{Kind: ErrorKindType, Position: 2},
			wantMsg: "type error at argument 1, expected argument 2",
		},
		{
			name:    "call succeeded",
			call:    dateCall("toWeek", "2024-01-03"),
			want:    ExpectError{Kind: ErrorKindArity},
			wantMsg: "expected arity error, call returned UInt8",
		},
		{
			name:    "not unknown",
			call:    CallStep{Function: "toWeek", Args: []ArgSpec{}},
			want:    ExpectError{Kind: ErrorKindUnknownFunction},
			wantMsg: "expected unknown function error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := tt.call
			want := tt.want
			step.Expect = &ExpectClause{Error: &want}

			result, err := Run(&Scenario{Name: "kinds", Description: "d", Calls: []CallStep{step}})
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.wantMsg)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/to_week_modes.yaml")
	require.NoError(t, err)

	result1, err := Run(scenario)
	require.NoError(t, err)
	result2, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result1.Pass, result1.Errors)
	assert.Equal(t, result1, result2)
}

func TestRun_FreshDatabasePerRun(t *testing.T) {
	scenario := &Scenario{
		Name:        "fresh",
		Description: "Each run starts with an empty run log",
		QueryID:     "q-fresh",
		Calls:       []CallStep{dateCall("toWeek", "2024-01-03")},
		Assertions:  []Assertion{{Type: AssertRunLog, Count: 1}},
	}

	for i := 0; i < 2; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "run %d: %v", i, result.Errors)
	}
}

func TestRunContext_PersistsRunLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	scenario := &Scenario{
		Name:        "persist",
		Description: "d",
		QueryID:     "q-persist",
		Calls: []CallStep{
			dateCall("toWeek", "2024-01-03", "2024-01-04"),
			dateCall("toLastDayOfWeek", "2024-01-03"),
		},
	}

	result, err := RunContext(context.Background(), scenario, Options{StorePath: path})
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.Runs(context.Background(), "q-persist")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "toWeek", runs[0].Function)
	assert.Equal(t, 2, runs[0].Rows)
	assert.Equal(t, "NarrowDay->Date", runs[1].Path)
}

// widening resolves to Date but produces Date32.
type widening struct{}

func (widening) Name() string        { return "widening" }
func (widening) Spec() function.Spec { return function.Spec{Name: "widening", MinArgs: 1, MaxArgs: 1} }
func (widening) Monotonicity(types.DataType, *int64, *int64) function.Monotonicity {
	return function.Monotonicity{}
}
func (widening) ReturnType([]types.DataType) (types.DataType, error) { return types.Date{}, nil }
func (widening) Execute([]function.Argument, types.DataType, int) (column.Column, error) {
	return column.NewVector(types.Date32{}, []int32{0}), nil
}

func TestRunContext_ResolverMismatchIsReported(t *testing.T) {
	reg := function.NewRegistry()
	require.NoError(t, reg.Register(function.Entry{
		Name:    "widening",
		Factory: func(function.Settings) function.Function { return widening{} },
	}))

	scenario := &Scenario{
		Name:        "mismatch",
		Description: "d",
		Calls:       []CallStep{dateCall("widening", "2024-01-03")},
		Assertions:  []Assertion{{Type: AssertRunLog, Count: 1}},
	}

	result, err := RunContext(context.Background(), scenario, Options{Registry: reg})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1, "the failed batch is still logged")
	assert.Equal(t, "RESOLVER_MISMATCH", result.Trace[0].ErrorCode)
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)

	result.AddError("first")
	result.AddError("second")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"first", "second"}, result.Errors)
}

func TestRun_AssertionFailures(t *testing.T) {
	scenario := &Scenario{
		Name:        "assertions",
		Description: "d",
		Calls:       []CallStep{dateCall("toWeek", "2024-01-03")},
		Assertions: []Assertion{
			{Type: AssertTraceContains, Function: "toWeek", Path: "WideDay->UInt8"},
			{Type: AssertTraceCount, Function: "toWeek", Count: 2},
			{Type: AssertRunLog, Function: "toStartOfWeek", Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "toWeek via WideDay->UInt8")
	assert.Contains(t, result.Errors[1], "2 calls of toWeek")
	assert.Contains(t, result.Errors[2], "1 logged batches (toStartOfWeek)")
}
