package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/weekfn/internal/session"
	"github.com/roach88/weekfn/internal/store"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Step: 1, Function: "toWeek", ArgTypes: []string{"Date32"}, ReturnType: "UInt8", Path: "WideDay->UInt8", Values: []string{"1"}},
		{Step: 2, Function: "toStartOfWeek", ArgTypes: []string{"Date"}, ErrorCode: "ILLEGAL_TYPE_OF_ARGUMENT"},
		{Step: 3, Function: "toWeek", ArgTypes: []string{"Date"}, ReturnType: "UInt8", Path: "NarrowDay->UInt8", Values: []string{"1"}},
	}
}

func TestAssertTraceContains_Found(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{Type: AssertTraceContains, Function: "toWeek"})
	assert.NoError(t, err)
}

func TestAssertTraceContains_PathMatch(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{Type: AssertTraceContains, Function: "toWeek", Path: "NarrowDay->UInt8"})
	assert.NoError(t, err)
}

func TestAssertTraceContains_NotFound(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{Type: AssertTraceContains, Function: "toYearWeek"})
	require.Error(t, err)

	assertErr, ok := err.(*AssertionError)
	require.True(t, ok)
	assert.Equal(t, AssertTraceContains, assertErr.Type)
	assert.Equal(t, "toYearWeek", assertErr.Expected)
	assert.Equal(t, "not found in trace", assertErr.Actual)
}

func TestAssertTraceContains_WrongPath(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{Type: AssertTraceContains, Function: "toStartOfWeek", Path: "NarrowDay->Date"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toStartOfWeek via NarrowDay->Date")
}

func TestAssertTraceOrder_Correct(t *testing.T) {
	err := assertTraceOrder(sampleTrace(), Assertion{Type: AssertTraceOrder, Functions: []string{"toWeek", "toStartOfWeek"}})
	assert.NoError(t, err)
}

func TestAssertTraceOrder_WrongOrder(t *testing.T) {
	err := assertTraceOrder(sampleTrace(), Assertion{Type: AssertTraceOrder, Functions: []string{"toStartOfWeek", "toWeek"}})
	require.Error(t, err)

	assertErr, ok := err.(*AssertionError)
	require.True(t, ok)
	assert.Equal(t, "toStartOfWeek (pos 2) should be before toWeek (pos 1)", assertErr.Actual)
}

func TestAssertTraceOrder_MissingFunction(t *testing.T) {
	err := assertTraceOrder(sampleTrace(), Assertion{Type: AssertTraceOrder, Functions: []string{"toWeek", "toLastDayOfWeek"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing function: toLastDayOfWeek")
}

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace(), Assertion{Function: "toWeek", Count: 2}))
	assert.NoError(t, assertTraceCount(sampleTrace(), Assertion{Function: "toYearWeek", Count: 0}))

	err := assertTraceCount(sampleTrace(), Assertion{Function: "toWeek", Count: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 calls")
}

func TestAssertionError_ListsTrace(t *testing.T) {
	err := &AssertionError{Type: AssertTraceCount, Expected: "x", Actual: "y", Trace: sampleTrace()}
	msg := err.Error()
	assert.Contains(t, msg, "[1] toWeek(Date32) via WideDay->UInt8")
	assert.Contains(t, msg, "[2] toStartOfWeek(Date) error ILLEGAL_TYPE_OF_ARGUMENT")
}

func TestAssertRunLog(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.RecordRuns(ctx, []session.Event{
		{Seq: 1, QueryID: "q", Function: "toWeek", Rows: 1},
		{Seq: 2, QueryID: "q", Function: "toStartOfWeek", Rows: 1},
		{Seq: 1, QueryID: "other", Function: "toWeek", Rows: 1},
	}))

	assert.NoError(t, assertRunLog(ctx, st, "q", Assertion{Count: 2}))
	assert.NoError(t, assertRunLog(ctx, st, "q", Assertion{Function: "toWeek", Count: 1}))
	assert.Error(t, assertRunLog(ctx, st, "q", Assertion{Function: "toWeek", Count: 2}))
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Function: "toWeek", Count: 2},
		{Type: AssertRunLog, Count: 0},
		{Type: "bogus"},
	}, nil)

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "run_log requires database context")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}
