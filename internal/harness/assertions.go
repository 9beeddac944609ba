package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/weekfn/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s(%s)", event.Step, event.Function, strings.Join(event.ArgTypes, ", "))
			if event.ErrorCode != "" {
				fmt.Fprintf(&buf, " error %s", event.ErrorCode)
			} else if event.Path != "" {
				fmt.Fprintf(&buf, " via %s", event.Path)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains a call of the function,
// on the given execution path when one is specified.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Function != assertion.Function {
			continue
		}
		if assertion.Path == "" || event.Path == assertion.Path {
			return nil
		}
	}

	expected := assertion.Function
	if assertion.Path != "" {
		expected = fmt.Sprintf("%s via %s", assertion.Function, assertion.Path)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if functions first appear in the specified order.
// Calls don't need to be consecutive (intervening calls are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if positions[event.Function] == 0 {
			positions[event.Function] = i + 1 // 1-indexed for readability
		}
	}

	for _, fn := range assertion.Functions {
		if positions[fn] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all functions present: %v", assertion.Functions),
				Actual:   fmt.Sprintf("missing function: %s", fn),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Functions); i++ {
		prev := assertion.Functions[i-1]
		curr := assertion.Functions[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("functions in order: %v", assertion.Functions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks if the function is called exactly the specified
// number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Function == assertion.Function {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d calls of %s", assertion.Count, assertion.Function),
			Actual:   fmt.Sprintf("%d calls", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertRunLog checks the number of executed batches the store logged for
// the query. Calls rejected while binding never reach the log.
func assertRunLog(ctx context.Context, st *store.Store, queryID string, assertion Assertion) error {
	runs, err := st.Runs(ctx, queryID)
	if err != nil {
		return &AssertionError{
			Type:     AssertRunLog,
			Expected: fmt.Sprintf("run log for query %s", queryID),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	count := 0
	for _, r := range runs {
		if assertion.Function == "" || r.Function == assertion.Function {
			count++
		}
	}

	if count != assertion.Count {
		scope := "all functions"
		if assertion.Function != "" {
			scope = assertion.Function
		}
		return &AssertionError{
			Type:     AssertRunLog,
			Expected: fmt.Sprintf("%d logged batches (%s)", assertion.Count, scope),
			Actual:   fmt.Sprintf("%d logged batches", count),
		}
	}
	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store   *store.Store
	Ctx     context.Context
	QueryID string
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for run_log assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertRunLog:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: run_log requires database context", i)
			} else {
				err = assertRunLog(actx.Ctx, actx.Store, actx.QueryID, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
