package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/config"
	"github.com/roach88/weekfn/internal/function"
	"github.com/roach88/weekfn/internal/session"
	"github.com/roach88/weekfn/internal/store"
	"github.com/roach88/weekfn/internal/testutil"
	"github.com/roach88/weekfn/internal/types"
)

// Options configures a harness run.
type Options struct {
	// Logger receives session logs. Default: discarded.
	Logger *slog.Logger

	// StorePath is the SQLite database receiving the run log.
	// Default: a fresh in-memory database.
	StorePath string

	// Registry supplies the callable functions. Default: function.Default().
	Registry *function.Registry
}

// Harness is the test execution engine.
// It runs scenario calls through a session with a fixed query id.
type Harness struct {
	store     *store.Store
	session   *session.Session
	sessionTZ string
	logger    *slog.Logger
}

// Run executes a test scenario with default options.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, Options{})
}

// RunContext executes a test scenario and returns the result.
//
// Execution flow:
//  1. Open the run log store (in-memory unless opts.StorePath is set)
//  2. Create a session from the scenario settings
//  3. Bind and execute each call, checking its expect clause
//  4. Record the session trace in the run log
//  5. Evaluate assertions against the trace and the run log
//
// A non-nil error means the scenario could not be run; expectation and
// assertion failures are reported in the result.
func RunContext(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	settings := config.Defaults()
	settings.EnableDate32Results = scenario.Settings.EnableDate32Results
	if scenario.Settings.SessionTimezone != "" {
		settings.SessionTimezone = scenario.Settings.SessionTimezone
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("scenario settings: %w", err)
	}

	path := opts.StorePath
	if path == "" {
		path = ":memory:"
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log store: %w", err)
	}
	defer st.Close()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	registry := opts.Registry
	if registry == nil {
		registry = function.Default()
	}

	sess := session.New(settings.Function(), registry,
		session.WithIDGenerator(testutil.NewFixedQueryID(scenario.QueryID)),
		session.WithLogger(logger))

	h := &Harness{
		store:     st,
		session:   sess,
		sessionTZ: settings.SessionTimezone,
		logger:    logger.With("scenario", scenario.Name),
	}

	result := NewResult()
	result.QueryID = sess.QueryID()

	if err := h.executeCalls(ctx, scenario.Calls, result); err != nil {
		return nil, err
	}

	if err := st.RecordRuns(ctx, sess.Trace()); err != nil {
		return nil, err
	}

	actx := &AssertionContext{
		Store:   st,
		Ctx:     ctx,
		QueryID: sess.QueryID(),
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// executeCalls runs every call step in order and validates expect clauses.
func (h *Harness) executeCalls(ctx context.Context, calls []CallStep, result *Result) error {
	for i, step := range calls {
		args, err := h.buildArgs(step.Args)
		if err != nil {
			return fmt.Errorf("calls[%d]: %w", i, err)
		}

		ev := TraceEvent{
			Step:     i + 1,
			Function: step.Function,
			ArgTypes: typeNames(args),
		}

		before := len(h.session.Trace())
		out, callErr := h.session.Call(ctx, step.Function, args)
		if trace := h.session.Trace(); len(trace) > before {
			ev.Path = trace[len(trace)-1].Path
		}

		if callErr != nil {
			ev.ErrorCode = errorCode(callErr)
			ev.Error = callErr.Error()
		} else {
			ev.ReturnType = out.Type().Name()
			values, err := column.Format(out, h.sessionTZ)
			if err != nil {
				return fmt.Errorf("calls[%d]: format result: %w", i, err)
			}
			ev.Values = values
		}
		result.AddTrace(ev)

		for _, msg := range checkExpect(step.Expect, ev, callErr) {
			result.AddError(fmt.Sprintf("calls[%d] %s: %s", i, step.Function, msg))
		}

		h.logger.Info("call completed",
			"step", ev.Step,
			"function", step.Function,
			"return_type", ev.ReturnType,
			"path", ev.Path,
			"error_code", ev.ErrorCode,
		)
	}
	return nil
}

// buildArgs converts textual argument specs into columns. Const arguments
// are expanded to the row count of the first non-const argument.
func (h *Harness) buildArgs(specs []ArgSpec) ([]function.Argument, error) {
	rows := -1
	for _, a := range specs {
		if a.Const {
			continue
		}
		if rows >= 0 && len(a.Values) != rows {
			return nil, fmt.Errorf("argument columns differ in length: %d and %d", rows, len(a.Values))
		}
		rows = len(a.Values)
	}
	if rows < 0 {
		rows = 1
	}

	args := make([]function.Argument, len(specs))
	for j, a := range specs {
		t, err := types.Parse(a.Type)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", j, err)
		}
		col, err := column.FromStrings(t, a.Values, h.sessionTZ)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", j, err)
		}
		if a.Const {
			if col, err = constColumn(col, rows); err != nil {
				return nil, fmt.Errorf("args[%d]: %w", j, err)
			}
		}
		args[j] = function.Argument{Type: t, Column: col}
	}
	return args, nil
}

func constColumn(value column.Column, rows int) (column.Column, error) {
	k, err := column.NewConst(value, rows)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// checkExpect compares a call outcome with its expect clause and returns
// the mismatches.
func checkExpect(expect *ExpectClause, ev TraceEvent, callErr error) []string {
	if expect == nil {
		if callErr != nil {
			return []string{fmt.Sprintf("unexpected error: %v", callErr)}
		}
		return nil
	}

	if want := expect.Error; want != nil {
		if callErr == nil {
			return []string{fmt.Sprintf("expected %s error, call returned %s", want.Kind, ev.ReturnType)}
		}
		return checkError(want, callErr)
	}

	if callErr != nil {
		return []string{fmt.Sprintf("unexpected error: %v", callErr)}
	}

	var msgs []string
	if expect.ReturnType != "" {
		want := types.MustParse(expect.ReturnType).Name()
		if want != ev.ReturnType {
			msgs = append(msgs, fmt.Sprintf("return type %s, expected %s", ev.ReturnType, want))
		}
	}
	if expect.Values != nil && !slices.Equal(expect.Values, ev.Values) {
		msgs = append(msgs, fmt.Sprintf("values %v, expected %v", ev.Values, expect.Values))
	}
	return msgs
}

func checkError(want *ExpectError, err error) []string {
	switch want.Kind {
	case ErrorKindArity:
		if !function.IsArityError(err) {
			return []string{fmt.Sprintf("expected arity error, got: %v", err)}
		}
	case ErrorKindUnknownFunction:
		if !session.IsUnknownFunction(err) {
			return []string{fmt.Sprintf("expected unknown function error, got: %v", err)}
		}
	case ErrorKindType:
		var te *function.TypeError
		if !errors.As(err, &te) {
			return []string{fmt.Sprintf("expected type error, got: %v", err)}
		}
		if want.Position != 0 && te.Position != want.Position {
			return []string{fmt.Sprintf("type error at argument %d, expected argument %d", te.Position, want.Position)}
		}
	}
	return nil
}

// errorCode returns the contract or session code of err, or "" when it
// carries none.
func errorCode(err error) string {
	if code := function.CodeOf(err); code != "" {
		return string(code)
	}
	var se *session.Error
	if errors.As(err, &se) {
		return string(se.Code)
	}
	return ""
}

func typeNames(args []function.Argument) []string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Type.Name()
	}
	return names
}
