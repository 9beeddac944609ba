package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/function"
	"github.com/roach88/weekfn/internal/store"
	"github.com/roach88/weekfn/internal/types"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Type     string   // argument 1 type
	Values   []string // argument 1 rows
	Mode     string   // constant mode argument, empty for none
	Timezone string   // constant timezone argument, empty for none
	Database string   // SQLite database for --table/--column and --save
	Table    string   // input table
	Column   string   // input column
	Save     string   // output table
}

// EvalResult is the outcome of evaluating a call.
type EvalResult struct {
	QueryID    string   `json:"query_id"`
	Function   string   `json:"function"`
	ArgTypes   []string `json:"arg_types"`
	ReturnType string   `json:"return_type"`
	Path       string   `json:"path,omitempty"`
	Values     []string `json:"values"`
}

// String renders one value per line.
func (r EvalResult) String() string {
	return strings.Join(r.Values, "\n")
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <function>",
		Short: "Evaluate a week function over a column",
		Long: `Evaluate a week function over one column of values.

Argument 1 comes from --type and repeated --value flags, or from a
SQLite column (--db, --table, --column). --mode and --timezone add
constant arguments 2 and 3; --timezone alone implies mode 0.

With --db the executed batch is logged for "weekfn trace", and --save
appends the result to a table in the same database.

Exit codes:
  0 - Call evaluated
  1 - Call rejected or failed
  2 - Command error (bad flags, unreadable input)

Examples:
  weekfn eval toWeek --type Date --value 2024-01-03 --value 2023-12-31
  weekfn eval toStartOfWeek --type "DateTime('UTC')" --value "2024-01-06 20:00:00" --mode 1 --timezone Asia/Tokyo
  weekfn eval toYearWeek --db data.db --table events --column day --type Date32 --save weeks`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "argument 1 type (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringArrayVar(&opts.Values, "value", nil, "argument 1 value (repeatable, NULL for null)")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "week mode (0-9)")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "timezone argument")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Table, "table", "", "input table (requires --db)")
	cmd.Flags().StringVar(&opts.Column, "column", "", "input column (requires --db)")
	cmd.Flags().StringVar(&opts.Save, "save", "", "append the result to this table (requires --db)")

	return cmd
}

func runEval(opts *EvalOptions, name string, cmd *cobra.Command) error {
	ctx := context.Background()

	if err := opts.check(); err != nil {
		return err
	}

	t, err := types.Parse(opts.Type)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --type", err)
	}

	sess, settings, err := opts.newSession(cmd)
	if err != nil {
		return err
	}

	var st *store.Store
	if opts.Database != "" {
		if st, err = store.Open(opts.Database); err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
	}

	var input column.Column
	if opts.Table != "" {
		input, err = st.LoadColumn(ctx, opts.Table, opts.Column, t)
	} else {
		input, err = column.FromStrings(t, opts.Values, settings.SessionTimezone)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read argument 1", err)
	}

	args, err := opts.arguments(t, input)
	if err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	out, callErr := sess.Call(ctx, name, args)

	if st != nil {
		if err := st.RecordRuns(ctx, sess.Trace()); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}
	if callErr != nil {
		return f.CallError(callErr)
	}

	values, err := column.Format(out, settings.SessionTimezone)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to format result", err)
	}

	if opts.Save != "" {
		if err := st.SaveColumn(ctx, opts.Save, "result", out); err != nil {
			return WrapExitError(ExitCommandError, "failed to save result", err)
		}
		f.VerboseLog("saved %d rows to %s", out.Len(), opts.Save)
	}

	result := EvalResult{
		QueryID:    sess.QueryID(),
		Function:   name,
		ArgTypes:   make([]string, len(args)),
		ReturnType: out.Type().Name(),
		Values:     values,
	}
	for i, a := range args {
		result.ArgTypes[i] = a.Type.Name()
	}
	if trace := sess.Trace(); len(trace) > 0 {
		result.Path = trace[len(trace)-1].Path
	}
	f.VerboseLog("%s(%s) -> %s via %s", name, strings.Join(result.ArgTypes, ", "), result.ReturnType, result.Path)

	return f.Success(result)
}

// check validates flag combinations.
func (o *EvalOptions) check() error {
	fromDB := o.Table != "" || o.Column != ""
	switch {
	case fromDB && (o.Table == "" || o.Column == ""):
		return NewExitError(ExitCommandError, "--table and --column must be given together")
	case fromDB && o.Database == "":
		return NewExitError(ExitCommandError, "--table requires --db")
	case fromDB && len(o.Values) > 0:
		return NewExitError(ExitCommandError, "--value cannot be combined with --table")
	case o.Save != "" && o.Database == "":
		return NewExitError(ExitCommandError, "--save requires --db")
	}
	return nil
}

// arguments builds the call arguments: the input column, then constant
// mode and timezone columns when requested.
func (o *EvalOptions) arguments(t types.DataType, input column.Column) ([]function.Argument, error) {
	args := []function.Argument{{Type: t, Column: input}}
	if o.Mode == "" && o.Timezone == "" {
		return args, nil
	}

	mode := uint64(0)
	if o.Mode != "" {
		var err error
		if mode, err = strconv.ParseUint(o.Mode, 10, 8); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --mode", err)
		}
	}
	modeCol, err := constOf(column.NewVector(types.UInt8{}, []uint8{uint8(mode)}), input.Len())
	if err != nil {
		return nil, err
	}
	args = append(args, function.Argument{Type: types.UInt8{}, Column: modeCol})

	if o.Timezone != "" {
		tzCol, err := constOf(column.NewVector(types.String{}, []string{o.Timezone}), input.Len())
		if err != nil {
			return nil, err
		}
		args = append(args, function.Argument{Type: types.String{}, Column: tzCol})
	}
	return args, nil
}

func constOf(value column.Column, rows int) (column.Column, error) {
	k, err := column.NewConst(value, rows)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build constant argument", err)
	}
	return k, nil
}
