package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/weekfn/internal/session"
	"github.com/roach88/weekfn/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	QueryID  string
	Function string // optional - filter to specific function
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	QueryID string          `json:"query_id"`
	Runs    []session.Event `json:"runs"`
	Stats   TraceStats      `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Batches int `json:"batches"`
	Rows    int `json:"rows"`
	Failed  int `json:"failed"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the executed batches of a query",
		Long: `Show the run log of a query recorded by "eval --db" or "test --db".

Each executed batch lists its function, binding fingerprint, kernel
path and row count. Calls rejected while binding are not logged.

Examples:
  weekfn trace --db ./weekfn.db --query 0190f5e2-...
  weekfn trace --db ./weekfn.db --query q-1 --function toWeek
  weekfn trace --db ./weekfn.db --query q-1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.QueryID, "query", "", "query id to trace (required)")
	_ = cmd.MarkFlagRequired("query")
	cmd.Flags().StringVar(&opts.Function, "function", "", "filter to a specific function")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.Runs(ctx, opts.QueryID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run log", err)
	}

	result := TraceResult{QueryID: opts.QueryID, Runs: []session.Event{}}
	for _, r := range runs {
		if opts.Function != "" && r.Function != opts.Function {
			continue
		}
		result.Runs = append(result.Runs, r)
		result.Stats.Batches++
		result.Stats.Rows += r.Rows
		if r.Error != "" {
			result.Stats.Failed++
		}
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result, QueryID: opts.QueryID})
	}

	return outputTraceText(cmd, result)
}

func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	if len(result.Runs) == 0 {
		fmt.Fprintf(w, "No runs found for query: %s\n", result.QueryID)
		return nil
	}

	fmt.Fprintf(w, "Query: %s\n\n", result.QueryID)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tFUNCTION\tPATH\tROWS\tSTATUS")
	for _, r := range result.Runs {
		status := "ok"
		if r.Error != "" {
			status = "error: " + r.Error
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.Seq, r.Function, r.Path, r.Rows, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d batches, %d rows, %d failed\n", result.Stats.Batches, result.Stats.Rows, result.Stats.Failed)
	return nil
}
