package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/weekfn/internal/function"
)

// FunctionInfo describes one registered function.
type FunctionInfo struct {
	Name    string   `json:"name"`
	Family  string   `json:"family"`
	Aliases []string `json:"aliases,omitempty"`
	Result  string   `json:"result"`
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List available week functions",
		Long: `List the registered week functions with their family and aliases.

Identity-shape functions return a day type; scalar-shape functions
return an integer regardless of the input type.

Examples:
  weekfn functions
  weekfn functions --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunctions(rootOpts, cmd)
		},
	}
}

func runFunctions(opts *RootOptions, cmd *cobra.Command) error {
	reg := function.Default()

	var infos []FunctionInfo
	for _, e := range reg.Entries() {
		fn, err := reg.Build(e.Name, function.Settings{})
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to build function", err)
		}
		result := "same day type as argument 1"
		if r := fn.Spec().Result; r != nil {
			result = r.Name()
		}
		infos = append(infos, FunctionInfo{
			Name:    e.Name,
			Family:  e.Family.String(),
			Aliases: e.Aliases,
			Result:  result,
		})
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return f.Success(infos)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFAMILY\tRESULT\tALIASES")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Family, info.Result, strings.Join(info.Aliases, ", "))
	}
	return tw.Flush()
}
