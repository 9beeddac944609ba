package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/weekfn/internal/session"
	"github.com/roach88/weekfn/internal/types"
)

// ResolveResult is the outcome of resolving a call signature.
type ResolveResult struct {
	Function    string   `json:"function"`
	ArgTypes    []string `json:"arg_types"`
	ReturnType  string   `json:"return_type"`
	Path        string   `json:"path,omitempty"`
	Fingerprint string   `json:"fingerprint"`
}

// String renders the result for text output.
func (r ResolveResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s) -> %s\n", r.Function, strings.Join(r.ArgTypes, ", "), r.ReturnType)
	if r.Path != "" {
		fmt.Fprintf(&b, "path:        %s\n", r.Path)
	}
	fmt.Fprintf(&b, "fingerprint: %s", r.Fingerprint)
	return b.String()
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <function> [type...]",
		Short: "Resolve the return type of a call",
		Long: `Validate a call signature and print its return type.

Types use their SQL spelling; quote parameterized types in the shell.
The return type depends on the argument 1 type and, for identity-shape
functions, on --enable-date32-results.

Exit codes:
  0 - Signature resolved
  1 - Signature rejected (wrong arity or illegal argument type)
  2 - Command error (unparseable type, bad settings)

Examples:
  weekfn resolve toWeek Date32
  weekfn resolve toStartOfWeek Date32 --enable-date32-results
  weekfn resolve toStartOfWeek "DateTime64(3, 'UTC')" UInt8 String`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args[0], args[1:], cmd)
		},
	}
}

func runResolve(opts *RootOptions, name string, typeNames []string, cmd *cobra.Command) error {
	argTypes, err := parseTypes(typeNames)
	if err != nil {
		return err
	}

	sess, _, err := opts.newSession(cmd)
	if err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	b, err := sess.Bind(name, argTypes)
	if err != nil {
		return f.CallError(err)
	}

	result := ResolveResult{
		Function:    b.Function.Name(),
		ArgTypes:    make([]string, len(b.ArgTypes)),
		ReturnType:  b.ReturnType.Name(),
		Fingerprint: b.Fingerprint,
	}
	for i, t := range b.ArgTypes {
		result.ArgTypes[i] = t.Name()
	}
	if p, ok := b.Function.(session.Planner); ok {
		if path, err := p.Plan(b.ArgTypes[0]); err == nil {
			result.Path = path.String()
		}
	}

	return f.Success(result)
}

func parseTypes(names []string) ([]types.DataType, error) {
	out := make([]types.DataType, len(names))
	for i, n := range names {
		t, err := types.Parse(n)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("argument %d", i+1), err)
		}
		out[i] = t
	}
	return out, nil
}
