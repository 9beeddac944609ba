package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/weekfn/internal/config"
	"github.com/roach88/weekfn/internal/function"
	"github.com/roach88/weekfn/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Profile is an optional CUE settings file overlaid on the environment.
	Profile string

	// EnableDate32Results turns the setting on regardless of env or profile.
	EnableDate32Results bool

	// SessionTimezone overrides the env/profile session timezone when set.
	SessionTimezone string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the weekfn CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "weekfn",
		Short: "weekfn - custom-week date functions",
		Long: `Evaluate ClickHouse-compatible custom-week functions (toWeek,
toYearWeek, toStartOfWeek, toLastDayOfWeek) over Date, Date32,
DateTime and DateTime64 columns.

Settings come from WEEKFN_* environment variables, then an optional
CUE profile (--profile), then the flags below.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "", "CUE settings profile")
	cmd.PersistentFlags().BoolVar(&opts.EnableDate32Results, "enable-date32-results", false, "keep Date32 width in identity-shape results")
	cmd.PersistentFlags().StringVar(&opts.SessionTimezone, "session-timezone", "", "session timezone (IANA name)")

	// Add subcommands
	cmd.AddCommand(NewFunctionsCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Settings resolves the effective settings: environment, then profile,
// then flags. Verbose forces debug logging.
func (o *RootOptions) Settings() (config.Settings, error) {
	s, err := config.Load(o.Profile)
	if err != nil {
		return config.Settings{}, WrapExitError(ExitCommandError, "failed to load settings", err)
	}
	if o.EnableDate32Results {
		s.EnableDate32Results = true
	}
	if o.SessionTimezone != "" {
		s.SessionTimezone = o.SessionTimezone
	}
	if o.Verbose {
		s.LogLevel = "debug"
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	return s, nil
}

// Logger builds the diagnostic logger for s, writing to w.
func (o *RootOptions) Logger(s config.Settings, w io.Writer) (*slog.Logger, error) {
	logger, err := config.NewLogger(s.LogLevel, s.LogFormat, w)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build logger", err)
	}
	return logger, nil
}

// newSession creates a session over the default registry with settings
// resolved from o. Logs go to the command's error stream.
func (o *RootOptions) newSession(cmd *cobra.Command) (*session.Session, config.Settings, error) {
	s, err := o.Settings()
	if err != nil {
		return nil, config.Settings{}, err
	}
	logger, err := o.Logger(s, cmd.ErrOrStderr())
	if err != nil {
		return nil, config.Settings{}, err
	}
	return session.New(s.Function(), function.Default(), session.WithLogger(logger)), s, nil
}
