package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/instawp/twowaysync-sample/internal/config"
	"github.com/instawp/twowaysync-sample/internal/site"
	"github.com/instawp/twowaysync-sample/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the iwpsync CLI. cfg supplies
// flag defaults.
func NewRootCommand(cfg config.Config) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "iwpsync",
		Short: "iwpsync - two-way metadata sync",
		Long: `Record post and term metadata changes as sync events and replay
events from a linked site.

Each database is one site. Export its event log with "export" and apply it
to the linked site with "apply". "test" runs sync scenarios between
in-memory sites.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return WrapCodedError(ExitCommandError, ErrCodeInvalidArgs,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", cfg.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", cfg.DBPath, "path to the site's SQLite database")

	// Add subcommands
	cmd.AddCommand(NewProvidersCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewPostCommand(opts))
	cmd.AddCommand(NewTermCommand(opts))
	cmd.AddCommand(NewMetaCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are reported on stdout in the selected format.
func Execute(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(cfg)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !isValidFormat(format) {
		format = "text"
	}
	formatter := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr}
	_ = formatter.Error(GetErrCode(err), err.Error(), nil)
	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger returns a text logger on w: warnings by default, everything
// with verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// formatter returns an output formatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openSite opens the site database with the built-in providers registered.
// The returned close func must be called when done.
func (o *RootOptions) openSite() (*site.Site, func(), error) {
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, nil, WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s, err := site.NewDefault(st, site.WithLogger(logger))
	if err != nil {
		st.Close()
		return nil, nil, WrapCodedError(ExitCommandError, ErrCodeGeneric, "failed to register providers", err)
	}
	return s, func() { st.Close() }, nil
}
