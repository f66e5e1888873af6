package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/instawp/twowaysync-sample/internal/event"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output   string
	After    int64
	Provider string
}

// ExportResult is the output of the export command.
type ExportResult struct {
	Output string `json:"output"`
	Events int    `json:"events"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded events as an inbound batch",
		Long: `Write recorded events as a YAML batch the linked site can apply.

Without --output the batch is written to stdout.

Examples:
  iwpsync export -o batch.yaml
  iwpsync export --after 10 -o batch.yaml
  iwpsync export --provider post_meta -o posts.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "batch file path (default stdout)")
	cmd.Flags().Int64Var(&opts.After, "after", 0, "only events with seq greater than this")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "only events recorded by this provider")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	var events []event.Inbound
	if opts.Provider != "" {
		events, err = s.ExportProvider(cmd.Context(), opts.Provider, opts.After)
	} else {
		events, err = s.Export(cmd.Context(), opts.After)
	}
	if err != nil {
		return readEventsError(err)
	}
	data, err := event.MarshalBatch(events)
	if err != nil {
		return WrapCodedError(ExitFailure, ErrCodeGeneric, "failed to encode batch", err)
	}

	if opts.Output == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return WrapExitError(ExitCommandError, "failed to write batch", err)
		}
		return nil
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeWriteFailed, "failed to write batch", err)
	}

	f := opts.formatter(cmd)
	result := ExportResult{Output: opts.Output, Events: len(events)}
	if opts.Format == "json" {
		return f.Success(result)
	}
	f.Text("Exported %d event(s) to %s", result.Events, result.Output)
	return nil
}
